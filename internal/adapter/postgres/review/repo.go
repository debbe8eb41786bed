// Package review persists user reviews of catalog items.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/anikor-backend/internal/adapter/postgres"
	"github.com/heartmarshall/anikor-backend/internal/domain"
)

const (
	table   = "review"
	columns = "id, anime_id, username, rating, text, created_at"
)

type row struct {
	ID        int64     `db:"id"`
	AnimeID   int       `db:"anime_id"`
	Username  string    `db:"username"`
	Rating    int       `db:"rating"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() domain.Review {
	return domain.Review{
		ID:        r.ID,
		AnimeID:   r.AnimeID,
		Username:  r.Username,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// Repo provides review persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts rv and returns it with the assigned id and created_at.
func (r *Repo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("anime_id", "username", "rating", "text").
		Values(rv.AnimeID, rv.Username, rv.Rating, rv.Text).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert review: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "review for anime", rv.AnimeID)
	}
	got, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, postgres.MapError(err, "review for anime", rv.AnimeID)
	}

	out := got.toDomain()
	return &out, nil
}

// ListByAnime returns every review of animeID, newest first.
func (r *Repo) ListByAnime(ctx context.Context, animeID int) ([]domain.Review, error) {
	query, args, err := postgres.Builder().
		Select(columns).
		From(table).
		Where(squirrel.Eq{"anime_id": animeID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reviews: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews for anime %d: %w", animeID, err)
	}
	got, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, fmt.Errorf("scan reviews for anime %d: %w", animeID, err)
	}

	out := make([]domain.Review, len(got))
	for i, g := range got {
		out[i] = g.toDomain()
	}
	return out, nil
}
