// Package translation persists the source -> Korean translation memo.
// Lookups go through the md5(source_text) unique index and then compare the
// full text, so long descriptions stay indexable.
package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/anikor-backend/internal/adapter/postgres"
	"github.com/heartmarshall/anikor-backend/internal/domain"
)

const (
	table   = "translation"
	entity  = "translation"
	maxKey  = 48
	columns = "id, source_text, translated_text, updated_at"
)

type row struct {
	ID             int64     `db:"id"`
	SourceText     string    `db:"source_text"`
	TranslatedText string    `db:"translated_text"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.Translation {
	return &domain.Translation{
		ID:             r.ID,
		SourceText:     r.SourceText,
		TranslatedText: r.TranslatedText,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Repo provides translation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetBySource returns the record whose source text equals source exactly.
func (r *Repo) GetBySource(ctx context.Context, source string) (*domain.Translation, error) {
	query, args, err := postgres.Builder().
		Select(columns).
		From(table).
		Where("md5(source_text) = md5(?)", source).
		Where(squirrel.Eq{"source_text": source}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get translation: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, logKey(source))
	}
	got, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, postgres.MapError(err, entity, logKey(source))
	}
	return got.toDomain(), nil
}

// GetBySources returns the records for every source that has one. Missing
// sources are simply absent from the result.
func (r *Repo) GetBySources(ctx context.Context, sources []string) ([]domain.Translation, error) {
	if len(sources) == 0 {
		return []domain.Translation{}, nil
	}

	query, args, err := postgres.Builder().
		Select(columns).
		From(table).
		Where("md5(source_text) = ANY(ARRAY(SELECT md5(s) FROM unnest(?::text[]) AS s))", sources).
		Where("source_text = ANY(?::text[])", sources).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get translations: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get translations by source: %w", err)
	}
	got, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, fmt.Errorf("scan translations: %w", err)
	}

	out := make([]domain.Translation, len(got))
	for i, g := range got {
		out[i] = *g.toDomain()
	}
	return out, nil
}

// Create inserts a new record. A concurrent insert of the same source yields
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, source, translated string) (*domain.Translation, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("source_text", "translated_text").
		Values(source, translated).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert translation: %w", err)
	}
	return r.one(ctx, query, args, source)
}

// Upsert writes translated for source, replacing any existing text and
// bumping updated_at.
func (r *Repo) Upsert(ctx context.Context, source, translated string) (*domain.Translation, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("source_text", "translated_text").
		Values(source, translated).
		Suffix("ON CONFLICT ((md5(source_text))) DO UPDATE SET translated_text = EXCLUDED.translated_text, updated_at = now() RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert translation: %w", err)
	}
	return r.one(ctx, query, args, source)
}

// ListStale returns up to limit records last written before cutoff, oldest
// first.
func (r *Repo) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]domain.Translation, error) {
	query, args, err := postgres.Builder().
		Select(columns).
		From(table).
		Where(squirrel.Lt{"updated_at": cutoff}).
		OrderBy("updated_at ASC", "id ASC").
		Limit(uint64(max(limit, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stale translations: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stale translations: %w", err)
	}
	got, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, fmt.Errorf("scan stale translations: %w", err)
	}

	out := make([]domain.Translation, len(got))
	for i, g := range got {
		out[i] = *g.toDomain()
	}
	return out, nil
}

func (r *Repo) one(ctx context.Context, query string, args []any, source string) (*domain.Translation, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, logKey(source))
	}
	got, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[row])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %q: no row returned", entity, logKey(source))
		}
		return nil, postgres.MapError(err, entity, logKey(source))
	}
	return got.toDomain(), nil
}

// logKey shortens long source texts for error messages.
func logKey(source string) string {
	r := []rune(source)
	if len(r) <= maxKey {
		return source
	}
	return string(r[:maxKey]) + "…"
}
