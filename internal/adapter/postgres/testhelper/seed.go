package testhelper

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

// RandomAnimeID returns an id unlikely to collide with other tests.
func RandomAnimeID() int {
	return 1_000_000 + rand.IntN(1_000_000_000)
}

// SeedReview inserts a review with an explicit created_at.
func SeedReview(t *testing.T, pool *pgxpool.Pool, animeID, rating int, createdAt time.Time) domain.Review {
	t.Helper()

	rv := domain.Review{
		AnimeID:   animeID,
		Username:  "seed-" + UniqueSuffix(),
		Rating:    rating,
		Text:      "seeded review",
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO review (anime_id, username, rating, text, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		rv.AnimeID, rv.Username, rv.Rating, rv.Text, rv.CreatedAt,
	).Scan(&rv.ID)
	if err != nil {
		t.Fatalf("testhelper: seed review: %v", err)
	}
	return rv
}

// SeedTranslation inserts a memo record.
func SeedTranslation(t *testing.T, pool *pgxpool.Pool, source, translated string) domain.Translation {
	t.Helper()

	tr := domain.Translation{SourceText: source, TranslatedText: translated}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO translation (source_text, translated_text) VALUES ($1, $2) RETURNING id, updated_at`,
		source, translated,
	).Scan(&tr.ID, &tr.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: seed translation: %v", err)
	}
	return tr
}
