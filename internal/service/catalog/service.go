// Package catalog builds catalog queries and localizes their results.
package catalog

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/heartmarshall/anikor-backend/internal/config"
	"github.com/heartmarshall/anikor-backend/internal/domain"
)

type catalogClient interface {
	Page(ctx context.Context, filter domain.MediaFilter) ([]domain.Anime, error)
	Media(ctx context.Context, id int) (*domain.AnimeDetail, error)
}

type translator interface {
	Translate(ctx context.Context, text string, kind domain.TranslationKind, verify bool) string
	NormalizeSearchQuery(ctx context.Context, term string) string
}

const (
	searchPerPage    = 10
	listPerPage      = 5
	searchScoreFloor = 60
	episodeFloor     = 1
)

// Service implements search, popular, recommendation and detail lookups.
type Service struct {
	log        *slog.Logger
	catalog    catalogClient
	translator translator

	recommendMaxPage       int
	recommendFilterMaxPage int
	randIntN               func(n int) int
}

func NewService(logger *slog.Logger, catalog catalogClient, translator translator, cfg config.CatalogConfig) *Service {
	return &Service{
		log:                    logger.With("service", "catalog"),
		catalog:                catalog,
		translator:             translator,
		recommendMaxPage:       max(cfg.RecommendMaxPage, 1),
		recommendFilterMaxPage: max(cfg.RecommendFilterMaxPage, 1),
		randIntN:               rand.IntN,
	}
}

func intPtr(n int) *int { return &n }
