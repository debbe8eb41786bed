package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

// Search queries the catalog by term and/or genre. A term is first rewritten
// into its catalog-friendly form and then used to narrow the results by
// title; narrowing that matches nothing is ignored.
func (s *Service) Search(ctx context.Context, in SearchInput) ([]Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	term := in.Query
	if term != "" {
		term = s.translator.NormalizeSearchQuery(ctx, term)
	}

	filter := domain.MediaFilter{
		Page:                1,
		PerPage:             searchPerPage,
		Search:              term,
		Genre:               in.genre,
		ExcludedGenres:      domain.MatureGenres,
		AverageScoreGreater: intPtr(searchScoreFloor),
		Sort:                sortKeys(in.sort),
	}
	if !in.IncludeMovies {
		filter.EpisodesGreater = intPtr(episodeFloor)
	}

	items, err := s.catalog.Page(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}

	if term != "" {
		items = narrowByTitle(items, term)
	}

	s.log.DebugContext(ctx, "catalog search",
		slog.String("term", term),
		slog.String("genre", in.genre),
		slog.Int("items", len(items)),
	)
	return s.localizeList(ctx, items), nil
}

// Popular returns the most popular series.
func (s *Service) Popular(ctx context.Context) ([]Item, error) {
	items, err := s.catalog.Page(ctx, domain.MediaFilter{
		Page:            1,
		PerPage:         listPerPage,
		ExcludedGenres:  domain.MatureGenres,
		EpisodesGreater: intPtr(episodeFloor),
		Sort:            []domain.MediaSort{domain.MediaSortPopularityDesc},
	})
	if err != nil {
		return nil, fmt.Errorf("popular catalog: %w", err)
	}
	return s.localizeList(ctx, items), nil
}

// Recommendations returns a page picked at random. The page range narrows
// when filters are active, and an empty page is retried once at page 1.
func (s *Service) Recommendations(ctx context.Context, in RecommendInput) ([]Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	maxPage := s.recommendMaxPage
	if in.filtered() {
		maxPage = s.recommendFilterMaxPage
	}

	filter := domain.MediaFilter{
		Page:            1 + s.randIntN(maxPage),
		PerPage:         listPerPage,
		Genre:           in.genre,
		ExcludedGenres:  domain.MatureGenres,
		EpisodesGreater: intPtr(episodeFloor),
		Sort:            sortKeys(in.sort),
	}

	items, err := s.catalog.Page(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("recommend catalog page %d: %w", filter.Page, err)
	}

	if len(items) == 0 {
		s.log.InfoContext(ctx, "empty recommendation page, retrying first page",
			slog.Int("page", filter.Page),
		)
		filter.Page = 1
		items, err = s.catalog.Page(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("recommend catalog page 1: %w", err)
		}
	}

	return s.localizeList(ctx, items), nil
}

// Detail returns one fully localized item or domain.ErrNotFound.
func (s *Service) Detail(ctx context.Context, id int) (*Detail, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "must be positive")
	}

	d, err := s.catalog.Media(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog detail: %w", err)
	}
	return s.localizeDetail(ctx, d), nil
}

// narrowByTitle keeps items whose English or romanized title contains term.
// It returns items unchanged when nothing matches.
func narrowByTitle(items []domain.Anime, term string) []domain.Anime {
	narrowed := make([]domain.Anime, 0, len(items))
	for _, it := range items {
		if it.Title.Matches(term) {
			narrowed = append(narrowed, it)
		}
	}
	if len(narrowed) == 0 {
		return items
	}
	return narrowed
}
