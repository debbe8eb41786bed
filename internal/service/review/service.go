// Package review implements adding and listing user reviews.
package review

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

type reviewRepo interface {
	Create(ctx context.Context, rv domain.Review) (*domain.Review, error)
	ListByAnime(ctx context.Context, animeID int) ([]domain.Review, error)
}

// Service implements the review ledger.
type Service struct {
	log     *slog.Logger
	reviews reviewRepo
}

func NewService(logger *slog.Logger, reviews reviewRepo) *Service {
	return &Service{
		log:     logger.With("service", "review"),
		reviews: reviews,
	}
}

// Add validates and stores a review. A blank username becomes the anonymous
// author; username and text are HTML-escaped before storage.
func (s *Service) Add(ctx context.Context, in AddInput) (*domain.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = domain.AnonymousAuthor
	}

	created, err := s.reviews.Create(ctx, domain.Review{
		AnimeID:  *in.AnimeID,
		Username: html.EscapeString(username),
		Rating:   *in.Rating,
		Text:     html.EscapeString(in.Text),
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.InfoContext(ctx, "review added",
		slog.Int64("review_id", created.ID),
		slog.Int("anime_id", created.AnimeID),
		slog.Int("rating", created.Rating),
	)
	return created, nil
}

// List returns all reviews for animeID, newest first.
func (s *Service) List(ctx context.Context, animeID int) ([]domain.Review, error) {
	if animeID <= 0 {
		return nil, domain.NewValidationError("animeId", "must be positive")
	}

	reviews, err := s.reviews.ListByAnime(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
