package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

// Find returns the record for source, or domain.ErrNotFound.
func (s *Store) Find(ctx context.Context, source string) (*domain.Translation, error) {
	if l, ok := lookupFromCtx(ctx); ok {
		return l.Find(ctx, source)
	}
	return s.repo.GetBySource(ctx, source)
}

// Save records translated for source. When another writer got there first
// its row wins and is returned instead.
func (s *Store) Save(ctx context.Context, source, translated string) (*domain.Translation, error) {
	var saved *domain.Translation
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		saved, createErr = s.repo.Create(txCtx, source, translated)
		return createErr
	})

	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("create translation: %w", err)
		}
		winner, getErr := s.repo.GetBySource(ctx, source)
		if getErr != nil {
			return nil, fmt.Errorf("get translation after conflict: %w", getErr)
		}
		s.log.DebugContext(ctx, "translation already stored by concurrent writer",
			slog.Int64("translation_id", winner.ID),
		)
		saved = winner
	}

	if l, ok := lookupFromCtx(ctx); ok {
		l.Prime(ctx, saved)
	}
	return saved, nil
}

// Refresh overwrites the stored translation for source and bumps updated_at.
func (s *Store) Refresh(ctx context.Context, source, translated string) (*domain.Translation, error) {
	var saved *domain.Translation
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var upsertErr error
		saved, upsertErr = s.repo.Upsert(txCtx, source, translated)
		return upsertErr
	})
	if err != nil {
		return nil, fmt.Errorf("refresh translation: %w", err)
	}

	if l, ok := lookupFromCtx(ctx); ok {
		l.Prime(ctx, saved)
	}
	s.log.InfoContext(ctx, "translation refreshed", slog.Int64("translation_id", saved.ID))
	return saved, nil
}
