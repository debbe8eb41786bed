// Package translation owns the Korean translation memo and the model
// protocol that fills it.
package translation

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/provider"
)

type translationRepo interface {
	GetBySource(ctx context.Context, source string) (*domain.Translation, error)
	Create(ctx context.Context, source, translated string) (*domain.Translation, error)
	Upsert(ctx context.Context, source, translated string) (*domain.Translation, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type memo interface {
	Find(ctx context.Context, source string) (*domain.Translation, error)
	Save(ctx context.Context, source, translated string) (*domain.Translation, error)
	Refresh(ctx context.Context, source, translated string) (*domain.Translation, error)
}

type sessionSource interface {
	Acquire(ctx context.Context) (provider.Session, error)
}

// Store is the durable source -> translation memo.
type Store struct {
	log  *slog.Logger
	repo translationRepo
	tx   txManager
}

func NewStore(logger *slog.Logger, repo translationRepo, tx txManager) *Store {
	return &Store{
		log:  logger.With("service", "translation_store"),
		repo: repo,
		tx:   tx,
	}
}

// Translator turns catalog text into Korean, consulting the memo first.
// It never fails: any problem yields the source text unchanged.
type Translator struct {
	log    *slog.Logger
	memo   memo
	models sessionSource
}

func NewTranslator(logger *slog.Logger, memo memo, models sessionSource) *Translator {
	return &Translator{
		log:    logger.With("service", "translator"),
		memo:   memo,
		models: models,
	}
}
