// Package dataloader provides a per-request batched reader for the
// translation memo. Concurrent lookups made while localizing a list are
// collapsed into a single SQL query.
package dataloader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/service/translation"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type translationRepo interface {
	GetBySources(ctx context.Context, sources []string) ([]domain.Translation, error)
}

// Loaders holds the per-request loader instances. It satisfies
// translation.Lookup.
type Loaders struct {
	TranslationBySource *dataloader.Loader[string, *domain.Translation]
}

var _ translation.Lookup = (*Loaders)(nil)

// NewLoaders must be called per request; loaders cache for their lifetime.
func NewLoaders(repo translationRepo) *Loaders {
	return &Loaders{
		TranslationBySource: dataloader.NewBatchedLoader(
			newTranslationBatchFn(repo),
			dataloader.WithWait[string, *domain.Translation](wait),
			dataloader.WithBatchCapacity[string, *domain.Translation](maxBatch),
		),
	}
}

// Find returns the memo record for source or domain.ErrNotFound.
func (l *Loaders) Find(ctx context.Context, source string) (*domain.Translation, error) {
	return l.TranslationBySource.Load(ctx, source)()
}

// Prime replaces any cached result for tr.SourceText.
func (l *Loaders) Prime(ctx context.Context, tr *domain.Translation) {
	if tr == nil {
		return
	}
	l.TranslationBySource.Clear(ctx, tr.SourceText).Prime(ctx, tr.SourceText, tr)
}

func newTranslationBatchFn(repo translationRepo) dataloader.BatchFunc[string, *domain.Translation] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*domain.Translation] {
		results := make([]*dataloader.Result[*domain.Translation], len(keys))

		found, err := repo.GetBySources(ctx, keys)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*domain.Translation]{Error: err}
			}
			return results
		}

		bySource := make(map[string]*domain.Translation, len(found))
		for i := range found {
			bySource[found[i].SourceText] = &found[i]
		}

		for i, key := range keys {
			if tr, ok := bySource[key]; ok {
				results[i] = &dataloader.Result[*domain.Translation]{Data: tr}
			} else {
				results[i] = &dataloader.Result[*domain.Translation]{Error: fmt.Errorf("translation: %w", domain.ErrNotFound)}
			}
		}
		return results
	}
}

// Middleware attaches fresh loaders to every request context.
func Middleware(repo translationRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := translation.WithLookup(r.Context(), NewLoaders(repo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
