package translation

import (
	"context"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

// Lookup is a request-scoped reader placed in front of the store, typically
// batching concurrent Find calls into one query.
type Lookup interface {
	Find(ctx context.Context, source string) (*domain.Translation, error)
	Prime(ctx context.Context, tr *domain.Translation)
}

type lookupCtxKey struct{}

// WithLookup attaches l to ctx. Store.Find reads through it.
func WithLookup(ctx context.Context, l Lookup) context.Context {
	return context.WithValue(ctx, lookupCtxKey{}, l)
}

func lookupFromCtx(ctx context.Context) (Lookup, bool) {
	l, ok := ctx.Value(lookupCtxKey{}).(Lookup)
	return l, ok && l != nil
}
