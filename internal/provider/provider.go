// Package provider holds the contracts shared between services and the
// adapters that talk to external systems.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

// ErrDisabled is returned by a model adapter that has no credential.
var ErrDisabled = errors.New("provider disabled")

// Session is a single model conversation scope. Each translation attempt
// acquires its own session and closes it when the attempt is over.
type Session interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
	Close() error
}

// ExternalError describes a failed call to an upstream service.
// It unwraps to domain.ErrExternal and, if present, the transport cause.
type ExternalError struct {
	Service string
	Status  int
	Err     error
}

func (e *ExternalError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Service, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Service, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	default:
		return e.Service + ": request failed"
	}
}

func (e *ExternalError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrExternal}
	}
	return []error{domain.ErrExternal, e.Err}
}
