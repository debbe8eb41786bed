package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeNotNull         = "23502"
)

// MapError converts pgx errors into domain errors, prefixed with the entity
// and the key that was looked up. Context errors pass through unmapped.
func MapError(err error, entity string, key any) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %v: %w", entity, key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s %v: %w", entity, key, domain.ErrAlreadyExists)
		case codeCheckViolation, codeNotNull:
			return fmt.Errorf("%s %v: %w", entity, key, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %v: %w", entity, key, err)
}
