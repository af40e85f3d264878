package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// SQLSTATE codes the progress store cares about.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeNotNullViolation     = "23502"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeAdminShutdown        = "57P01"
	codeCannotConnectNow     = "57P03"
)

// MapError converts pgx/pgconn errors to domain errors. id is the key the
// repository operated on (a card id, a learner/set pair). Context errors
// are wrapped but not mapped.
func MapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%s %s: %w: %w", entity, id, domain.ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sentinel := sentinelFor(pgErr.Code); sentinel != nil {
			if sentinel == domain.ErrUnavailable {
				return fmt.Errorf("%s %s: %w: %w", entity, id, sentinel, err)
			}
			return fmt.Errorf("%s %s: %w", entity, id, sentinel)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}

func sentinelFor(code string) error {
	switch code {
	case codeUniqueViolation:
		return domain.ErrAlreadyExists
	case codeForeignKeyViolation:
		return domain.ErrNotFound
	case codeCheckViolation, codeNotNullViolation:
		return domain.ErrValidation
	// Transient: the caller may retry the whole transaction.
	case codeSerializationFailure, codeDeadlockDetected, codeAdminShutdown, codeCannotConnectNow:
		return domain.ErrUnavailable
	}
	return nil
}
