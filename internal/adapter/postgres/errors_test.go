package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil, "card_progress", "es_b1_1"))
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan row: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"unique_violation", &pgconn.PgError{Code: "23505"}, domain.ErrAlreadyExists},
		{"foreign_key_violation", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"check_violation", &pgconn.PgError{Code: "23514"}, domain.ErrValidation},
		{"not_null_violation", &pgconn.PgError{Code: "23502"}, domain.ErrValidation},
		{"serialization_failure", &pgconn.PgError{Code: "40001"}, domain.ErrUnavailable},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrUnavailable},
		{"admin_shutdown", &pgconn.PgError{Code: "57P01"}, domain.ErrUnavailable},
		{"wrapped pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), domain.ErrAlreadyExists},
		{"connect error", &pgconn.ConnectError{}, domain.ErrUnavailable},
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded},
		{"canceled", context.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err, "card_progress", "es_b1_1")
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapError_ContextNotMappedToDomain(t *testing.T) {
	t.Parallel()

	got := MapError(context.Canceled, "card_progress", "es_b1_1")
	assert.NotErrorIs(t, got, domain.ErrNotFound)
	assert.NotErrorIs(t, got, domain.ErrUnavailable)
}

func TestMapError_UnknownPgErrorPassesThrough(t *testing.T) {
	t.Parallel()

	got := MapError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"}, "card_progress", "x")

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(got, &pgErr))
	assert.NotErrorIs(t, got, domain.ErrNotFound)
	assert.NotErrorIs(t, got, domain.ErrValidation)
}

func TestMapError_Message(t *testing.T) {
	t.Parallel()

	got := MapError(errors.New("something unexpected"), "card_progress", "es_b1_7")
	assert.Equal(t, "card_progress es_b1_7: something unexpected", got.Error())
}

func TestMapError_TransientKeepsCause(t *testing.T) {
	t.Parallel()

	got := MapError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"}, "card_progress", "es/b1")

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(got, &pgErr))
	assert.ErrorIs(t, got, domain.ErrUnavailable)
}
