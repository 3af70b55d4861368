package pgsql

import (
	"fmt"
	"testing"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsMalformedID(t *testing.T) {
	malformed := fmt.Errorf("query: %w", &pgconn.PgError{Code: pgInvalidTextRepresentation})

	assert.True(t, isMalformedID(malformed))
	assert.False(t, isMalformedID(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.False(t, isMalformedID(fmt.Errorf("connection refused")))
	assert.False(t, isMalformedID(nil))
}

func TestTranslateInsertError(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "duplicate id", code: pgUniqueViolation, want: apperrors.ErrDuplicate},
		{name: "unknown account", code: pgForeignKeyViolation, want: apperrors.ErrNotFound},
		{name: "malformed account id", code: pgInvalidTextRepresentation, want: apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateInsertError("txn-1", &pgconn.PgError{Code: tt.code})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	err := translateInsertError("txn-1", fmt.Errorf("connection reset"))
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
}
