package repositories

import (
	"context"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data.
// Every returned account has passed the stored-record validation profile.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier, soft-deleted or not.
	// Returns apperrors.ErrNotFound when no such account exists.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves accounts that are not soft-deleted, in insertion order.
	// A negative limit means no limit.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate if the ID is taken.
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// UpdateAccount overwrites an account whose stored version equals account.Version and bumps the stored version.
	// Returns apperrors.ErrNotFound or apperrors.ErrConflict.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// RemoveAccount deletes the record outright and reports whether it existed.
	RemoveAccount(ctx context.Context, accountID string) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
