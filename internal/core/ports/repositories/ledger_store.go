package repositories

import (
	"context"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
)

// ApplyFunc mutates the locked accounts, keyed by account ID. Returning an error aborts the unit of work.
type ApplyFunc func(accounts map[string]*domain.Account) error

// LedgerStore applies a transaction to account balances as a single unit of work.
//
// ApplyTransaction locks every account in txn.AccountIDs() in sorted order, loads them and calls apply.
// If apply succeeds, the accounts and txn are persisted together; otherwise nothing is written.
// A referenced account that does not exist or is soft-deleted fails with apperrors.ErrNotFound before apply runs.
type LedgerStore interface {
	ApplyTransaction(ctx context.Context, txn *domain.Transaction, apply ApplyFunc) error
}
