package repositories

import (
	"context"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID returns apperrors.ErrNotFound when no such transaction exists.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns transactions in insertion order. A negative limit means no limit.
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data.
// Applying a transaction to balances goes through LedgerStore, not through this interface.
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	RemoveTransaction(ctx context.Context, transactionID string) (bool, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
