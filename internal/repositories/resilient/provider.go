// Package resilient decorates repository ports so every call goes through a resilience.Executor.
package resilient

import (
	"context"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finn_ledger/pkg/resilience"
)

// NewRepositoryProvider wraps every repository of next with the same executor.
func NewRepositoryProvider(next portsrepo.RepositoryProvider, exec *resilience.Executor) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(next.AccountRepo, exec),
		TransactionRepo: NewTransactionRepository(next.TransactionRepo, exec),
		Ledger:          NewLedgerStore(next.Ledger, exec),
	}
}

// LedgerStore guards a LedgerStore.
type LedgerStore struct {
	next portsrepo.LedgerStore
	exec *resilience.Executor
}

// NewLedgerStore creates a resilient LedgerStore.
func NewLedgerStore(next portsrepo.LedgerStore, exec *resilience.Executor) *LedgerStore {
	return &LedgerStore{next: next, exec: exec}
}

// ApplyTransaction may run apply more than once when the store is retried; apply must only touch the given accounts.
func (l *LedgerStore) ApplyTransaction(ctx context.Context, txn *domain.Transaction, apply portsrepo.ApplyFunc) error {
	return l.exec.Do(ctx, "ApplyTransaction", func(ctx context.Context) error {
		return l.next.ApplyTransaction(ctx, txn, apply)
	})
}

var _ portsrepo.LedgerStore = (*LedgerStore)(nil)
