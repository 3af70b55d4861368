package resilient

import (
	"context"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finn_ledger/pkg/resilience"
)

// TransactionRepository guards a TransactionRepositoryFacade.
type TransactionRepository struct {
	next portsrepo.TransactionRepositoryFacade
	exec *resilience.Executor
}

// NewTransactionRepository creates a resilient TransactionRepository.
func NewTransactionRepository(next portsrepo.TransactionRepositoryFacade, exec *resilience.Executor) *TransactionRepository {
	return &TransactionRepository{next: next, exec: exec}
}

func (r *TransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := r.exec.Do(ctx, "FindTransactionByID", func(ctx context.Context) error {
		var err error
		txn, err = r.next.FindTransactionByID(ctx, transactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *TransactionRepository) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	err := r.exec.Do(ctx, "ListTransactions", func(ctx context.Context) error {
		var err error
		txns, err = r.next.ListTransactions(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *TransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	var saved *domain.Transaction
	err := r.exec.Do(ctx, "SaveTransaction", func(ctx context.Context) error {
		var err error
		saved, err = r.next.SaveTransaction(ctx, txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *TransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.exec.Do(ctx, "UpdateTransaction", func(ctx context.Context) error {
		return r.next.UpdateTransaction(ctx, txn)
	})
}

func (r *TransactionRepository) RemoveTransaction(ctx context.Context, transactionID string) (bool, error) {
	var removed bool
	err := r.exec.Do(ctx, "RemoveTransaction", func(ctx context.Context) error {
		var err error
		removed, err = r.next.RemoveTransaction(ctx, transactionID)
		return err
	})
	return removed, err
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)
