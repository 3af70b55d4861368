package resilient

import (
	"context"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finn_ledger/pkg/resilience"
)

// AccountRepository guards an AccountRepositoryFacade.
type AccountRepository struct {
	next portsrepo.AccountRepositoryFacade
	exec *resilience.Executor
}

// NewAccountRepository creates a resilient AccountRepository.
func NewAccountRepository(next portsrepo.AccountRepositoryFacade, exec *resilience.Executor) *AccountRepository {
	return &AccountRepository{next: next, exec: exec}
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var acc *domain.Account
	err := r.exec.Do(ctx, "FindAccountByID", func(ctx context.Context) error {
		var err error
		acc, err = r.next.FindAccountByID(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.exec.Do(ctx, "ListAccounts", func(ctx context.Context) error {
		var err error
		accounts, err = r.next.ListAccounts(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	var saved *domain.Account
	err := r.exec.Do(ctx, "SaveAccount", func(ctx context.Context) error {
		var err error
		saved, err = r.next.SaveAccount(ctx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.exec.Do(ctx, "UpdateAccount", func(ctx context.Context) error {
		return r.next.UpdateAccount(ctx, account)
	})
}

func (r *AccountRepository) RemoveAccount(ctx context.Context, accountID string) (bool, error) {
	var removed bool
	err := r.exec.Do(ctx, "RemoveAccount", func(ctx context.Context) error {
		var err error
		removed, err = r.next.RemoveAccount(ctx, accountID)
		return err
	})
	return removed, err
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)
