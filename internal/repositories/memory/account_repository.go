package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/validation"
)

// SaveAccount stores a copy of account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if account.Version == 0 {
		account.Version = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return nil, fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	stored := account
	s.accounts[account.AccountID] = &stored
	s.accountOrder = append(s.accountOrder, account.AccountID)

	out := stored
	return &out, nil
}

// FindAccountByID returns a copy of the stored account, including soft-deleted ones.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	stored, ok := s.accounts[accountID]
	var acc domain.Account
	if ok {
		acc = *stored
	}
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	if err := validation.AccountRead(acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// ListAccounts returns copies of the accounts that are not soft-deleted, oldest first.
func (s *Store) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	active := make([]domain.Account, 0, len(s.accountOrder))
	for _, id := range s.accountOrder {
		if acc := s.accounts[id]; !acc.IsDeleted {
			active = append(active, *acc)
		}
	}
	s.mu.RUnlock()

	start, end := page(len(active), limit, offset)
	result := active[start:end]
	for i := range result {
		if err := validation.AccountRead(result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UpdateAccount writes the mutable fields of account when its version matches the stored one.
// The balance is left alone: only ApplyTransaction moves money.
func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	if stored.Version != account.Version {
		return fmt.Errorf("account %s at version %d, update expected %d: %w",
			account.AccountID, stored.Version, account.Version, apperrors.ErrConflict)
	}

	stored.Name = account.Name
	stored.Description = account.Description
	stored.IsDeleted = account.IsDeleted
	if account.UpdatedAt != nil {
		stored.UpdatedAt = account.UpdatedAt
	} else {
		stored.Touch(time.Now().UTC())
	}
	stored.Version++
	return nil
}

// RemoveAccount deletes the account record and reports whether it existed.
func (s *Store) RemoveAccount(ctx context.Context, accountID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return false, nil
	}
	delete(s.accounts, accountID)
	s.accountOrder = removeID(s.accountOrder, accountID)
	return true, nil
}
