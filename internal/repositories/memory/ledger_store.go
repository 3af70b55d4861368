package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finn_ledger/internal/validation"
)

// ApplyTransaction serializes on the referenced accounts, runs apply on copies and commits the copies' balances
// together with txn. Nothing is written when apply fails.
func (s *Store) ApplyTransaction(ctx context.Context, txn *domain.Transaction, apply repositories.ApplyFunc) error {
	unlock := s.accountLocks.LockAll(txn.AccountIDs())
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	accounts, err := s.loadForApply(txn.AccountIDs())
	if err != nil {
		return err
	}

	if err := apply(accounts); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
	}

	// RemoveAccount and UpdateAccount do not take account locks, so a record may have been
	// removed or soft-deleted since it was loaded.
	for id := range accounts {
		if stored, ok := s.accounts[id]; !ok || stored.IsDeleted {
			return fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
	}

	now := time.Now().UTC()
	for id, acc := range accounts {
		stored := s.accounts[id]
		stored.Balance = acc.Balance
		stored.Version++
		stored.Touch(now)
	}
	return s.insertTransactionLocked(*txn)
}

func (s *Store) loadForApply(ids []string) (map[string]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make(map[string]*domain.Account, len(ids))
	for _, id := range ids {
		stored, ok := s.accounts[id]
		if !ok || stored.IsDeleted {
			return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		acc := *stored
		if err := validation.AccountRead(acc); err != nil {
			return nil, err
		}
		accounts[id] = &acc
	}
	return accounts, nil
}
