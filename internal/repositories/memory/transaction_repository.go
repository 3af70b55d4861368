package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/validation"
)

// SaveTransaction records a transaction without touching any balance.
func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insertTransactionLocked(txn); err != nil {
		return nil, err
	}
	out := txn
	return &out, nil
}

func (s *Store) insertTransactionLocked(txn domain.Transaction) error {
	if _, exists := s.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
	}
	s.transactions[txn.TransactionID] = &txn
	s.txnOrder = append(s.txnOrder, txn.TransactionID)
	return nil
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	stored, ok := s.transactions[transactionID]
	var txn domain.Transaction
	if ok {
		txn = *stored
	}
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	if err := validation.TransactionRead(txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *Store) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	start, end := page(len(s.txnOrder), limit, offset)
	result := make([]domain.Transaction, 0, end-start)
	for _, id := range s.txnOrder[start:end] {
		result = append(result, *s.transactions[id])
	}
	s.mu.RUnlock()

	for i := range result {
		if err := validation.TransactionRead(result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UpdateTransaction replaces the stored record. Balances are not touched.
func (s *Store) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[txn.TransactionID]; !ok {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrNotFound)
	}
	s.transactions[txn.TransactionID] = &txn
	return nil
}

func (s *Store) RemoveTransaction(ctx context.Context, transactionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[transactionID]; !ok {
		return false, nil
	}
	delete(s.transactions, transactionID)
	s.txnOrder = removeID(s.txnOrder, transactionID)
	return true, nil
}
