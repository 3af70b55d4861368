// Package memory keeps accounts and transactions in process memory.
// It is the default store and the one the ledger tests run against; data is lost on restart.
package memory

import (
	"sync"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
)

// Store implements the account, transaction and ledger ports. It is safe for concurrent use.
//
// mu guards the maps and order slices. Balance changes additionally hold the per-account locks for the whole
// read-modify-write; the locks are always taken before mu.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	accountOrder []string
	transactions map[string]*domain.Transaction
	txnOrder     []string

	accountLocks *keyedMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[string]*domain.Transaction),
		accountLocks: newKeyedMutex(),
	}
}

// Repositories exposes the store through every port the services need.
func (s *Store) Repositories() repositories.RepositoryProvider {
	return repositories.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		Ledger:          s,
	}
}

// page applies offset and limit to n ordered items and returns the half-open index range.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit >= 0 && limit < n-offset {
		end = offset + limit
	}
	return offset, end
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

var (
	_ repositories.AccountRepositoryFacade     = (*Store)(nil)
	_ repositories.TransactionRepositoryFacade = (*Store)(nil)
	_ repositories.LedgerStore                 = (*Store)(nil)
)
