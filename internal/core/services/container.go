package services

import (
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finn_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, txnOptions ...TransactionServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:     NewAccountService(repos.AccountRepo),
		Transaction: NewTransactionService(repos.TransactionRepo, repos.Ledger, txnOptions...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade     = (*accountService)(nil)
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
)
