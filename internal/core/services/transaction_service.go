package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finn_ledger/internal/core/ports/services"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/utils/accounting"
	"github.com/SscSPs/finn_ledger/internal/validation"
	"github.com/SscSPs/finn_ledger/pkg/metrics"
)

const publishTimeout = 5 * time.Second

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	txnRepo   portsrepo.TransactionReader
	ledger    portsrepo.LedgerStore
	policy    accounting.BalancePolicy
	publisher portsrepo.EventPublisher
	now       func() time.Time
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithBalancePolicy replaces the default policy of rejecting negative cash balances.
func WithBalancePolicy(policy accounting.BalancePolicy) TransactionServiceOption {
	return func(s *transactionService) {
		s.policy = policy
	}
}

// WithEventPublisher announces applied transactions through publisher.
func WithEventPublisher(publisher portsrepo.EventPublisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.publisher = publisher
	}
}

// WithMetrics reports transaction outcomes to collector.
func WithMetrics(collector metrics.MetricsCollector) TransactionServiceOption {
	return func(s *transactionService) {
		s.Metrics = collector
	}
}

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(txnRepo portsrepo.TransactionReader, ledger portsrepo.LedgerStore, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo: txnRepo,
		ledger:  ledger,
		policy:  accounting.DefaultBalancePolicy(),
		now:     func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	input, err := validation.TransactionCreate(req)
	if err != nil {
		s.collector().RecordTransaction("invalid", metrics.OutcomeRejected)
		s.LogDebug(ctx, "Rejected transaction create request", slog.String("error", err.Error()))
		return nil, err
	}

	txn, err := domain.NewTransaction(input)
	if err != nil {
		s.collector().RecordTransaction(string(input.Type), metrics.OutcomeRejected)
		return nil, err
	}

	err = s.ledger.ApplyTransaction(ctx, txn, func(accounts map[string]*domain.Account) error {
		// The store may call this again after a retry; start from a pending transaction each time.
		txn.IsCompleted = false
		txn.DateUpdated = nil

		target := accounts[txn.TargetAccountID]
		var source *domain.Account
		if txn.SourceAccountID != nil {
			source = accounts[*txn.SourceAccountID]
		}

		before := accounting.Balances(target, source)
		if err := txn.Execute(target, source); err != nil {
			return err
		}
		if err := s.policy.Check(before, target, source); err != nil {
			return err
		}
		txn.MarkCompleted(s.now())
		return nil
	})
	if err != nil {
		outcome := outcomeFor(err)
		s.collector().RecordTransaction(string(txn.Type), outcome)

		attrs := []any{
			slog.String("transaction_id", txn.TransactionID),
			slog.String("type", string(txn.Type)),
			slog.String("target_account_id", txn.TargetAccountID),
		}
		if outcome == metrics.OutcomeRejected {
			s.LogWarn(ctx, err, "Transaction rejected", attrs...)
		} else {
			s.LogError(ctx, err, "Failed to apply transaction", attrs...)
		}
		return nil, err
	}

	s.collector().RecordTransaction(string(txn.Type), metrics.OutcomeSuccess)
	s.LogInfo(ctx, "Transaction applied successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)))

	s.publishApplied(ctx, *txn)
	return txn, nil
}

// publishApplied is best effort: the transaction is already committed.
func (s *transactionService) publishApplied(ctx context.Context, txn domain.Transaction) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.publisher.PublishTransactionApplied(pubCtx, txn); err != nil {
		s.collector().RecordEventPublish("transaction.applied", false)
		s.LogWarn(ctx, err, "Failed to publish transaction event", slog.String("transaction_id", txn.TransactionID))
		return
	}
	s.collector().RecordEventPublish("transaction.applied", true)
}

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by ID", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListTransactions(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, err
	}
	return txns, nil
}

// outcomeFor separates requests the ledger refused from failures of the ledger itself.
func outcomeFor(err error) metrics.Outcome {
	switch {
	case errors.Is(err, apperrors.ErrRepositoryUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrMissingAccount),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidAccountType),
		errors.Is(err, apperrors.ErrInvalidTransactionType),
		errors.Is(err, apperrors.ErrDuplicate):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
