package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finn_ledger/internal/core/ports/services"
	"github.com/SscSPs/finn_ledger/internal/core/services"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/repositories/memory"
	"github.com/SscSPs/finn_ledger/internal/utils/accounting"
	"github.com/SscSPs/finn_ledger/pkg/metrics"
	metricsmem "github.com/SscSPs/finn_ledger/pkg/metrics/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockEventPublisher is a mock type for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishTransactionApplied(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() {
	m.Called()
}

// MockLedgerStore is a mock type for the LedgerStore interface
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) ApplyTransaction(ctx context.Context, txn *domain.Transaction, apply portsrepo.ApplyFunc) error {
	args := m.Called(ctx, txn, apply)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type TransactionServiceTestSuite struct {
	suite.Suite
	store     *memory.Store
	publisher *MockEventPublisher
	collector *metricsmem.MemoryCollector
	service   portssvc.TransactionSvcFacade
	ctx       context.Context
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.publisher = new(MockEventPublisher)
	suite.collector = metricsmem.NewMemoryCollector()
	suite.ctx = context.Background()
	suite.service = suite.newService(accounting.DefaultBalancePolicy())
}

func (suite *TransactionServiceTestSuite) newService(policy accounting.BalancePolicy) portssvc.TransactionSvcFacade {
	return services.NewTransactionService(suite.store, suite.store,
		services.WithBalancePolicy(policy),
		services.WithEventPublisher(suite.publisher),
		services.WithMetrics(suite.collector),
		services.WithClock(func() time.Time { return fixedNow }),
	)
}

func (suite *TransactionServiceTestSuite) seed(name string, accType domain.AccountType, balance int64) string {
	acc, err := domain.NewAccount(name, "", accType)
	suite.Require().NoError(err)
	acc.Balance = balance
	_, err = suite.store.SaveAccount(suite.ctx, *acc)
	suite.Require().NoError(err)
	return acc.AccountID
}

func (suite *TransactionServiceTestSuite) balance(id string) int64 {
	acc, err := suite.store.FindAccountByID(suite.ctx, id)
	suite.Require().NoError(err)
	return acc.Balance
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Income() {
	id := suite.seed("Wallet", domain.Cash, 0)
	suite.publisher.On("PublishTransactionApplied", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TargetAccountID == id && txn.IsCompleted
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "income",
		Amount:          "500.00",
		TargetAccountID: id,
		Details:         "salary",
	})

	suite.Require().NoError(err)
	suite.True(txn.IsCompleted)
	suite.Require().NotNil(txn.DateUpdated)
	suite.Equal(fixedNow, *txn.DateUpdated)
	suite.Equal(int64(5000000), suite.balance(id))

	stored, err := suite.store.FindTransactionByID(suite.ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.True(stored.IsCompleted)

	suite.Equal(int64(1), suite.collector.Transactions("income", metrics.OutcomeSuccess))
	published, failed := suite.collector.Published("transaction.applied")
	suite.Equal(int64(1), published)
	suite.Equal(int64(0), failed)
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ExpenseOnDebtGrowsDebt() {
	id := suite.seed("Card", domain.Debt, 10000)
	suite.publisher.On("PublishTransactionApplied", mock.Anything, mock.Anything).Return(nil)

	_, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "expense",
		Amount:          "2.50",
		TargetAccountID: id,
	})

	suite.Require().NoError(err)
	suite.Equal(int64(35000), suite.balance(id))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_IncomeIntoOverdrawnCash() {
	id := suite.seed("Wallet", domain.Cash, -50000)
	suite.publisher.On("PublishTransactionApplied", mock.Anything, mock.Anything).Return(nil)

	_, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "income",
		Amount:          "1.00",
		TargetAccountID: id,
	})

	suite.Require().NoError(err)
	suite.Equal(int64(-40000), suite.balance(id))

	_, err = suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "expense",
		Amount:          "0.01",
		TargetAccountID: id,
	})

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Equal(int64(-40000), suite.balance(id))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TransferBelowFloorIsRejected() {
	source := suite.seed("Wallet", domain.Cash, 1500000)
	target := suite.seed("Savings", domain.Cash, 0)

	_, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "transfer",
		Amount:          "200",
		SourceAccountID: &source,
		TargetAccountID: target,
	})

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Equal(int64(1500000), suite.balance(source))
	suite.Equal(int64(0), suite.balance(target))

	txns, err := suite.store.ListTransactions(suite.ctx, -1, 0)
	suite.Require().NoError(err)
	suite.Empty(txns)
	suite.Equal(int64(1), suite.collector.Transactions("transfer", metrics.OutcomeRejected))
	suite.publisher.AssertNotCalled(suite.T(), "PublishTransactionApplied", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_AllowPolicyPermitsOverdraft() {
	service := suite.newService(accounting.BalancePolicy{Mode: accounting.AllowNegative})
	id := suite.seed("Wallet", domain.Cash, 0)
	suite.publisher.On("PublishTransactionApplied", mock.Anything, mock.Anything).Return(nil)

	_, err := service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "expense",
		Amount:          "1",
		TargetAccountID: id,
	})

	suite.Require().NoError(err)
	suite.Equal(int64(-10000), suite.balance(id))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_MissingTargetIsValidationError() {
	_, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{Type: "income", Amount: "1"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	var ve *apperrors.ValidationError
	suite.Require().True(errors.As(err, &ve))
	suite.Contains(ve.Details, "targetAccountId: is required")
	suite.Equal(int64(1), suite.collector.Transactions("invalid", metrics.OutcomeRejected))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnknownTarget() {
	_, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "income",
		Amount:          "1",
		TargetAccountID: "8f14e45f-ceea-467f-a0e6-1c2a3b4c5d6e",
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_PublishFailureIsNotReturned() {
	id := suite.seed("Wallet", domain.Cash, 0)
	suite.publisher.On("PublishTransactionApplied", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "income",
		Amount:          "1",
		TargetAccountID: id,
	})

	suite.Require().NoError(err)
	suite.True(txn.IsCompleted)
	_, failed := suite.collector.Published("transaction.applied")
	suite.Equal(int64(1), failed)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_LedgerUnavailable() {
	ledger := new(MockLedgerStore)
	ledger.On("ApplyTransaction", mock.Anything, mock.AnythingOfType("*domain.Transaction"), mock.Anything).
		Return(apperrors.ErrRepositoryUnavailable).Once()
	service := services.NewTransactionService(suite.store, ledger, services.WithMetrics(suite.collector))

	_, err := service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "income",
		Amount:          "1",
		TargetAccountID: "8f14e45f-ceea-467f-a0e6-1c2a3b4c5d6e",
	})

	suite.ErrorIs(err, apperrors.ErrRepositoryUnavailable)
	suite.Equal(int64(1), suite.collector.Transactions("income", metrics.OutcomeUnavailable))
	ledger.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestGetAndListTransactions() {
	id := suite.seed("Wallet", domain.Cash, 0)
	suite.publisher.On("PublishTransactionApplied", mock.Anything, mock.Anything).Return(nil)

	first, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{Type: "income", Amount: "1", TargetAccountID: id})
	suite.Require().NoError(err)
	_, err = suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{Type: "income", Amount: "2", TargetAccountID: id})
	suite.Require().NoError(err)

	got, err := suite.service.GetTransactionByID(suite.ctx, first.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(first.UnitAmount, got.UnitAmount)

	_, err = suite.service.GetTransactionByID(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	page, err := suite.service.ListTransactions(suite.ctx, 1, 1)
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal(int64(20000), page[0].UnitAmount)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
