package validation_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func detailsOf(t *testing.T, err error) []string {
	t.Helper()
	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve), "expected a ValidationError, got %v", err)
	return ve.Details
}

func assertHasDetail(t *testing.T, details []string, prefix string) {
	t.Helper()
	for _, d := range details {
		if strings.HasPrefix(d, prefix) {
			return
		}
	}
	t.Fatalf("no detail starting with %q in %v", prefix, details)
}

func TestAccountCreate(t *testing.T) {
	in, err := validation.AccountCreate(dto.CreateAccountRequest{Name: "Main Checking", Type: "CASH", Description: "daily"})
	require.NoError(t, err)
	assert.Equal(t, domain.Cash, in.Type)
	assert.Equal(t, "Main Checking", in.Name)
	assert.Equal(t, "daily", in.Description)
}

func TestAccountCreate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		req    dto.CreateAccountRequest
		detail string
	}{
		{name: "missing name", req: dto.CreateAccountRequest{Type: "cash"}, detail: "name: is required"},
		{name: "bad name", req: dto.CreateAccountRequest{Name: "rent$", Type: "cash"}, detail: "name: may only contain"},
		{name: "long name", req: dto.CreateAccountRequest{Name: strings.Repeat("n", 65), Type: "cash"}, detail: "name: must be at most 64"},
		{name: "missing type", req: dto.CreateAccountRequest{Name: "Card"}, detail: "type: is required"},
		{name: "unknown type", req: dto.CreateAccountRequest{Name: "Card", Type: "loan"}, detail: "type: must be one of cash, debt"},
		{name: "long description", req: dto.CreateAccountRequest{Name: "Card", Type: "debt", Description: strings.Repeat("d", 257)}, detail: "description: must be at most 256"},
		{name: "client supplied balance", req: dto.CreateAccountRequest{Name: "Card", Type: "debt", Balance: json.RawMessage(`100`)}, detail: "balance: must not be provided"},
		{name: "client supplied id", req: dto.CreateAccountRequest{Name: "Card", Type: "debt", ID: json.RawMessage(`"x"`)}, detail: "id: must not be provided"},
		{name: "client supplied factor", req: dto.CreateAccountRequest{Name: "Card", Type: "debt", ConversionFactor: json.RawMessage(`100`)}, detail: "conversionFactor: must not be provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validation.AccountCreate(tt.req)
			require.ErrorIs(t, err, apperrors.ErrValidation)
			assertHasDetail(t, detailsOf(t, err), tt.detail)
		})
	}
}

func TestAccountCreate_CollectsEveryProblem(t *testing.T) {
	_, err := validation.AccountCreate(dto.CreateAccountRequest{Name: "", Type: ""})
	details := detailsOf(t, err)
	assertHasDetail(t, details, "name:")
	assertHasDetail(t, details, "type:")
}

func TestAccountUpdate(t *testing.T) {
	in, err := validation.AccountUpdate(dto.UpdateAccountRequest{Name: strPtr("Renamed")})
	require.NoError(t, err)
	require.NotNil(t, in.Name)
	assert.Equal(t, "Renamed", *in.Name)
	assert.Nil(t, in.Description)

	_, err = validation.AccountUpdate(dto.UpdateAccountRequest{Description: strPtr("")})
	assert.NoError(t, err, "clearing the description is allowed")
}

func TestAccountUpdate_Rejects(t *testing.T) {
	_, err := validation.AccountUpdate(dto.UpdateAccountRequest{})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assertHasDetail(t, detailsOf(t, err), "body: at least one of")

	_, err = validation.AccountUpdate(dto.UpdateAccountRequest{Name: strPtr("")})
	assertHasDetail(t, detailsOf(t, err), "name: is required")

	_, err = validation.AccountUpdate(dto.UpdateAccountRequest{Name: strPtr("ok"), Type: json.RawMessage(`"debt"`)})
	assertHasDetail(t, detailsOf(t, err), "type: must not be provided")

	_, err = validation.AccountUpdate(dto.UpdateAccountRequest{Name: strPtr("ok"), Amount: json.RawMessage(`"10.00"`)})
	assertHasDetail(t, detailsOf(t, err), "amount: must not be provided")
}

func storedAccount() domain.Account {
	return domain.Account{
		AccountID:        uuid.NewString(),
		Type:             domain.Cash,
		Name:             "Wallet",
		ConversionFactor: 10000,
		Version:          1,
		AuditFields:      domain.AuditFields{CreatedAt: time.Now()},
	}
}

func TestAccountRead(t *testing.T) {
	require.NoError(t, validation.AccountRead(storedAccount()))

	tests := []struct {
		name   string
		mutate func(*domain.Account)
		detail string
	}{
		{name: "bad id", mutate: func(a *domain.Account) { a.AccountID = "nope" }, detail: "id:"},
		{name: "unknown type", mutate: func(a *domain.Account) { a.Type = "savings" }, detail: "type:"},
		{name: "upper case type", mutate: func(a *domain.Account) { a.Type = "CASH" }, detail: "type:"},
		{name: "bad name", mutate: func(a *domain.Account) { a.Name = "" }, detail: "name:"},
		{name: "zero factor", mutate: func(a *domain.Account) { a.ConversionFactor = 0 }, detail: "conversionFactor:"},
		{name: "no creation time", mutate: func(a *domain.Account) { a.CreatedAt = time.Time{} }, detail: "createdAt:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := storedAccount()
			tt.mutate(&acc)
			err := validation.AccountRead(acc)
			require.ErrorIs(t, err, apperrors.ErrCorruptedData)
			assert.NotErrorIs(t, err, apperrors.ErrValidation)
			assertHasDetail(t, detailsOf(t, err), tt.detail)
		})
	}
}

func TestTransactionCreate(t *testing.T) {
	applied := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	params, err := validation.TransactionCreate(dto.CreateTransactionRequest{
		Type:            "Transfer",
		Amount:          "12.3456",
		SourceAccountID: strPtr(uuid.NewString()),
		TargetAccountID: uuid.NewString(),
		DateApplied:     &applied,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTransfer, params.Type)
	assert.Equal(t, "12.3456", params.Amount)
	assert.Equal(t, int64(10000), params.ConversionFactor)
	assert.Equal(t, &applied, params.DateApplied)
}

func TestTransactionCreate_ExponentAmountWithinPrecision(t *testing.T) {
	params, err := validation.TransactionCreate(dto.CreateTransactionRequest{
		Type:            "income",
		Amount:          "1.23456e2",
		TargetAccountID: uuid.NewString(),
	})
	require.NoError(t, err)

	txn, err := domain.NewTransaction(params)
	require.NoError(t, err)
	assert.Equal(t, int64(1234560), txn.UnitAmount)
}

func TestTransactionCreate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		req    dto.CreateTransactionRequest
		detail string
	}{
		{name: "missing target", req: dto.CreateTransactionRequest{Type: "income", Amount: "1"}, detail: "targetAccountId: is required"},
		{name: "missing amount", req: dto.CreateTransactionRequest{Type: "income", TargetAccountID: "a"}, detail: "amount: is required"},
		{name: "missing type", req: dto.CreateTransactionRequest{Amount: "1", TargetAccountID: "a"}, detail: "type: is required"},
		{name: "unknown type", req: dto.CreateTransactionRequest{Type: "unknown", Amount: "1", TargetAccountID: "a"}, detail: "type: must be one of"},
		{name: "made up type", req: dto.CreateTransactionRequest{Type: "refund", Amount: "1", TargetAccountID: "a"}, detail: "type: must be one of"},
		{name: "negative amount", req: dto.CreateTransactionRequest{Type: "income", Amount: "-5", TargetAccountID: "a"}, detail: "amount: must not be negative"},
		{name: "not a number", req: dto.CreateTransactionRequest{Type: "income", Amount: "ten", TargetAccountID: "a"}, detail: "amount: must be a decimal number"},
		{name: "target not a uuid", req: dto.CreateTransactionRequest{Type: "income", Amount: "1", TargetAccountID: "abc"}, detail: "targetAccountId: must be a UUID"},
		{name: "source not a uuid", req: dto.CreateTransactionRequest{Type: "transfer", Amount: "1", SourceAccountID: strPtr("abc"), TargetAccountID: "8f14e45f-ceea-467f-a0e6-1c2a3b4c5d6e"}, detail: "sourceAccountId: must be a UUID"},
		{name: "too precise", req: dto.CreateTransactionRequest{Type: "income", Amount: "1.00001", TargetAccountID: "a"}, detail: "amount: must have at most 4 decimal places"},
		{name: "too precise in exponent form", req: dto.CreateTransactionRequest{Type: "income", Amount: "1e-5", TargetAccountID: "a"}, detail: "amount: must have at most 4 decimal places"},
		{name: "huge exponent", req: dto.CreateTransactionRequest{Type: "income", Amount: "1e900000000", TargetAccountID: "a"}, detail: "amount: must be a decimal number"},
		{name: "tiny exponent", req: dto.CreateTransactionRequest{Type: "income", Amount: "1e-900000000", TargetAccountID: "a"}, detail: "amount: must be a decimal number"},
		{name: "transfer without source", req: dto.CreateTransactionRequest{Type: "transfer", Amount: "1", TargetAccountID: "a"}, detail: "sourceAccountId: is required"},
		{name: "transfer to itself", req: dto.CreateTransactionRequest{Type: "transfer", Amount: "1", SourceAccountID: strPtr("a"), TargetAccountID: "a"}, detail: "sourceAccountId: must differ"},
		{name: "income with source", req: dto.CreateTransactionRequest{Type: "income", Amount: "1", SourceAccountID: strPtr("b"), TargetAccountID: "a"}, detail: "sourceAccountId: is only allowed"},
		{name: "long details", req: dto.CreateTransactionRequest{Type: "income", Amount: "1", TargetAccountID: "a", Details: strings.Repeat("x", 513)}, detail: "details: must be at most 512"},
		{name: "client completed", req: dto.CreateTransactionRequest{Type: "income", Amount: "1", TargetAccountID: "a", IsCompleted: json.RawMessage(`true`)}, detail: "isCompleted: must not be provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validation.TransactionCreate(tt.req)
			require.ErrorIs(t, err, apperrors.ErrValidation)
			assertHasDetail(t, detailsOf(t, err), tt.detail)
		})
	}
}

func TestTransactionCreate_FromJSONPayload(t *testing.T) {
	var req dto.CreateTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":"income","amount":12.5}`), &req))

	_, err := validation.TransactionCreate(req)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, []string{"targetAccountId: is required"}, detailsOf(t, err))
}

func storedTransaction() domain.Transaction {
	return domain.Transaction{
		TransactionID:    uuid.NewString(),
		Type:             domain.TransactionIncome,
		TargetAccountID:  uuid.NewString(),
		UnitAmount:       100,
		ConversionFactor: 10000,
		DateCreated:      time.Now(),
		DateApplied:      time.Now(),
		IsCompleted:      true,
	}
}

func TestTransactionRead(t *testing.T) {
	require.NoError(t, validation.TransactionRead(storedTransaction()))

	tests := []struct {
		name   string
		mutate func(*domain.Transaction)
		detail string
	}{
		{name: "bad id", mutate: func(tx *domain.Transaction) { tx.TransactionID = "" }, detail: "id:"},
		{name: "bad type", mutate: func(tx *domain.Transaction) { tx.Type = "refund" }, detail: "type:"},
		{name: "no target", mutate: func(tx *domain.Transaction) { tx.TargetAccountID = "" }, detail: "targetAccountId:"},
		{name: "negative amount", mutate: func(tx *domain.Transaction) { tx.UnitAmount = -1 }, detail: "unitAmount:"},
		{name: "zero factor", mutate: func(tx *domain.Transaction) { tx.ConversionFactor = 0 }, detail: "conversionFactor:"},
		{name: "transfer without source", mutate: func(tx *domain.Transaction) { tx.Type = domain.TransactionTransfer }, detail: "sourceAccountId:"},
		{name: "income with source", mutate: func(tx *domain.Transaction) { tx.SourceAccountID = strPtr("x") }, detail: "sourceAccountId:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := storedTransaction()
			tt.mutate(&txn)
			err := validation.TransactionRead(txn)
			require.ErrorIs(t, err, apperrors.ErrCorruptedData)
			assertHasDetail(t, detailsOf(t, err), tt.detail)
		})
	}
}
