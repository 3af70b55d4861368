package accounting_test

import (
	"testing"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalancePolicy_Check(t *testing.T) {
	tests := []struct {
		name    string
		policy  accounting.BalancePolicy
		account domain.Account
		wantErr bool
	}{
		{name: "cash at floor", policy: accounting.DefaultBalancePolicy(), account: domain.Account{Type: domain.Cash, Balance: 0, ConversionFactor: 10000}},
		{name: "cash below floor", policy: accounting.DefaultBalancePolicy(), account: domain.Account{Type: domain.Cash, Balance: -1, ConversionFactor: 10000}, wantErr: true},
		{name: "debt below zero is an overpayment", policy: accounting.DefaultBalancePolicy(), account: domain.Account{Type: domain.Debt, Balance: -5000, ConversionFactor: 10000}},
		{name: "overdraft floor", policy: accounting.BalancePolicy{Mode: accounting.RejectBelowFloor, CashFloor: -1000000}, account: domain.Account{Type: domain.Cash, Balance: -999999, ConversionFactor: 10000}},
		{name: "allow mode", policy: accounting.BalancePolicy{Mode: accounting.AllowNegative}, account: domain.Account{Type: domain.Cash, Balance: -1 << 40, ConversionFactor: 10000}},
		{name: "floor rescaled to account factor", policy: accounting.BalancePolicy{Mode: accounting.RejectBelowFloor, CashFloor: -10000}, account: domain.Account{Type: domain.Cash, Balance: -101, ConversionFactor: 100}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := tt.account
			err := tt.policy.Check(nil, &acc)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBalancePolicy_CheckSkipsNil(t *testing.T) {
	assert.NoError(t, accounting.DefaultBalancePolicy().Check(nil, nil))
}

func TestBalancePolicy_CheckOnlyFloorsDebitedAccounts(t *testing.T) {
	policy := accounting.DefaultBalancePolicy()
	// Already overdrawn, for example after the floor was raised.
	target := &domain.Account{AccountID: "target", Type: domain.Cash, Balance: -50000, ConversionFactor: 10000}
	source := &domain.Account{AccountID: "source", Type: domain.Cash, Balance: 20000, ConversionFactor: 10000}

	before := accounting.Balances(target, source)
	target.Balance += 10000
	assert.NoError(t, policy.Check(before, target), "income into an overdrawn account")

	before = accounting.Balances(target, source)
	source.Balance -= 30000
	target.Balance += 30000
	assert.ErrorIs(t, policy.Check(before, target, source), apperrors.ErrInsufficientFunds, "overdrawn source")

	before = accounting.Balances(target)
	target.Balance -= 1
	assert.ErrorIs(t, policy.Check(before, target), apperrors.ErrInsufficientFunds, "debit below floor")
}

func TestBalances(t *testing.T) {
	a := &domain.Account{AccountID: "a", Balance: 7}
	assert.Equal(t, map[string]int64{"a": 7}, accounting.Balances(a, nil))
}

func TestNewBalancePolicy(t *testing.T) {
	p, err := accounting.NewBalancePolicy("REJECT", "-100.00")
	require.NoError(t, err)
	assert.Equal(t, accounting.RejectBelowFloor, p.Mode)
	assert.Equal(t, int64(-1000000), p.CashFloor)

	p, err = accounting.NewBalancePolicy("", "")
	require.NoError(t, err)
	assert.Equal(t, accounting.DefaultBalancePolicy(), p)

	_, err = accounting.NewBalancePolicy("sometimes", "0")
	assert.Error(t, err)

	_, err = accounting.NewBalancePolicy("allow", "lots")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}
