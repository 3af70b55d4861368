package accounting

import (
	"fmt"
	"strings"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/utils/conversion"
)

// NegativeBalanceMode decides what happens when a transaction would push a cash account below its floor.
type NegativeBalanceMode string

const (
	// RejectBelowFloor fails the transaction with ErrInsufficientFunds.
	RejectBelowFloor NegativeBalanceMode = "reject"
	// AllowNegative applies the transaction; the negative balance is visible on the account.
	AllowNegative NegativeBalanceMode = "allow"
)

// BalancePolicy is checked against the accounts a transaction debited, after Execute and before persistence.
// Debt accounts are never floored: a negative debt is an overpayment.
type BalancePolicy struct {
	Mode      NegativeBalanceMode
	CashFloor int64 // in units of conversion.DefaultFactor
}

// DefaultBalancePolicy rejects any transaction that leaves a cash account below zero.
func DefaultBalancePolicy() BalancePolicy {
	return BalancePolicy{Mode: RejectBelowFloor, CashFloor: 0}
}

// NewBalancePolicy builds a policy from its configured mode and a human-readable floor such as "-100.00".
func NewBalancePolicy(mode string, floor string) (BalancePolicy, error) {
	m := NegativeBalanceMode(strings.ToLower(strings.TrimSpace(mode)))
	switch m {
	case RejectBelowFloor, AllowNegative:
	case "":
		m = RejectBelowFloor
	default:
		return BalancePolicy{}, fmt.Errorf("unknown negative balance policy %q", mode)
	}

	if strings.TrimSpace(floor) == "" {
		floor = "0"
	}
	units, err := conversion.ToUnitAmount(floor, conversion.DefaultFactor)
	if err != nil {
		return BalancePolicy{}, fmt.Errorf("invalid cash balance floor: %w", err)
	}
	return BalancePolicy{Mode: m, CashFloor: units}, nil
}

// Balances records each account's balance by id, taken before Execute for a later Check.
func Balances(accounts ...*domain.Account) map[string]int64 {
	out := make(map[string]int64, len(accounts))
	for _, acc := range accounts {
		if acc != nil {
			out[acc.AccountID] = acc.Balance
		}
	}
	return out
}

// Check returns ErrInsufficientFunds for the first cash account that sits below the floor after losing funds.
// An account whose balance did not drop from its entry in before passes even if it was already below the floor.
// Accounts missing from before are always checked.
func (p BalancePolicy) Check(before map[string]int64, accounts ...*domain.Account) error {
	if p.Mode == AllowNegative {
		return nil
	}
	for _, acc := range accounts {
		if acc == nil || acc.Type != domain.Cash {
			continue
		}
		if prev, ok := before[acc.AccountID]; ok && acc.Balance >= prev {
			continue
		}
		if floorFor(p.CashFloor, acc.ConversionFactor) > acc.Balance {
			return fmt.Errorf("%w: account %s balance %s is below the allowed floor",
				apperrors.ErrInsufficientFunds, acc.AccountID, displayAmount(acc))
		}
	}
	return nil
}

// floorFor rescales a floor expressed at the default factor to an account's own factor.
func floorFor(floor int64, factor int64) int64 {
	if factor <= 0 || factor == conversion.DefaultFactor {
		return floor
	}
	return floor * factor / conversion.DefaultFactor
}

func displayAmount(acc *domain.Account) string {
	amount, err := acc.Amount()
	if err != nil {
		return fmt.Sprintf("%d units", acc.Balance)
	}
	return amount
}
