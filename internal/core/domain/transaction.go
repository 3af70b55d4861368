package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/utils/conversion"
	"github.com/google/uuid"
)

// TransactionType selects how a transaction moves money. It is fixed at creation.
type TransactionType string

const (
	TransactionUnknown  TransactionType = "unknown"
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

const MaxTransactionDetailsLength = 512

// Transaction describes a monetary movement between zero, one or two accounts.
type Transaction struct {
	TransactionID    string
	Type             TransactionType
	Details          string
	SourceAccountID  *string // only set for transfers
	TargetAccountID  string
	UnitAmount       int64 // never negative; direction comes from Type and the account type
	ConversionFactor int64
	DateCreated      time.Time
	DateUpdated      *time.Time
	DateApplied      time.Time
	IsCompleted      bool
}

// TransactionParams is the validated input for NewTransaction.
type TransactionParams struct {
	Type             TransactionType
	Details          string
	SourceAccountID  *string
	TargetAccountID  string
	Amount           string // human-readable decimal
	ConversionFactor int64  // zero means conversion.DefaultFactor
	DateApplied      *time.Time
}

// NewTransaction builds a transaction, converting the decimal amount into units with the transaction's own factor.
func NewTransaction(p TransactionParams) (*Transaction, error) {
	txnType, err := ValidateTransactionType(string(p.Type))
	if err != nil {
		return nil, err
	}

	factor := p.ConversionFactor
	if factor == 0 {
		factor = conversion.DefaultFactor
	}
	units, err := conversion.ToUnitAmount(p.Amount, factor)
	if err != nil {
		return nil, err
	}
	if units < 0 {
		return nil, fmt.Errorf("%w: amount %q must not be negative", apperrors.ErrInvalidAmount, p.Amount)
	}

	now := time.Now().UTC()
	applied := now
	if p.DateApplied != nil {
		applied = p.DateApplied.UTC()
	}

	return &Transaction{
		TransactionID:    uuid.NewString(),
		Type:             txnType,
		Details:          p.Details,
		SourceAccountID:  p.SourceAccountID,
		TargetAccountID:  p.TargetAccountID,
		UnitAmount:       units,
		ConversionFactor: factor,
		DateCreated:      now,
		DateApplied:      applied,
	}, nil
}

// ValidateTransactionType returns the canonical transaction type for s.
func ValidateTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TransactionUnknown, TransactionIncome, TransactionExpense, TransactionTransfer:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidTransactionType, s)
}

// Execute applies the transaction to the given accounts in memory.
// It neither persists anything nor marks the transaction completed, and it does not enforce any balance floor.
// On failure no account is left modified.
func (t *Transaction) Execute(target, source *Account) error {
	switch t.Type {
	case TransactionIncome:
		if target == nil {
			return t.missing("target")
		}
		return target.AddIncome(t.UnitAmount)

	case TransactionExpense:
		if target == nil {
			return t.missing("target")
		}
		return target.AddExpense(t.UnitAmount)

	case TransactionTransfer:
		if source == nil {
			return t.missing("source")
		}
		if target == nil {
			return t.missing("target")
		}
		if source == target || source.AccountID == target.AccountID {
			return apperrors.NewValidationError("invalid transfer",
				"sourceAccountId: must differ from targetAccountId")
		}

		// Source is debited before the target is credited.
		if err := source.AddExpense(t.UnitAmount); err != nil {
			return err
		}
		if err := target.AddIncome(t.UnitAmount); err != nil {
			source.revert(OperationExpense, t.UnitAmount)
			return err
		}
		return nil

	default:
		return fmt.Errorf("%w: cannot execute a transaction of type %q", apperrors.ErrInvalidTransactionType, t.Type)
	}
}

// MarkCompleted flags the transaction as applied and persisted.
func (t *Transaction) MarkCompleted(now time.Time) {
	t.IsCompleted = true
	t.DateUpdated = &now
}

// AccountIDs returns the distinct account identifiers the transaction references, sorted.
func (t *Transaction) AccountIDs() []string {
	ids := make([]string, 0, 2)
	if t.TargetAccountID != "" {
		ids = append(ids, t.TargetAccountID)
	}
	if t.SourceAccountID != nil && *t.SourceAccountID != "" && *t.SourceAccountID != t.TargetAccountID {
		ids = append(ids, *t.SourceAccountID)
	}
	sort.Strings(ids)
	return ids
}

// Amount is the moved amount formatted for display.
func (t *Transaction) Amount() (string, error) {
	return conversion.FromUnitAmount(t.UnitAmount, t.ConversionFactor)
}

func (t *Transaction) missing(role string) error {
	return fmt.Errorf("%w: %s account is required for %s transaction %s", apperrors.ErrMissingAccount, role, t.Type, t.TransactionID)
}
