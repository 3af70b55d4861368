package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/utils/conversion"
	"github.com/google/uuid"
)

// AccountType determines the sign convention for money moving in and out of an account.
type AccountType string

const (
	Cash AccountType = "cash"
	Debt AccountType = "debt"
)

const (
	MaxAccountNameLength        = 64
	MaxAccountDescriptionLength = 256
)

var accountNamePattern = regexp.MustCompile(`^[A-Za-z0-9 .\-]+$`)

// Account represents a financial account within the core domain.
type Account struct {
	AccountID        string      // UUID, immutable
	Type             AccountType // immutable after creation
	Name             string
	Description      string
	Balance          int64 // unit amount; the only authoritative balance
	ConversionFactor int64 // units per whole display unit
	IsDeleted        bool  // soft delete flag
	Version          int64 // bumped on every persisted write
	AuditFields
}

// NewAccount creates an account with a fresh identifier and a zero balance.
func NewAccount(name, description string, accountType AccountType) (*Account, error) {
	var details []string
	if problem := AccountNameProblem(name); problem != "" {
		details = append(details, "name: "+problem)
	}
	if problem := AccountDescriptionProblem(description); problem != "" {
		details = append(details, "description: "+problem)
	}
	validType, err := ValidateAccountType(string(accountType))
	if err != nil {
		details = append(details, "type: must be one of cash, debt")
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid account", details...)
	}

	return &Account{
		AccountID:        uuid.NewString(),
		Type:             validType,
		Name:             name,
		Description:      description,
		Balance:          0,
		ConversionFactor: conversion.DefaultFactor,
		IsDeleted:        false,
		Version:          1,
		AuditFields: AuditFields{
			CreatedAt: time.Now().UTC(),
		},
	}, nil
}

// ValidateAccountType returns the canonical account type for s.
func ValidateAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToLower(strings.TrimSpace(s))) {
	case Cash:
		return Cash, nil
	case Debt:
		return Debt, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidAccountType, s)
}

// AccountNameProblem describes why name is not a valid account name, or returns "".
func AccountNameProblem(name string) string {
	switch {
	case name == "":
		return "is required"
	case len(name) > MaxAccountNameLength:
		return fmt.Sprintf("must be at most %d characters", MaxAccountNameLength)
	case !accountNamePattern.MatchString(name):
		return "may only contain letters, digits, spaces, hyphens and periods"
	}
	return ""
}

// AccountDescriptionProblem describes why description is too long, or returns "".
func AccountDescriptionProblem(description string) string {
	if len(description) > MaxAccountDescriptionLength {
		return fmt.Sprintf("must be at most %d characters", MaxAccountDescriptionLength)
	}
	return ""
}

// AddIncome applies an income of units to the balance.
func (a *Account) AddIncome(units int64) error {
	return a.apply(OperationIncome, units)
}

// AddExpense applies an expense of units to the balance. It is the exact inverse of AddIncome.
func (a *Account) AddExpense(units int64) error {
	return a.apply(OperationExpense, units)
}

// Amount is the balance formatted for display. Never parse it back into a balance.
func (a *Account) Amount() (string, error) {
	return conversion.FromUnitAmount(a.Balance, a.ConversionFactor)
}

func (a *Account) apply(op BalanceOperation, units int64) error {
	if units < 0 {
		return fmt.Errorf("%w: unit amount %d is negative", apperrors.ErrInvalidAmount, units)
	}
	sign := Direction(a.Type, op)
	if sign == 0 {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidAccountType, a.Type)
	}

	if sign > 0 && a.Balance > math.MaxInt64-units {
		return fmt.Errorf("%w: balance of account %s would overflow", apperrors.ErrInvalidAmount, a.AccountID)
	}
	if sign < 0 && a.Balance < math.MinInt64+units {
		return fmt.Errorf("%w: balance of account %s would overflow", apperrors.ErrInvalidAmount, a.AccountID)
	}

	a.Balance += sign * units
	return nil
}

// revert undoes a previously successful apply of the same operation and units.
func (a *Account) revert(op BalanceOperation, units int64) {
	a.Balance -= Direction(a.Type, op) * units
}
