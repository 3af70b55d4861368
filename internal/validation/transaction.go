package validation

import (
	"fmt"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/utils/conversion"
	"github.com/google/uuid"
)

// TransactionInput is a create request that passed validation, ready for domain.NewTransaction.
type TransactionInput = domain.TransactionParams

// TransactionCreate validates a request to create a transaction.
// Transactions are always created at the default conversion factor.
func TransactionCreate(req dto.CreateTransactionRequest) (TransactionInput, error) {
	details := structDetails(req)

	txnType, typeErr := domain.ValidateTransactionType(req.Type)
	amount := string(req.Amount)
	if amount != "" {
		details = append(details, amountDetails(amount, conversion.DefaultFactor)...)
	}

	if typeErr == nil {
		switch {
		case txnType == domain.TransactionTransfer && (req.SourceAccountID == nil || *req.SourceAccountID == ""):
			details = append(details, "sourceAccountId: is required for transfer transactions")
		case txnType == domain.TransactionTransfer && *req.SourceAccountID == req.TargetAccountID:
			details = append(details, "sourceAccountId: must differ from targetAccountId")
		case txnType != domain.TransactionTransfer && req.SourceAccountID != nil:
			details = append(details, "sourceAccountId: is only allowed for transfer transactions")
		}
	}

	if len(details) > 0 {
		return TransactionInput{}, apperrors.NewValidationError("invalid request to create transaction", details...)
	}

	return TransactionInput{
		Type:             txnType,
		Details:          req.Details,
		SourceAccountID:  req.SourceAccountID,
		TargetAccountID:  req.TargetAccountID,
		Amount:           amount,
		ConversionFactor: conversion.DefaultFactor,
		DateApplied:      req.DateApplied,
	}, nil
}

func amountDetails(amount string, factor int64) []string {
	units, err := conversion.ToUnitAmount(amount, factor)
	if err != nil {
		return []string{"amount: must be a decimal number"}
	}
	var details []string
	if units < 0 {
		details = append(details, "amount: must not be negative")
	}
	// ToUnitAmount accepted amount, so it parses.
	digits, _ := conversion.FractionDigits(amount)
	if max := conversion.MaxFractionDigits(factor); digits > max {
		details = append(details, fmt.Sprintf("amount: must have at most %d decimal places", max))
	}
	return details
}

// TransactionRead checks a record loaded from storage. A failure means the stored data is corrupted.
func TransactionRead(txn domain.Transaction) error {
	var details []string
	if _, err := uuid.Parse(txn.TransactionID); err != nil {
		details = append(details, "id: must be a UUID")
	}
	if t, err := domain.ValidateTransactionType(string(txn.Type)); err != nil || t != txn.Type {
		details = append(details, "type: must be one of unknown, income, expense, transfer")
	}
	if txn.TargetAccountID == "" {
		details = append(details, "targetAccountId: is required")
	}
	if txn.Type == domain.TransactionTransfer {
		if txn.SourceAccountID == nil || *txn.SourceAccountID == "" {
			details = append(details, "sourceAccountId: is required for transfer transactions")
		} else if *txn.SourceAccountID == txn.TargetAccountID {
			details = append(details, "sourceAccountId: must differ from targetAccountId")
		}
	} else if txn.SourceAccountID != nil {
		details = append(details, "sourceAccountId: is only allowed for transfer transactions")
	}
	if txn.UnitAmount < 0 {
		details = append(details, "unitAmount: must not be negative")
	}
	if txn.ConversionFactor <= 0 {
		details = append(details, "conversionFactor: must be positive")
	}
	if txn.DateCreated.IsZero() {
		details = append(details, "dateCreated: is required")
	}

	if len(details) > 0 {
		return apperrors.NewCorruptedDataError("stored transaction "+txn.TransactionID+" failed validation", details...)
	}
	return nil
}
