package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/utils/conversion"
)

// DecimalString holds a monetary amount exactly as the client wrote it.
// It accepts both "12.34" and 12.34 in JSON and never passes through float64.
type DecimalString string

// UnmarshalJSON implements json.Unmarshaler.
func (d *DecimalString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DecimalString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = DecimalString(n.String())
	return nil
}

// CreateTransactionRequest defines the data needed to record and apply a transaction.
type CreateTransactionRequest struct {
	Type            string        `json:"type" validate:"required,transactiontype"`
	Details         string        `json:"details" validate:"max=512"`
	Amount          DecimalString `json:"amount" validate:"required"`
	SourceAccountID *string       `json:"sourceAccountId,omitempty" validate:"omitnil,uuid"` // transfers only
	TargetAccountID string        `json:"targetAccountId" validate:"required,uuid"`
	DateApplied     *time.Time    `json:"dateApplied,omitempty"` // defaults to the creation time

	ID               json.RawMessage `json:"id,omitempty" validate:"isdefault"`
	UnitAmount       json.RawMessage `json:"unitAmount,omitempty" validate:"isdefault"`
	ConversionFactor json.RawMessage `json:"conversionFactor,omitempty" validate:"isdefault"`
	IsCompleted      json.RawMessage `json:"isCompleted,omitempty" validate:"isdefault"`
	DateCreated      json.RawMessage `json:"dateCreated,omitempty" validate:"isdefault"`
	DateUpdated      json.RawMessage `json:"dateUpdated,omitempty" validate:"isdefault"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	ID              string                 `json:"id"`
	Type            domain.TransactionType `json:"type"`
	Details         string                 `json:"details"`
	SourceAccountID *string                `json:"sourceAccountId"`
	TargetAccountID string                 `json:"targetAccountId"`
	Amount          string                 `json:"amount"`
	DateCreated     time.Time              `json:"dateCreated"`
	DateUpdated     *time.Time             `json:"dateUpdated"`
	DateApplied     time.Time              `json:"dateApplied"`
	IsCompleted     bool                   `json:"isCompleted"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              txn.TransactionID,
		Type:            txn.Type,
		Details:         txn.Details,
		SourceAccountID: txn.SourceAccountID,
		TargetAccountID: txn.TargetAccountID,
		Amount:          conversion.MustFromUnitAmount(txn.UnitAmount, txn.ConversionFactor),
		DateCreated:     txn.DateCreated,
		DateUpdated:     txn.DateUpdated,
		DateApplied:     txn.DateApplied,
		IsCompleted:     txn.IsCompleted,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsResponse wraps the list of transactions.
type ListTransactionsResponse struct {
	Data      []TransactionResponse `json:"data"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	NextToken *string               `json:"nextToken,omitempty"`
}
