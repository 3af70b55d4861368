package rabbitmq

import (
	"time"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
)

// RoutingKeyTransactionApplied is the routing key for TransactionAppliedEvent.
const RoutingKeyTransactionApplied = "transaction.applied"

// TransactionAppliedEvent is published after a transaction has been applied and persisted.
// Amounts are display strings, like in the HTTP API.
type TransactionAppliedEvent struct {
	TransactionID   string    `json:"transaction_id"`
	Type            string    `json:"type"`
	SourceAccountID *string   `json:"source_account_id,omitempty"`
	TargetAccountID string    `json:"target_account_id"`
	Amount          string    `json:"amount"`
	DateApplied     time.Time `json:"date_applied"`
	Timestamp       time.Time `json:"timestamp"`
}

func newTransactionAppliedEvent(txn domain.Transaction, now time.Time) (TransactionAppliedEvent, error) {
	amount, err := txn.Amount()
	if err != nil {
		return TransactionAppliedEvent{}, err
	}
	return TransactionAppliedEvent{
		TransactionID:   txn.TransactionID,
		Type:            string(txn.Type),
		SourceAccountID: txn.SourceAccountID,
		TargetAccountID: txn.TargetAccountID,
		Amount:          amount,
		DateApplied:     txn.DateApplied,
		Timestamp:       now.UTC(),
	}, nil
}
