package repositories

import (
	"context"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
)

// EventPublisher announces ledger changes to other systems. Delivery is best effort.
type EventPublisher interface {
	PublishTransactionApplied(ctx context.Context, txn domain.Transaction) error
	Close()
}
