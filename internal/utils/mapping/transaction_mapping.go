package mapping

import (
	"database/sql"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	var source sql.NullString
	if d.SourceAccountID != nil {
		source = sql.NullString{String: *d.SourceAccountID, Valid: true}
	}
	return models.Transaction{
		TransactionID:    d.TransactionID,
		TransactionType:  string(d.Type),
		Details:          d.Details,
		SourceAccountID:  source,
		TargetAccountID:  d.TargetAccountID,
		UnitAmount:       d.UnitAmount,
		ConversionFactor: d.ConversionFactor,
		DateCreated:      d.DateCreated,
		DateUpdated:      toNullTime(d.DateUpdated),
		DateApplied:      d.DateApplied,
		IsCompleted:      d.IsCompleted,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	var source *string
	if m.SourceAccountID.Valid {
		s := m.SourceAccountID.String
		source = &s
	}
	return domain.Transaction{
		TransactionID:    m.TransactionID,
		Type:             domain.TransactionType(m.TransactionType),
		Details:          m.Details,
		SourceAccountID:  source,
		TargetAccountID:  m.TargetAccountID,
		UnitAmount:       m.UnitAmount,
		ConversionFactor: m.ConversionFactor,
		DateCreated:      m.DateCreated,
		DateUpdated:      fromNullTime(m.DateUpdated),
		DateApplied:      m.DateApplied,
		IsCompleted:      m.IsCompleted,
	}
}
