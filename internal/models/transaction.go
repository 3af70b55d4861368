package models

import (
	"database/sql"
	"time"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	Seq              int64          `db:"seq"`
	TransactionID    string         `db:"transaction_id"`
	TransactionType  string         `db:"transaction_type"`
	Details          string         `db:"details"`
	SourceAccountID  sql.NullString `db:"source_account_id"` // only for transfers
	TargetAccountID  string         `db:"target_account_id"`
	UnitAmount       int64          `db:"unit_amount"`
	ConversionFactor int64          `db:"conversion_factor"`
	DateCreated      time.Time      `db:"date_created"`
	DateUpdated      sql.NullTime   `db:"date_updated"`
	DateApplied      time.Time      `db:"date_applied"`
	IsCompleted      bool           `db:"is_completed"`
}
