package models

import (
	"database/sql"
	"time"
)

// AuditFields mirrors the audit columns shared by every table.
type AuditFields struct {
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"` // NULL until the first update
}

// Account is a row of the accounts table.
type Account struct {
	Seq              int64  `db:"seq"` // insertion order
	AccountID        string `db:"account_id"`
	AccountType      string `db:"account_type"`
	Name             string `db:"name"`
	Description      string `db:"description"`
	Balance          int64  `db:"balance"` // unit amount
	ConversionFactor int64  `db:"conversion_factor"`
	IsDeleted        bool   `db:"is_deleted"`
	Version          int64  `db:"version"`
	AuditFields
}
