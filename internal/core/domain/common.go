package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt time.Time
	UpdatedAt *time.Time // nil until the first update
}

// Touch records an update at now.
func (a *AuditFields) Touch(now time.Time) {
	a.UpdatedAt = &now
}
