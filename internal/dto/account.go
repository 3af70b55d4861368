package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/utils/conversion"
)

// CreateAccountRequest defines the data needed to create a new account.
// Server-assigned and derived fields are captured raw so that supplying them can be rejected.
type CreateAccountRequest struct {
	Name        string `json:"name" validate:"required,accountname"`
	Type        string `json:"type" validate:"required,accounttype"`
	Description string `json:"description" validate:"accountdescription"` // Optional

	ID               json.RawMessage `json:"id,omitempty" validate:"isdefault"`
	Balance          json.RawMessage `json:"balance,omitempty" validate:"isdefault"`
	Amount           json.RawMessage `json:"amount,omitempty" validate:"isdefault"`
	UnitAmount       json.RawMessage `json:"unitAmount,omitempty" validate:"isdefault"`
	ConversionFactor json.RawMessage `json:"conversionFactor,omitempty" validate:"isdefault"`
	IsDeleted        json.RawMessage `json:"isDeleted,omitempty" validate:"isdefault"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,accountname"`
	Description *string `json:"description,omitempty" validate:"omitnil,accountdescription"`

	// Immutable after creation.
	ID               json.RawMessage `json:"id,omitempty" validate:"isdefault"`
	Type             json.RawMessage `json:"type,omitempty" validate:"isdefault"`
	Balance          json.RawMessage `json:"balance,omitempty" validate:"isdefault"`
	Amount           json.RawMessage `json:"amount,omitempty" validate:"isdefault"`
	UnitAmount       json.RawMessage `json:"unitAmount,omitempty" validate:"isdefault"`
	ConversionFactor json.RawMessage `json:"conversionFactor,omitempty" validate:"isdefault"`
	IsDeleted        json.RawMessage `json:"isDeleted,omitempty" validate:"isdefault"`
}

// AccountResponse defines the data returned for an account.
// The balance only ever leaves the service as a two-decimal amount.
type AccountResponse struct {
	ID          string             `json:"id"`
	Type        domain.AccountType `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Amount      string             `json:"amount"`
	IsDeleted   bool               `json:"isDeleted"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   *time.Time         `json:"updatedAt,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
// Accounts reaching this point passed the read profile, so the factor is known to be positive.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          acc.AccountID,
		Type:        acc.Type,
		Name:        acc.Name,
		Description: acc.Description,
		Amount:      conversion.MustFromUnitAmount(acc.Balance, acc.ConversionFactor),
		IsDeleted:   acc.IsDeleted,
		CreatedAt:   acc.CreatedAt,
		UpdatedAt:   acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListParams defines the pagination query parameters shared by list endpoints.
// A negative limit returns every record. NextToken, when present, overrides Offset.
type ListParams struct {
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
	NextToken string `form:"nextToken"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Data      []AccountResponse `json:"data"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
	NextToken *string           `json:"nextToken,omitempty"`
}
