package validation

import (
	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/google/uuid"
)

// AccountCreateInput is a create request that passed validation.
type AccountCreateInput struct {
	Name        string
	Description string
	Type        domain.AccountType
}

// AccountUpdateInput is an update request that passed validation. Nil fields are left unchanged.
type AccountUpdateInput struct {
	Name        *string
	Description *string
}

// AccountCreate validates a request to create an account.
func AccountCreate(req dto.CreateAccountRequest) (AccountCreateInput, error) {
	if details := structDetails(req); len(details) > 0 {
		return AccountCreateInput{}, apperrors.NewValidationError("invalid request to create account", details...)
	}

	accType, err := domain.ValidateAccountType(req.Type)
	if err != nil {
		return AccountCreateInput{}, apperrors.NewValidationError("invalid request to create account", "type: must be one of cash, debt")
	}
	return AccountCreateInput{Name: req.Name, Description: req.Description, Type: accType}, nil
}

// AccountUpdate validates a partial update. Only the name and description may change.
func AccountUpdate(req dto.UpdateAccountRequest) (AccountUpdateInput, error) {
	details := structDetails(req)
	if req.Name == nil && req.Description == nil && len(details) == 0 {
		details = append(details, "body: at least one of name, description is required")
	}
	if len(details) > 0 {
		return AccountUpdateInput{}, apperrors.NewValidationError("invalid request to update account", details...)
	}
	return AccountUpdateInput{Name: req.Name, Description: req.Description}, nil
}

// AccountRead checks a record loaded from storage. A failure means the stored data is corrupted.
func AccountRead(acc domain.Account) error {
	var details []string
	if _, err := uuid.Parse(acc.AccountID); err != nil {
		details = append(details, "id: must be a UUID")
	}
	if acc.Type != domain.Cash && acc.Type != domain.Debt {
		details = append(details, "type: must be one of cash, debt")
	}
	if problem := domain.AccountNameProblem(acc.Name); problem != "" {
		details = append(details, "name: "+problem)
	}
	if problem := domain.AccountDescriptionProblem(acc.Description); problem != "" {
		details = append(details, "description: "+problem)
	}
	if acc.ConversionFactor <= 0 {
		details = append(details, "conversionFactor: must be positive")
	}
	if acc.CreatedAt.IsZero() {
		details = append(details, "createdAt: is required")
	}

	if len(details) > 0 {
		return apperrors.NewCorruptedDataError("stored account "+acc.AccountID+" failed validation", details...)
	}
	return nil
}
