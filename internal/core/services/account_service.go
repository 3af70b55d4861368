package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finn_ledger/internal/core/ports/services"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/validation"
)

// maxWriteAttempts bounds the read-modify-write loop when UpdateAccount reports a stale version.
const maxWriteAttempts = 3

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	now         func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: repo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	input, err := validation.AccountCreate(req)
	if err != nil {
		s.LogDebug(ctx, "Rejected account create request", slog.String("error", err.Error()))
		return nil, err
	}

	account, err := domain.NewAccount(input.Name, input.Description, input.Type)
	if err != nil {
		return nil, err
	}

	saved, err := s.accountRepo.SaveAccount(ctx, *account)
	if err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", saved.AccountID),
		slog.String("type", string(saved.Type)))
	return saved, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// Not found is an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	input, err := validation.AccountUpdate(req)
	if err != nil {
		s.LogDebug(ctx, "Rejected account update request", slog.String("error", err.Error()))
		return nil, err
	}

	updated, err := s.modify(ctx, accountID, func(acc *domain.Account) (bool, error) {
		if acc.IsDeleted {
			return false, fmt.Errorf("account %s is deleted: %w", accountID, apperrors.ErrNotFound)
		}
		if input.Name != nil {
			acc.Name = *input.Name
		}
		if input.Description != nil {
			acc.Description = *input.Description
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return updated, nil
}

// DeleteAccount marks the account deleted. It stays readable by ID, leaves listings and cannot
// take part in new transactions. Deleting an already deleted account is a no-op.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	_, err := s.modify(ctx, accountID, func(acc *domain.Account) (bool, error) {
		if acc.IsDeleted {
			return false, nil
		}
		acc.IsDeleted = true
		return true, nil
	})
	if err != nil {
		return err
	}

	s.LogInfo(ctx, "Account deleted successfully", slog.String("account_id", accountID))
	return nil
}

// modify runs a version-checked read-modify-write, re-reading on ErrConflict.
// change reports whether anything needs writing.
func (s *accountService) modify(ctx context.Context, accountID string, change func(*domain.Account) (bool, error)) (*domain.Account, error) {
	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to load account for update", slog.String("account_id", accountID))
			}
			return nil, err
		}

		write, err := change(acc)
		if err != nil || !write {
			return acc, err
		}
		acc.Touch(s.now())

		err = s.accountRepo.UpdateAccount(ctx, *acc)
		if err == nil {
			acc.Version++
			return acc, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
			return nil, err
		}

		lastErr = err
		s.LogDebug(ctx, "Account changed concurrently, retrying",
			slog.String("account_id", accountID),
			slog.Int("attempt", attempt))
	}

	s.LogWarn(ctx, lastErr, "Giving up on account update after repeated conflicts", slog.String("account_id", accountID))
	return nil, lastErr
}
