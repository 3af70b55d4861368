package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finn_ledger/internal/models"
	"github.com/SscSPs/finn_ledger/internal/utils/mapping"
	"github.com/SscSPs/finn_ledger/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `seq, account_id, account_type, name, description, balance, conversion_factor, is_deleted, version, created_at, updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// scanAccount reads one row selected with accountColumns and runs the stored-record profile on it.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	if err := row.Scan(
		&m.Seq,
		&m.AccountID,
		&m.AccountType,
		&m.Name,
		&m.Description,
		&m.Balance,
		&m.ConversionFactor,
		&m.IsDeleted,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}

	acc := mapping.ToDomainAccount(m)
	if err := validation.AccountRead(acc); err != nil {
		return domain.Account{}, err
	}
	return acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	modelAcc := mapping.ToModelAccount(account)
	if modelAcc.Version == 0 {
		modelAcc.Version = 1
	}

	query := `
		INSERT INTO accounts (account_id, account_type, name, description, balance, conversion_factor, is_deleted, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + accountColumns + `;
	`
	saved, err := scanAccount(r.Pool.QueryRow(ctx, query,
		modelAcc.AccountID,
		modelAcc.AccountType,
		modelAcc.Name,
		modelAcc.Description,
		modelAcc.Balance,
		modelAcc.ConversionFactor,
		modelAcc.IsDeleted,
		modelAcc.Version,
		modelAcc.CreatedAt,
		modelAcc.UpdatedAt,
	))
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, modelAcc.AccountID)
		}
		return nil, fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return &saved, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		if errors.Is(err, apperrors.ErrCorruptedData) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// ListAccounts retrieves accounts that are not soft-deleted, in insertion order.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE is_deleted = FALSE
		ORDER BY seq
		LIMIT $1 OFFSET $2;
	`

	rows, err := r.Pool.Query(ctx, query, limitArg(limit), offsetArg(offset))
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			if errors.Is(err, apperrors.ErrCorruptedData) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}

	return accounts, nil
}

// UpdateAccount updates the mutable fields of an account if nobody wrote it since it was read.
// Balance, type and conversion factor are never changed here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)
	if !modelAcc.UpdatedAt.Valid {
		modelAcc.UpdatedAt.Time, modelAcc.UpdatedAt.Valid = time.Now().UTC(), true
	}

	query := `
		UPDATE accounts
		SET name = $2, description = $3, is_deleted = $4, updated_at = $5, version = version + 1
		WHERE account_id = $1 AND version = $6;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Name,
		modelAcc.Description,
		modelAcc.IsDeleted,
		modelAcc.UpdatedAt,
		modelAcc.Version,
	)
	if err != nil {
		if isMalformedID(err) {
			return fmt.Errorf("account %s: %w", modelAcc.AccountID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to execute update account %s: %w", modelAcc.AccountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the account is gone or its version moved on.
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1);`, modelAcc.AccountID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account %s after update: %w", modelAcc.AccountID, err)
		}
		if !exists {
			return fmt.Errorf("account %s: %w", modelAcc.AccountID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("account %s changed since version %d: %w", modelAcc.AccountID, modelAcc.Version, apperrors.ErrConflict)
	}

	return nil
}

// RemoveAccount deletes an account row. Accounts referenced by transactions cannot be removed.
func (r *PgxAccountRepository) RemoveAccount(ctx context.Context, accountID string) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		switch {
		case pgErrorCode(err) == pgForeignKeyViolation:
			return false, fmt.Errorf("account %s is referenced by transactions: %w", accountID, apperrors.ErrConflict)
		case isMalformedID(err):
			return false, nil
		}
		return false, fmt.Errorf("failed to remove account %s: %w", accountID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
