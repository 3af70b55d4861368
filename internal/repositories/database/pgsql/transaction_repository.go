package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finn_ledger/internal/models"
	"github.com/SscSPs/finn_ledger/internal/utils/mapping"
	"github.com/SscSPs/finn_ledger/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `seq, transaction_id, transaction_type, details, source_account_id, target_account_id, unit_amount, conversion_factor, date_created, date_updated, date_applied, is_completed`

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, transaction_type, details, source_account_id, target_account_id, unit_amount, conversion_factor, date_created, date_updated, date_applied, is_completed)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var m models.Transaction
	if err := row.Scan(
		&m.Seq,
		&m.TransactionID,
		&m.TransactionType,
		&m.Details,
		&m.SourceAccountID,
		&m.TargetAccountID,
		&m.UnitAmount,
		&m.ConversionFactor,
		&m.DateCreated,
		&m.DateUpdated,
		&m.DateApplied,
		&m.IsCompleted,
	); err != nil {
		return domain.Transaction{}, err
	}

	txn := mapping.ToDomainTransaction(m)
	if err := validation.TransactionRead(txn); err != nil {
		return domain.Transaction{}, err
	}
	return txn, nil
}

// insertArgs lists the values for insertTransactionQuery in column order.
func insertArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID,
		m.TransactionType,
		m.Details,
		m.SourceAccountID,
		m.TargetAccountID,
		m.UnitAmount,
		m.ConversionFactor,
		m.DateCreated,
		m.DateUpdated,
		m.DateApplied,
		m.IsCompleted,
	}
}

func translateInsertError(transactionID string, err error) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, transactionID)
	case pgForeignKeyViolation, pgInvalidTextRepresentation:
		return fmt.Errorf("transaction %s references an unknown account: %w", transactionID, apperrors.ErrNotFound)
	}
	return fmt.Errorf("failed to insert transaction %s: %w", transactionID, err)
}

// SaveTransaction records a transaction row without touching balances.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	modelTxn := mapping.ToModelTransaction(txn)
	if _, err := r.Pool.Exec(ctx, insertTransactionQuery, insertArgs(modelTxn)...); err != nil {
		return nil, translateInsertError(modelTxn.TransactionID, err)
	}
	out := txn
	return &out, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		if errors.Is(err, apperrors.ErrCorruptedData) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return &txn, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY seq
		LIMIT $1 OFFSET $2;
	`

	rows, err := r.Pool.Query(ctx, query, limitArg(limit), offsetArg(offset))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			if errors.Is(err, apperrors.ErrCorruptedData) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, txn)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return transactions, nil
}

// UpdateTransaction rewrites the descriptive fields and completion state. Amounts and accounts are immutable.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	modelTxn := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET details = $2, date_updated = $3, date_applied = $4, is_completed = $5
		WHERE transaction_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.Details,
		modelTxn.DateUpdated,
		modelTxn.DateApplied,
		modelTxn.IsCompleted,
	)
	if err != nil {
		if isMalformedID(err) {
			return fmt.Errorf("transaction %s: %w", modelTxn.TransactionID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to update transaction %s: %w", modelTxn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", modelTxn.TransactionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxTransactionRepository) RemoveTransaction(ctx context.Context, transactionID string) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		if isMalformedID(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove transaction %s: %w", transactionID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
