package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finn_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository applies transactions to balances inside one database transaction.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerStore = (*PgxLedgerRepository)(nil)

// ApplyTransaction locks the referenced account rows, lets apply mutate them, then writes the new balances and the
// transaction row in one batch before committing.
func (r *PgxLedgerRepository) ApplyTransaction(ctx context.Context, txn *domain.Transaction, apply portsrepo.ApplyFunc) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	accounts, err := lockAccounts(ctx, tx, txn.AccountIDs())
	if err != nil {
		return err
	}

	if err := apply(accounts); err != nil {
		return err
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	balanceQuery := `
		UPDATE accounts
		SET balance = $2, updated_at = $3, version = version + 1
		WHERE account_id = $1;
	`
	ids := txn.AccountIDs()
	for _, id := range ids {
		batch.Queue(balanceQuery, id, accounts[id].Balance, now)
	}
	modelTxn := mapping.ToModelTransaction(*txn)
	batch.Queue(insertTransactionQuery, insertArgs(modelTxn)...)

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if batchErr != nil {
			continue
		}
		switch {
		case err != nil && i == len(ids):
			batchErr = translateInsertError(modelTxn.TransactionID, err)
		case err != nil:
			batchErr = fmt.Errorf("failed to update balance for account %s: %w", ids[i], err)
		case i < len(ids) && ct.RowsAffected() == 0:
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, ids[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = apperrors.NewAppError(http.StatusInternalServerError, "failed to close ledger batch for transaction "+modelTxn.TransactionID, err)
	}
	if batchErr != nil {
		return batchErr
	}

	return r.Commit(ctx, tx)
}

// lockAccounts selects the rows FOR UPDATE in account_id order, so concurrent ledgers always lock in the same order.
func lockAccounts(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		if isMalformedID(err) {
			return nil, fmt.Errorf("%w: could not find or lock accounts %v", apperrors.ErrNotFound, accountIDs)
		}
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]*domain.Account, len(accountIDs))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accounts[acc.AccountID] = &acc
	}
	if err := rows.Err(); err != nil {
		if isMalformedID(err) {
			return nil, fmt.Errorf("%w: could not find or lock accounts %v", apperrors.ErrNotFound, accountIDs)
		}
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	var missing []string
	for _, id := range accountIDs {
		if acc, ok := accounts[id]; !ok || acc.IsDeleted {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slog.WarnContext(ctx, "Accounts requested for update lock were not found", slog.Any("missing_accounts", missing))
		return nil, fmt.Errorf("%w: could not find or lock accounts %v", apperrors.ErrNotFound, missing)
	}
	return accounts, nil
}
