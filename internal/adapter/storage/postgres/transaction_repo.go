package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stablecoin-wallet-backend/internal/core/domain"
	"stablecoin-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, user_id, recipient_address, recipient_name, amount_fiat, amount_stable,
		exchange_rate, transfer_reference, status, kind, created_at, completed_at, description, network_fee`

// Create inserts a new ledger entry. It runs pool-level, outside any
// database transaction, so the PENDING record exists before the transfer
// network is called.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.UserID, t.RecipientAddress, t.RecipientName,
		t.AmountFiat, t.AmountStable, t.ExchangeRate, t.TransferReference,
		t.Status, t.Kind, t.CreatedAt, t.CompletedAt,
		t.Description, t.NetworkFee,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ListByUser fetches one page of a user's ledger, newest first. The total
// counts every entry of the user regardless of the status filter.
func (r *TransactionRepo) ListByUser(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	countQuery := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, params.UserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	where := "WHERE user_id = $1"
	args := []any{params.UserID}
	argIdx := 2
	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *params.Status)
		argIdx++
	}

	offset := params.Page * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+transactionColumns+`
		FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.UserID, &t.RecipientAddress, &t.RecipientName,
			&t.AmountFiat, &t.AmountStable, &t.ExchangeRate, &t.TransferReference,
			&t.Status, &t.Kind, &t.CreatedAt, &t.CompletedAt,
			&t.Description, &t.NetworkFee,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// MarkCompleted flips a PENDING entry to COMPLETED within a database
// transaction, recording the network reference.
func (r *TransactionRepo) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, transferReference string, completedAt time.Time) error {
	query := `UPDATE transactions SET status = $1, transfer_reference = $2, completed_at = $3
		WHERE id = $4 AND status = $5`

	tag, err := tx.Exec(ctx, query,
		domain.TransactionStatusCompleted, transferReference, completedAt,
		id, domain.TransactionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark transaction completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not pending: %s", id)
	}
	return nil
}

// MarkFailed flips a PENDING entry to FAILED. It runs pool-level so the
// terminal state is durable even when no commit path is reached.
func (r *TransactionRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE transactions SET status = $1, completed_at = NOW()
		WHERE id = $2 AND status = $3`

	tag, err := r.pool.Exec(ctx, query,
		domain.TransactionStatusFailed, id, domain.TransactionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark transaction failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not pending: %s", id)
	}
	return nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.RecipientAddress, &t.RecipientName,
		&t.AmountFiat, &t.AmountStable, &t.ExchangeRate, &t.TransferReference,
		&t.Status, &t.Kind, &t.CreatedAt, &t.CompletedAt,
		&t.Description, &t.NetworkFee,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
