package ports

import (
	"context"
	"time"

	"stablecoin-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks so the wallet row
// can be locked pessimistically during the debit.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalances(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balanceStable, balanceFiat decimal.Decimal) error
}

// TransactionRepository defines persistence operations for ledger entries.
// Create and MarkFailed run outside any database transaction: a PENDING
// record must exist before the gateway is called, and a FAILED terminal
// write must survive even when the commit path is never reached.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByUser(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, transferReference string, completedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// TransactionListParams holds filter + pagination for listing ledger entries.
// Page is zero-based; results are ordered by creation time descending.
type TransactionListParams struct {
	UserID   uuid.UUID
	Status   *domain.TransactionStatus
	Page     int
	PageSize int
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
