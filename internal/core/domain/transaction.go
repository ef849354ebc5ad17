package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the direction of a transfer.
type TransactionKind string

const (
	TransactionKindSend    TransactionKind = "SEND"
	TransactionKindReceive TransactionKind = "RECEIVE"
)

// TransactionStatus represents the lifecycle state of a transfer attempt.
// Transitions are one-way: PENDING -> COMPLETED or PENDING -> FAILED.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is one ledger entry per transfer attempt. ExchangeRate is
// the fiat-per-stable rate snapshotted when the attempt was created, kept
// for audit regardless of the outcome.
type Transaction struct {
	ID                uuid.UUID        `json:"id"`
	UserID            uuid.UUID        `json:"user_id"`
	RecipientAddress  string           `json:"recipient_address"`
	RecipientName     string           `json:"recipient_name"`
	AmountFiat        decimal.Decimal  `json:"amount_fiat"`
	AmountStable      decimal.Decimal  `json:"amount_stable"`
	ExchangeRate      decimal.Decimal  `json:"exchange_rate"`
	TransferReference *string          `json:"transfer_reference,omitempty"` // set only on success
	Status            TransactionStatus `json:"status"`
	Kind              TransactionKind  `json:"kind"`
	CreatedAt         time.Time        `json:"created_at"`
	CompletedAt       *time.Time       `json:"completed_at,omitempty"`
	Description       string           `json:"description"`
	NetworkFee        *decimal.Decimal `json:"network_fee,omitempty"`
}

// IsTerminal returns true if the transaction can no longer change state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusFailed
}
