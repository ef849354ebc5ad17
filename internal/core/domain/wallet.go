package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a user's custodial balance pair. BalanceStable is the
// settlement balance; BalanceFiat is a projection of it at the rate in
// effect when the wallet was last written, never an independent value.
// At most one active wallet exists per user.
type Wallet struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Address       string          `json:"address"`
	SecretKeyEnc  string          `json:"-"` // AES-256-GCM encrypted signing secret, never exposed
	BalanceFiat   decimal.Decimal `json:"balance_fiat"`
	BalanceStable decimal.Decimal `json:"balance_stable"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
