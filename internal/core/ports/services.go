package ports

import (
	"context"
	"time"

	"stablecoin-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRateProvider quotes the fiat-per-stable-unit rate and performs
// monetary conversions. GetRate never fails: any lookup problem yields the
// fixed fallback constant. Conversions take the rate explicitly so one
// quote prices a whole settlement.
type ExchangeRateProvider interface {
	GetRate(ctx context.Context) domain.ExchangeRate
	// ConvertFiatToStable divides by rate, 6 fractional digits, half-up.
	ConvertFiatToStable(amount, rate decimal.Decimal) decimal.Decimal
	// ConvertStableToFiat multiplies by rate, 2 fractional digits, half-up.
	ConvertStableToFiat(amount, rate decimal.Decimal) decimal.Decimal
}

// EncryptionService handles AES-256-GCM encryption of wallet secrets.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// TokenService validates (and mints, for tooling and tests) the bearer
// tokens through which the external identity component hands us the
// authenticated user. The engine itself never sees a token.
type TokenService interface {
	Generate(userID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID  uuid.UUID
	TokenID string
}

// TokenBlacklist is the revocation list consulted on every authenticated
// request. Entries expire together with the token they revoke.
type TokenBlacklist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

// --- Service Ports (Business Logic) ---

// WalletService is the wallet registry: exactly one wallet per user.
type WalletService interface {
	// Create is idempotent: when the user already has a wallet it is
	// returned unchanged with created=false.
	Create(ctx context.Context, userID uuid.UUID) (*domain.Wallet, bool, error)
	Get(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
}

// SettlementService orchestrates outgoing transfers and produces the
// ledger's view of balance and history.
type SettlementService interface {
	Send(ctx context.Context, userID uuid.UUID, req SendRequest) (*SendResult, error)
	History(ctx context.Context, userID uuid.UUID, page, size int) (*HistoryPage, error)
	Balance(ctx context.Context, userID uuid.UUID) (*BalanceView, error)
}

// SendRequest holds validated input for an outgoing transfer.
type SendRequest struct {
	RecipientAddress string
	RecipientName    string
	AmountFiat       decimal.Decimal
	Description      string
}

// SendResult is the outcome of a completed transfer.
type SendResult struct {
	TransactionID     uuid.UUID
	TransferReference string
	AmountFiat        decimal.Decimal
	AmountStable      decimal.Decimal
	ExchangeRate      decimal.Decimal
	Status            domain.TransactionStatus
}

// HistoryPage is one page of a user's ledger, newest first. TotalElements
// counts the full unfiltered set.
type HistoryPage struct {
	Transactions  []domain.Transaction
	TotalElements int64
	TotalPages    int
	CurrentPage   int
}

// BalanceView is the reconciled balance pair for a wallet.
type BalanceView struct {
	BalanceFiat   decimal.Decimal
	BalanceStable decimal.Decimal
	WalletAddress string
	ExchangeRate  decimal.Decimal
}
