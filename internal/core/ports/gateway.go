package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferGateway is the boundary to the external value-transfer network.
// The settlement engine depends only on this interface; a real network
// client and the simulated development implementation are interchangeable.
type TransferGateway interface {
	// IsValidAddress is a syntactic filter only: length in [26,42],
	// alphanumeric. It says nothing about existence on the network.
	IsValidAddress(address string) bool
	// GenerateAddress returns a fresh 34-character alphanumeric address.
	// Collisions are assumed negligible and are not re-checked.
	GenerateAddress() (string, error)
	// GetBalance returns the authoritative stable balance as seen by the
	// transfer network.
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	// SendTransfer moves amount from fromAddress to toAddress. It may
	// block for a non-trivial duration; callers bound it via ctx.
	SendTransfer(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal, secretKey string) (string, error)
	// VerifyTransfer checks a reference's well-formedness/existence.
	VerifyTransfer(reference string) bool
}
