package gateway

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	addressMinLen    = 26
	addressMaxLen    = 42
	generatedAddrLen = 34
	addressAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// mockNetworkBalance is the fixed balance the simulated network reports
// for any address.
var mockNetworkBalance = decimal.NewFromFloat(1000.50)

// SimulatedGateway is a development stand-in for the transfer network. It
// approximates network behavior: transfers take a configurable latency and
// always succeed, balances are a fixed constant.
type SimulatedGateway struct {
	latency time.Duration
	log     zerolog.Logger
}

// NewSimulatedGateway creates a simulated gateway with the given transfer
// latency.
func NewSimulatedGateway(latency time.Duration, log zerolog.Logger) *SimulatedGateway {
	return &SimulatedGateway{latency: latency, log: log}
}

// IsValidAddress checks syntax only: 26 to 42 alphanumeric characters.
func (g *SimulatedGateway) IsValidAddress(address string) bool {
	if len(address) < addressMinLen || len(address) > addressMaxLen {
		return false
	}
	return addressPattern.MatchString(address)
}

// GenerateAddress returns a fresh 34-character alphanumeric address.
func (g *SimulatedGateway) GenerateAddress() (string, error) {
	var sb strings.Builder
	sb.Grow(generatedAddrLen)
	max := big.NewInt(int64(len(addressAlphabet)))
	for i := 0; i < generatedAddrLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generating address: %w", err)
		}
		sb.WriteByte(addressAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// GetBalance returns the fixed simulated network balance.
func (g *SimulatedGateway) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	return mockNetworkBalance, nil
}

// SendTransfer simulates a transfer by sleeping for the configured latency
// and returning a fresh reference. Cancellation during the sleep aborts
// the transfer.
func (g *SimulatedGateway) SendTransfer(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal, secretKey string) (string, error) {
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	reference := transferReference()
	g.log.Debug().
		Str("from", fromAddress).
		Str("to", toAddress).
		Str("amount", amount.String()).
		Str("reference", reference).
		Msg("simulated transfer executed")
	return reference, nil
}

// VerifyTransfer accepts any reference this gateway could have issued.
func (g *SimulatedGateway) VerifyTransfer(reference string) bool {
	return strings.HasPrefix(reference, "0x") && len(reference) > 2
}

// transferReference builds a network-style reference from a fresh UUID.
func transferReference() string {
	return "0x" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
