package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// NodeGateway talks to a transfer-network node over its HTTP API. It
// shares address syntax rules with the simulated gateway; only execution
// and balance lookup go over the wire.
type NodeGateway struct {
	client *resty.Client
	log    zerolog.Logger
}

// NewNodeGateway creates a gateway backed by the node at baseURL.
func NewNodeGateway(baseURL string, timeout time.Duration, log zerolog.Logger) *NodeGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &NodeGateway{client: client, log: log}
}

// IsValidAddress checks syntax only: 26 to 42 alphanumeric characters.
func (g *NodeGateway) IsValidAddress(address string) bool {
	if len(address) < addressMinLen || len(address) > addressMaxLen {
		return false
	}
	return addressPattern.MatchString(address)
}

type nodeAddressResponse struct {
	Address string `json:"address"`
}

// GenerateAddress asks the node to derive a fresh address.
func (g *NodeGateway) GenerateAddress() (string, error) {
	var out nodeAddressResponse
	resp, err := g.client.R().
		SetResult(&out).
		Post("/v1/addresses")
	if err != nil {
		return "", fmt.Errorf("node address request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("node address request: status %d", resp.StatusCode())
	}
	if out.Address == "" {
		return "", fmt.Errorf("node returned empty address")
	}
	return out.Address, nil
}

type nodeBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// GetBalance fetches the stable balance of an address from the node.
func (g *NodeGateway) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	var out nodeBalanceResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetPathParam("address", address).
		Get("/v1/addresses/{address}/balance")
	if err != nil {
		return decimal.Zero, fmt.Errorf("node balance request: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("node balance request: status %d", resp.StatusCode())
	}
	return out.Balance, nil
}

type nodeTransferRequest struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	SecretKey string          `json:"secret_key"`
}

type nodeTransferResponse struct {
	Reference string `json:"reference"`
}

// SendTransfer submits a transfer to the node and returns its reference.
func (g *NodeGateway) SendTransfer(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal, secretKey string) (string, error) {
	var out nodeTransferResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(nodeTransferRequest{
			From:      fromAddress,
			To:        toAddress,
			Amount:    amount,
			SecretKey: secretKey,
		}).
		SetResult(&out).
		Post("/v1/transfers")
	if err != nil {
		return "", fmt.Errorf("node transfer request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("node transfer request: status %d", resp.StatusCode())
	}
	if out.Reference == "" {
		return "", fmt.Errorf("node returned empty transfer reference")
	}

	g.log.Debug().
		Str("from", fromAddress).
		Str("to", toAddress).
		Str("reference", out.Reference).
		Msg("node transfer submitted")
	return out.Reference, nil
}

// VerifyTransfer checks a reference's shape without a network round trip.
func (g *NodeGateway) VerifyTransfer(reference string) bool {
	return len(reference) > 2 && reference[:2] == "0x"
}
