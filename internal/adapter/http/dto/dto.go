package dto

import (
	"stablecoin-wallet-backend/internal/core/domain"
	"stablecoin-wallet-backend/internal/core/ports"

	"github.com/shopspring/decimal"
)

// SendRequest is the request body for an outgoing transfer. The fiat
// amount is parsed as a decimal; positivity is enforced by the engine.
type SendRequest struct {
	RecipientAddress string          `json:"recipient_address" binding:"required,min=1,max=64"`
	RecipientName    string          `json:"recipient_name" binding:"max=100"`
	AmountFiat       decimal.Decimal `json:"amount_fiat" binding:"required"`
	Description      string          `json:"description" binding:"max=255"`
}

// SendResponse is the response body for a completed transfer.
type SendResponse struct {
	Message           string          `json:"message"`
	TransactionID     string          `json:"transaction_id"`
	TransferReference string          `json:"transfer_reference"`
	AmountFiat        decimal.Decimal `json:"amount_fiat"`
	AmountStable      decimal.Decimal `json:"amount_stable"`
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	Status            string          `json:"status"`
}

// BalanceResponse is the response for balance queries and wallet
// creation. Message distinguishes "created" from "already exists".
type BalanceResponse struct {
	Message       string          `json:"message"`
	BalanceFiat   decimal.Decimal `json:"balance_fiat"`
	BalanceStable decimal.Decimal `json:"balance_stable"`
	WalletAddress string          `json:"wallet_address"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
}

// TransactionItem is one ledger entry in a history page.
type TransactionItem struct {
	ID                string          `json:"id"`
	RecipientAddress  string          `json:"recipient_address"`
	RecipientName     string          `json:"recipient_name"`
	AmountFiat        decimal.Decimal `json:"amount_fiat"`
	AmountStable      decimal.Decimal `json:"amount_stable"`
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	TransferReference *string         `json:"transfer_reference,omitempty"`
	Status            string          `json:"status"`
	Kind              string          `json:"kind"`
	CreatedAt         string          `json:"created_at"`
	CompletedAt       *string         `json:"completed_at,omitempty"`
	Description       string          `json:"description"`
}

// HistoryResponse wraps one page of the ledger.
type HistoryResponse struct {
	Message       string            `json:"message"`
	Transactions  []TransactionItem `json:"transactions"`
	TotalPages    int               `json:"total_pages"`
	TotalElements int64             `json:"total_elements"`
	CurrentPage   int               `json:"current_page"`
}

// FromTransaction converts a domain ledger entry to its wire shape.
func FromTransaction(t domain.Transaction) TransactionItem {
	item := TransactionItem{
		ID:                t.ID.String(),
		RecipientAddress:  t.RecipientAddress,
		RecipientName:     t.RecipientName,
		AmountFiat:        t.AmountFiat,
		AmountStable:      t.AmountStable,
		ExchangeRate:      t.ExchangeRate,
		TransferReference: t.TransferReference,
		Status:            string(t.Status),
		Kind:              string(t.Kind),
		CreatedAt:         t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Description:       t.Description,
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
		item.CompletedAt = &s
	}
	return item
}

// FromHistoryPage converts an engine history page to its wire shape.
func FromHistoryPage(page *ports.HistoryPage, message string) HistoryResponse {
	items := make([]TransactionItem, 0, len(page.Transactions))
	for _, t := range page.Transactions {
		items = append(items, FromTransaction(t))
	}
	return HistoryResponse{
		Message:       message,
		Transactions:  items,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
		CurrentPage:   page.CurrentPage,
	}
}
