package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_IsTerminal(t *testing.T) {
	tx := &Transaction{Status: TransactionStatusPending}
	assert.False(t, tx.IsTerminal())

	tx.Status = TransactionStatusCompleted
	assert.True(t, tx.IsTerminal())

	tx.Status = TransactionStatusFailed
	assert.True(t, tx.IsTerminal())
}

func TestWallet_SecretNeverSerialized(t *testing.T) {
	w := Wallet{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Address:       "TXk9qPb2mN8vL4cR7sW1aD5fG3hJ6eQz99",
		SecretKeyEnc:  "deadbeef",
		BalanceFiat:   decimal.RequireFromString("1600000.00"),
		BalanceStable: decimal.RequireFromString("1000.000000"),
		Active:        true,
	}

	raw, err := json.Marshal(w)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "deadbeef")
	assert.Contains(t, string(raw), w.Address)
}

func TestTransaction_RateSnapshotSurvivesMarshalling(t *testing.T) {
	tx := Transaction{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		AmountFiat:   decimal.RequireFromString("160000"),
		AmountStable: decimal.RequireFromString("100.000000"),
		ExchangeRate: decimal.RequireFromString("1600"),
		Status:       TransactionStatusPending,
		Kind:         TransactionKindSend,
	}

	raw, err := json.Marshal(tx)
	require.NoError(t, err)

	var back Transaction
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, tx.ExchangeRate.Equal(back.ExchangeRate))
	assert.True(t, tx.AmountStable.Equal(back.AmountStable))
}
