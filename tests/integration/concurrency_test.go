package integration

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentSends_NoDoubleSpend fires 12 concurrent transfers of 100
// USDT each against a wallet holding 1000.50. The per-wallet lock holds
// each send from the balance check through the debit, so exactly 10 can
// pass and the other 2 must be rejected for insufficient funds. Rejected
// sends never reach the ledger.
func TestConcurrentSends_NoDoubleSpend(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	userID := uuid.New()
	token := app.token(t, userID)

	resp, _ := app.do(t, http.MethodPost, "/api/v1/wallets", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Wallet creation reconciles the balance against the simulated
	// network, leaving 1000.50 USDT.
	concurrency := 12
	sendBody := []byte(`{"recipient_address":"` + recipientAddr + `","amount_fiat":"160000"}`)

	var wg sync.WaitGroup
	var successCount atomic.Int64
	var insufficientCount atomic.Int64
	var otherCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, _ := app.do(t, http.MethodPost, "/api/v1/transactions/send", token, sendBody)
			switch r.StatusCode {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusPaymentRequired:
				insufficientCount.Add(1)
			default:
				otherCount.Add(1)
			}
		}()
	}
	wg.Wait()

	t.Logf("concurrent sends: %d succeeded, %d insufficient, %d other",
		successCount.Load(), insufficientCount.Load(), otherCount.Load())

	assert.Equal(t, int64(10), successCount.Load())
	assert.Equal(t, int64(2), insufficientCount.Load())
	assert.Equal(t, int64(0), otherCount.Load())

	// 1000.50 - 10 * 100 = 0.50 left, never negative.
	stored, err := app.walletRepo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "0.5", stored.BalanceStable.String())

	// Exactly the 10 successful transfers made it into the ledger, all
	// terminal COMPLETED.
	resp2, histBody := app.do(t, http.MethodGet, "/api/v1/transactions/history?size=20", token, nil)
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	data := histBody["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["total_elements"])
	for _, raw := range data["transactions"].([]interface{}) {
		item := raw.(map[string]interface{})
		assert.Equal(t, "COMPLETED", item["status"])
	}
}

// TestConcurrentSends_IndependentWallets verifies the per-wallet lock does
// not serialize unrelated users: two wallets sending at the same time both
// settle.
func TestConcurrentSends_IndependentWallets(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	users := []uuid.UUID{uuid.New(), uuid.New()}
	tokens := make([]string, len(users))
	for i, userID := range users {
		tokens[i] = app.token(t, userID)
		resp, _ := app.do(t, http.MethodPost, "/api/v1/wallets", tokens[i], nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	sendBody := []byte(`{"recipient_address":"` + recipientAddr + `","amount_fiat":"160000"}`)

	var wg sync.WaitGroup
	var successCount atomic.Int64
	for i := range users {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			r, _ := app.do(t, http.MethodPost, "/api/v1/transactions/send", tokens[idx], sendBody)
			if r.StatusCode == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(2), successCount.Load())

	for _, userID := range users {
		stored, err := app.walletRepo.GetByUserID(context.Background(), userID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "900.5", stored.BalanceStable.String())
	}
}
