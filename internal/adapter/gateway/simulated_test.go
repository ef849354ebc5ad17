package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGateway_IsValidAddress(t *testing.T) {
	g := NewSimulatedGateway(0, zerolog.Nop())

	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"valid 34 chars", strings.Repeat("a", 34), true},
		{"valid lower bound", strings.Repeat("A", 26), true},
		{"valid upper bound", strings.Repeat("9", 42), true},
		{"too short", strings.Repeat("a", 25), false},
		{"too long", strings.Repeat("a", 43), false},
		{"empty", "", false},
		{"special characters", strings.Repeat("a", 30) + "!@#$", false},
		{"whitespace", strings.Repeat("a", 30) + "    ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.IsValidAddress(tt.address))
		})
	}
}

func TestSimulatedGateway_GenerateAddress(t *testing.T) {
	g := NewSimulatedGateway(0, zerolog.Nop())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		addr, err := g.GenerateAddress()
		require.NoError(t, err)
		assert.Len(t, addr, 34)
		assert.True(t, g.IsValidAddress(addr), "generated address must pass validation: %s", addr)
		assert.False(t, seen[addr], "generated addresses should not repeat")
		seen[addr] = true
	}
}

func TestSimulatedGateway_SendTransfer(t *testing.T) {
	g := NewSimulatedGateway(10*time.Millisecond, zerolog.Nop())

	ref, err := g.SendTransfer(context.Background(), "from", "to", mockNetworkBalance, "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "0x"))
	assert.Len(t, ref, 34) // "0x" + 32 hex chars
	assert.True(t, g.VerifyTransfer(ref))
}

func TestSimulatedGateway_SendTransfer_UniqueReferences(t *testing.T) {
	g := NewSimulatedGateway(0, zerolog.Nop())

	r1, err := g.SendTransfer(context.Background(), "a", "b", mockNetworkBalance, "s")
	require.NoError(t, err)
	r2, err := g.SendTransfer(context.Background(), "a", "b", mockNetworkBalance, "s")
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2)
}

func TestSimulatedGateway_SendTransfer_Cancelled(t *testing.T) {
	g := NewSimulatedGateway(5*time.Second, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := g.SendTransfer(ctx, "from", "to", mockNetworkBalance, "secret")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "cancellation should not wait out the latency")
}

func TestSimulatedGateway_GetBalance(t *testing.T) {
	g := NewSimulatedGateway(0, zerolog.Nop())

	balance, err := g.GetBalance(context.Background(), strings.Repeat("a", 34))
	require.NoError(t, err)
	assert.True(t, balance.Equal(mockNetworkBalance))
}

func TestSimulatedGateway_VerifyTransfer(t *testing.T) {
	g := NewSimulatedGateway(0, zerolog.Nop())

	assert.True(t, g.VerifyTransfer("0xabc"))
	assert.False(t, g.VerifyTransfer("0x"))
	assert.False(t, g.VerifyTransfer("abc"))
	assert.False(t, g.VerifyTransfer(""))
}
