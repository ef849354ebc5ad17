package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stablecoin-wallet-backend/config"
	"stablecoin-wallet-backend/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExchangeService(t *testing.T, apiURL string) *ExchangeRateService {
	t.Helper()
	svc, err := NewExchangeRateService(config.ExchangeConfig{
		APIURL:       apiURL,
		Timeout:      2 * time.Second,
		FallbackRate: "1600",
		FiatSymbol:   "NGN",
	}, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestExchangeRateService_GetRate_Live(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"NGN":1621.53,"EUR":0.92}}`))
	}))
	defer srv.Close()

	svc := newExchangeService(t, srv.URL)
	rate := svc.GetRate(context.Background())

	assert.Equal(t, domain.RateSourceLive, rate.Source)
	assert.True(t, rate.Rate.Equal(decimal.RequireFromString("1621.53")))
}

func TestExchangeRateService_GetRate_NetworkFailure(t *testing.T) {
	// Closed server: transport error on every request.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := newExchangeService(t, srv.URL)
	rate := svc.GetRate(context.Background())

	assert.Equal(t, domain.RateSourceFallback, rate.Source)
	assert.True(t, rate.Rate.Equal(decimal.NewFromInt(1600)))
}

func TestExchangeRateService_GetRate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newExchangeService(t, srv.URL)
	rate := svc.GetRate(context.Background())

	assert.Equal(t, domain.RateSourceFallback, rate.Source)
}

func TestExchangeRateService_GetRate_MissingSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates":{"EUR":0.92}}`))
	}))
	defer srv.Close()

	svc := newExchangeService(t, srv.URL)
	rate := svc.GetRate(context.Background())

	assert.Equal(t, domain.RateSourceFallback, rate.Source)
	assert.True(t, rate.Rate.Equal(decimal.NewFromInt(1600)))
}

func TestExchangeRateService_GetRate_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates": "not-a-map"`))
	}))
	defer srv.Close()

	svc := newExchangeService(t, srv.URL)
	rate := svc.GetRate(context.Background())

	assert.Equal(t, domain.RateSourceFallback, rate.Source)
}

func TestExchangeRateService_InvalidFallback(t *testing.T) {
	_, err := NewExchangeRateService(config.ExchangeConfig{FallbackRate: "not-a-number"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewExchangeRateService(config.ExchangeConfig{FallbackRate: "-5"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestConvertFiatToStable_Scale(t *testing.T) {
	svc := newExchangeService(t, "http://unused")
	rate := decimal.NewFromInt(1600)

	// 160000 fiat at 1600 per unit -> exactly 100 stable units.
	got := svc.ConvertFiatToStable(decimal.NewFromInt(160000), rate)
	assert.True(t, got.Equal(decimal.RequireFromString("100")))
	assert.LessOrEqual(t, int(got.Exponent())*-1, 6)

	// A non-terminating division rounds half-up at 6 digits: 100/3 = 33.333333.
	got = svc.ConvertFiatToStable(decimal.NewFromInt(100), decimal.NewFromInt(3))
	assert.True(t, got.Equal(decimal.RequireFromString("33.333333")))
}

func TestConvertStableToFiat_Scale(t *testing.T) {
	svc := newExchangeService(t, "http://unused")
	rate := decimal.NewFromInt(1600)

	got := svc.ConvertStableToFiat(decimal.RequireFromString("900.5"), rate)
	assert.True(t, got.Equal(decimal.RequireFromString("1440800.00")))

	// Half-up at 2 digits: 0.005 * 1 = 0.01.
	got = svc.ConvertStableToFiat(decimal.RequireFromString("0.005"), decimal.NewFromInt(1))
	assert.True(t, got.Equal(decimal.RequireFromString("0.01")))
}

func TestConvert_RoundTripWithinTolerance(t *testing.T) {
	svc := newExchangeService(t, "http://unused")

	rates := []string{"1600", "1621.53", "750.25", "3.07"}
	amounts := []string{"160000", "1000.50", "0.01", "99999.99"}

	// Tolerance implied by 6-digit then 2-digit half-up rounding: one
	// fiat cent per unit of rate.
	for _, r := range rates {
		rate := decimal.RequireFromString(r)
		tolerance := rate.Mul(decimal.RequireFromString("0.000001")).Add(decimal.RequireFromString("0.01"))
		for _, a := range amounts {
			amount := decimal.RequireFromString(a)
			back := svc.ConvertStableToFiat(svc.ConvertFiatToStable(amount, rate), rate)
			diff := back.Sub(amount).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"rate=%s amount=%s back=%s diff=%s", r, a, back, diff)
		}
	}
}

func TestConvertFiatToStable_ZeroRateGuard(t *testing.T) {
	svc := newExchangeService(t, "http://unused")
	got := svc.ConvertFiatToStable(decimal.NewFromInt(100), decimal.Zero)
	assert.True(t, got.IsZero())
}
