package service

import (
	"context"
	"fmt"

	"stablecoin-wallet-backend/config"
	"stablecoin-wallet-backend/internal/core/domain"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ExchangeRateService implements ports.ExchangeRateProvider against a
// public rates API. Any lookup failure yields the configured fallback
// constant; no error ever escapes GetRate. Rates are not cached, so every
// call may hit the network.
type ExchangeRateService struct {
	client       *resty.Client
	apiURL       string
	fiatSymbol   string
	fallbackRate decimal.Decimal
	log          zerolog.Logger
}

// ratesPayload mirrors the exchangerate-api response shape.
type ratesPayload struct {
	Rates map[string]float64 `json:"rates"`
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(cfg config.ExchangeConfig, log zerolog.Logger) (*ExchangeRateService, error) {
	fallback, err := decimal.NewFromString(cfg.FallbackRate)
	if err != nil {
		return nil, fmt.Errorf("parsing fallback rate %q: %w", cfg.FallbackRate, err)
	}
	if !fallback.IsPositive() {
		return nil, fmt.Errorf("fallback rate must be positive, got %s", fallback)
	}

	return &ExchangeRateService{
		client:       resty.New().SetTimeout(cfg.Timeout),
		apiURL:       cfg.APIURL,
		fiatSymbol:   cfg.FiatSymbol,
		fallbackRate: fallback,
		log:          log,
	}, nil
}

// GetRate fetches the live fiat-per-stable-unit rate. Transport errors,
// non-2xx responses, malformed payloads and missing symbols all degrade to
// the fallback constant.
func (s *ExchangeRateService) GetRate(ctx context.Context) domain.ExchangeRate {
	var payload ratesPayload
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&payload).
		Get(s.apiURL)
	if err != nil || resp.IsError() {
		s.log.Warn().Err(err).Str("url", s.apiURL).Msg("live rate lookup failed, using fallback")
		return s.fallback()
	}

	raw, ok := payload.Rates[s.fiatSymbol]
	if !ok || raw <= 0 {
		s.log.Warn().Str("symbol", s.fiatSymbol).Msg("rate missing from payload, using fallback")
		return s.fallback()
	}

	return domain.ExchangeRate{
		Rate:   decimal.NewFromFloat(raw).Round(2),
		Source: domain.RateSourceLive,
	}
}

// ConvertFiatToStable divides by rate: 6 fractional digits, half-up.
func (s *ExchangeRateService) ConvertFiatToStable(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return amount.DivRound(rate, 6)
}

// ConvertStableToFiat multiplies by rate: 2 fractional digits, half-up.
func (s *ExchangeRateService) ConvertStableToFiat(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

func (s *ExchangeRateService) fallback() domain.ExchangeRate {
	return domain.ExchangeRate{
		Rate:   s.fallbackRate,
		Source: domain.RateSourceFallback,
	}
}
