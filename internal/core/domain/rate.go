package domain

import "github.com/shopspring/decimal"

// RateSource tells whether a rate came from the live market lookup or the
// fixed fallback constant.
type RateSource string

const (
	RateSourceLive     RateSource = "live"
	RateSourceFallback RateSource = "fallback"
)

// ExchangeRate is a transient fiat-per-stable-unit quote. It is produced
// per call and never persisted on its own; transactions snapshot the rate
// they were priced with.
type ExchangeRate struct {
	Rate   decimal.Decimal `json:"rate"`
	Source RateSource      `json:"source"`
}
