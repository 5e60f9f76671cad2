package domain

import (
	"errors"
	"time"
)

var ErrPricesUnavailable = errors.New("prices unavailable")

// PriceMapping maps a coin identifier to its USD price.
type PriceMapping map[string]float64

// Clone returns a copy that can be handed out without sharing the cache map.
func (m PriceMapping) Clone() PriceMapping {
	if m == nil {
		return nil
	}
	out := make(PriceMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PriceState is the lifecycle of a lazily loaded price cache.
type PriceState string

const (
	PriceStateUninitialized PriceState = "uninitialized"
	PriceStateLoading       PriceState = "loading"
	PriceStateReady         PriceState = "ready"
	PriceStateFailed        PriceState = "failed"
)

// PriceSnapshot is one fetched price, kept for auditing.
type PriceSnapshot struct {
	ID          int64     `json:"id"`
	CoingeckoID string    `json:"coingecko_id"`
	PriceUSD    float64   `json:"price_usd"`
	FetchedAt   time.Time `json:"fetched_at"`
}
