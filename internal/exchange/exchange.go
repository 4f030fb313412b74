// Package exchange defines the capability set every venue adapter implements
// and the provider-keyed factory that builds them.
package exchange

import (
	"context"
	"iter"
	"time"

	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
)

// MarketData is the public, credential-free part of a venue.
type MarketData interface {
	// GetMarketSnapshot returns the last price, mark price and recent candles.
	GetMarketSnapshot(ctx context.Context, symbol string, interval string, limit int) (types.MarketSnapshot, error)
	// GetHistoricalCandles returns up to limit candles, oldest first.
	GetHistoricalCandles(ctx context.Context, symbol string, interval string, limit int) ([]types.Candle, error)
}

// Exchange is the capability set the orchestrator depends on.
type Exchange interface {
	MarketData
	// PlaceOrder routes an order. OrderResult.PaperState is only set by the simulator.
	PlaceOrder(ctx context.Context, req types.OrderRequest) (types.OrderResult, error)
	// GetAccountSnapshot returns balances and open positions.
	GetAccountSnapshot(ctx context.Context, symbol string) (types.AccountSnapshot, error)
	// CancelOrder cancels by order id or client order id.
	CancelOrder(ctx context.Context, req types.CancelRequest) (types.OrderResult, error)
}

// Streamer is implemented by venues with a push channel.
// Breaking out of the iterator or cancelling ctx releases the subscription.
type Streamer interface {
	StreamMarket(ctx context.Context, symbol string, opts types.StreamOptions) iter.Seq2[types.StreamSample, error]
}

// FundingRater is implemented by perpetual venues.
type FundingRater interface {
	GetFundingRate(ctx context.Context, symbol string) (float64, error)
}

// Options carries the dependencies shared by every adapter.
type Options struct {
	Logger *logger.Logger
	// PaperState is the caller-owned simulator state; only the paper venue reads it.
	PaperState *types.PaperState
	// HTTPTimeout bounds every REST call; zero means DefaultHTTPTimeout.
	HTTPTimeout time.Duration
	// Now is the simulator clock; nil means time.Now.
	Now func() time.Time
}

const (
	// DefaultHTTPTimeout bounds venue REST calls.
	DefaultHTTPTimeout = 10 * time.Second
	// DefaultInterval is used when a caller omits the candle interval.
	DefaultInterval = "1h"
	// DefaultCandleLimit is used when a caller omits the candle count.
	DefaultCandleLimit = 100
)

// CandleQuery fills in the default interval and limit.
func CandleQuery(interval string, limit int) (string, int) {
	if interval == "" {
		interval = DefaultInterval
	}

	if limit <= 0 {
		limit = DefaultCandleLimit
	}

	return interval, limit
}

// Timeout returns the configured REST timeout.
func (o Options) Timeout() time.Duration {
	if o.HTTPTimeout > 0 {
		return o.HTTPTimeout
	}

	return DefaultHTTPTimeout
}

// Clock returns the configured clock.
func (o Options) Clock() func() time.Time {
	if o.Now != nil {
		return o.Now
	}

	return time.Now
}

// AsStreamer reports whether ex supports streaming.
func AsStreamer(ex Exchange) (Streamer, bool) {
	streamer, ok := ex.(Streamer)

	return streamer, ok
}

// AsFundingRater reports whether ex exposes a funding rate.
func AsFundingRater(ex Exchange) (FundingRater, bool) {
	rater, ok := ex.(FundingRater)

	return rater, ok
}
