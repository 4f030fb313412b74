package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Candle is one OHLCV bar produced by a venue. Consumers treat it as read-only.
type Candle struct {
	OpenTime time.Time `json:"openTime" yaml:"openTime" csv:"open_time"`
	Open     float64   `json:"open" yaml:"open" csv:"open"`
	High     float64   `json:"high" yaml:"high" csv:"high"`
	Low      float64   `json:"low" yaml:"low" csv:"low"`
	Close    float64   `json:"close" yaml:"close" csv:"close"`
	Volume   float64   `json:"volume" yaml:"volume" csv:"volume"`
}

// MarketSnapshot is a fresh view of a symbol built for a single analysis call.
type MarketSnapshot struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	MarkPrice float64 `json:"markPrice"`
	// FundingRate is only present for perpetual venues.
	FundingRate optional.Option[float64] `json:"fundingRate"`
	Candles     []Candle                 `json:"candles"`
}

// ReferencePrice returns the price used for sizing and targets.
// The last trade price wins; the mark price is the fallback.
func (s MarketSnapshot) ReferencePrice() float64 {
	if s.Price > 0 {
		return s.Price
	}

	return s.MarkPrice
}

// StreamChannel names a venue push channel.
type StreamChannel string

const (
	StreamChannelTicker    StreamChannel = "ticker"
	StreamChannelKline     StreamChannel = "kline"
	StreamChannelTrade     StreamChannel = "trade"
	StreamChannelMarkPrice StreamChannel = "markPrice"
)

// StreamOptions bounds a live-feed collection. Both Limit and DurationMs are
// caller supplied; collection stops at whichever is reached first.
type StreamOptions struct {
	Channel    StreamChannel `json:"channel" yaml:"channel" validate:"omitempty,oneof=ticker kline trade markPrice"`
	Interval   string        `json:"interval" yaml:"interval"`
	Limit      int           `json:"limit" yaml:"limit" validate:"gte=0"`
	DurationMs int64         `json:"durationMs" yaml:"durationMs" validate:"gte=0"`
}

// StreamSample is one ephemeral push-channel tick.
type StreamSample struct {
	EventTime time.Time     `json:"eventTime"`
	Channel   StreamChannel `json:"channel"`
	Symbol    string        `json:"symbol"`
	Price     float64       `json:"price"`
	BestBid   float64       `json:"bestBid,omitempty"`
	BestAsk   float64       `json:"bestAsk,omitempty"`
	Volume    float64       `json:"volume,omitempty"`
}

// StreamStopReason explains why a collection finished.
type StreamStopReason string

const (
	StreamStopLimit    StreamStopReason = "limit"
	StreamStopDuration StreamStopReason = "duration"
	StreamStopClosed   StreamStopReason = "closed"
)

// StreamStats summarises a collected window.
type StreamStats struct {
	Count      int              `json:"count"`
	First      float64          `json:"first"`
	Last       float64          `json:"last"`
	High       float64          `json:"high"`
	Low        float64          `json:"low"`
	Change     float64          `json:"change"`
	ElapsedMs  int64            `json:"elapsedMs"`
	StopReason StreamStopReason `json:"stopReason"`
}

// StreamResult is the output of a bounded stream collection.
type StreamResult struct {
	Samples []StreamSample `json:"samples"`
	Stats   StreamStats    `json:"stats"`
}
