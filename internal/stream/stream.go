// Package stream collects a bounded window of live samples from a venue push
// channel.
package stream

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"go.uber.org/zap"
)

// Collector drives a venue subscription to completion.
type Collector struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewCollector returns a Collector. A nil logger discards output.
func NewCollector(log *logger.Logger) *Collector {
	return &Collector{
		logger: log.Named("stream"),
		now:    time.Now,
	}
}

// Collect subscribes to symbol and gathers samples until opts.Limit samples
// arrived or opts.DurationMs elapsed, whichever comes first. At least one of
// the two bounds is required. The subscription is released before Collect
// returns, including when ctx is cancelled or the venue fails.
func (c *Collector) Collect(ctx context.Context, streamer exchange.Streamer, symbol string, opts types.StreamOptions) (types.StreamResult, error) {
	if symbol == "" {
		return types.StreamResult{}, errors.New(errors.ErrCodeMissingSymbol, "symbol is required")
	}

	if streamer == nil {
		return types.StreamResult{}, errors.New(errors.ErrCodeStreamingUnsupported, "venue does not support streaming")
	}

	validate := validator.New()
	if err := validate.Struct(opts); err != nil {
		return types.StreamResult{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid stream options", err)
	}

	if opts.Limit <= 0 && opts.DurationMs <= 0 {
		return types.StreamResult{}, errors.New(errors.ErrCodeInvalidParameter, "stream requires a sample limit or a duration")
	}

	window := ctx
	cancel := context.CancelFunc(func() {})

	if opts.DurationMs > 0 {
		window, cancel = context.WithTimeout(ctx, time.Duration(opts.DurationMs)*time.Millisecond)
	}
	defer cancel()

	start := c.now()
	samples := make([]types.StreamSample, 0, max(opts.Limit, 0))
	reason := types.StreamStopClosed

	c.logger.Debug("stream opened",
		zap.String("symbol", symbol),
		zap.String("channel", string(opts.Channel)),
		zap.Int("limit", opts.Limit),
		zap.Int64("durationMs", opts.DurationMs),
	)

	for sample, err := range streamer.StreamMarket(window, symbol, opts) {
		if err != nil {
			if window.Err() != nil && ctx.Err() == nil {
				reason = types.StreamStopDuration

				break
			}

			return types.StreamResult{Samples: samples, Stats: Summarize(samples, c.now().Sub(start), reason)}, err
		}

		samples = append(samples, sample)

		if opts.Limit > 0 && len(samples) >= opts.Limit {
			reason = types.StreamStopLimit

			break
		}
	}

	if reason == types.StreamStopClosed {
		if err := ctx.Err(); err != nil {
			return types.StreamResult{Samples: samples, Stats: Summarize(samples, c.now().Sub(start), reason)}, errors.Wrap(errors.ErrCodeStreamFailed, "stream cancelled", err)
		}

		if window.Err() != nil {
			reason = types.StreamStopDuration
		}
	}

	result := types.StreamResult{
		Samples: samples,
		Stats:   Summarize(samples, c.now().Sub(start), reason),
	}

	c.logger.Debug("stream closed",
		zap.String("symbol", symbol),
		zap.Int("count", result.Stats.Count),
		zap.String("reason", string(reason)),
	)

	return result, nil
}

// Summarize computes window statistics over samples.
func Summarize(samples []types.StreamSample, elapsed time.Duration, reason types.StreamStopReason) types.StreamStats {
	stats := types.StreamStats{
		Count:      len(samples),
		ElapsedMs:  elapsed.Milliseconds(),
		StopReason: reason,
	}

	if len(samples) == 0 {
		return stats
	}

	stats.First = samples[0].Price
	stats.Last = samples[len(samples)-1].Price
	stats.High = math.Inf(-1)
	stats.Low = math.Inf(1)

	for _, s := range samples {
		stats.High = math.Max(stats.High, s.Price)
		stats.Low = math.Min(stats.Low, s.Price)
	}

	stats.Change = stats.Last - stats.First

	return stats
}
