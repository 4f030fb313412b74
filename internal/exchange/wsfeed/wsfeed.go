// Package wsfeed turns venue push channels into pull iterators.
//
// Venue clients expose subscriptions in the go-binance shape: a serve call
// taking a sample handler and an error handler and returning a done channel
// (closed when the connection ends) and a stop channel (closed by the caller
// to end it). Bridge adapts any such subscription to iter.Seq2 and guarantees
// the subscription is stopped on every exit path.
package wsfeed

import (
	"context"
	"iter"

	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// Handler receives one normalised sample.
type Handler func(sample types.StreamSample)

// ErrHandler receives a connection error. The subscription ends after it.
type ErrHandler func(err error)

// ServeFunc opens a subscription.
type ServeFunc func(handler Handler, errHandler ErrHandler) (doneC, stopC chan struct{}, err error)

const sampleBuffer = 64

// Bridge runs serve and yields its samples until the consumer stops, ctx is
// done, the connection ends or an error arrives. The subscription is always
// stopped and awaited before the iterator returns.
func Bridge(ctx context.Context, serve ServeFunc) iter.Seq2[types.StreamSample, error] {
	return func(yield func(types.StreamSample, error) bool) {
		quit := make(chan struct{})
		samples := make(chan types.StreamSample, sampleBuffer)
		errs := make(chan error, 1)

		handler := func(sample types.StreamSample) {
			select {
			case samples <- sample:
			case <-quit:
			}
		}

		errHandler := func(err error) {
			select {
			case errs <- err:
			default:
			}
		}

		doneC, stopC, err := serve(handler, errHandler)
		if err != nil {
			yield(types.StreamSample{}, errors.Wrap(errors.ErrCodeStreamFailed, "failed to open stream", err))

			return
		}

		defer func() {
			close(quit)
			close(stopC)
			<-doneC
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case sample := <-samples:
				if !yield(sample, nil) {
					return
				}
			case err := <-errs:
				yield(types.StreamSample{}, errors.Wrap(errors.ErrCodeStreamFailed, "stream error", err))

				return
			case <-doneC:
				drain(samples, yield)

				return
			}
		}
	}
}

func drain(samples chan types.StreamSample, yield func(types.StreamSample, error) bool) {
	for {
		select {
		case sample := <-samples:
			if !yield(sample, nil) {
				return
			}
		default:
			return
		}
	}
}
