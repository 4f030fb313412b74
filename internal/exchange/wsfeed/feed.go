package wsfeed

import (
	"context"
	"iter"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"go.uber.org/zap"
)

// Decoder turns one frame into zero or more samples. Acknowledgements and
// heartbeats decode to nothing. An error carrying ErrCodeStreamFailed ends
// the subscription; any other error drops the frame.
type Decoder func(message []byte) ([]types.StreamSample, error)

// Feed is a single websocket subscription over gorilla/websocket.
type Feed struct {
	URL string
	// Subscribe is written once after the handshake, if set.
	Subscribe any
	Decode    Decoder
	// PingInterval sends text pings when positive; OKX expects "ping".
	PingInterval time.Duration
	PingMessage  []byte
	Dialer       *websocket.Dialer
	Header       http.Header
	Logger       *logger.Logger
}

// DefaultHandshakeTimeout bounds the websocket handshake.
const DefaultHandshakeTimeout = 10 * time.Second

// Stream yields decoded samples until the consumer stops or ctx is done.
func (f *Feed) Stream(ctx context.Context) iter.Seq2[types.StreamSample, error] {
	return Bridge(ctx, func(handler Handler, errHandler ErrHandler) (chan struct{}, chan struct{}, error) {
		return f.Serve(ctx, handler, errHandler)
	})
}

// Serve dials the feed and reads it on a goroutine. Closing stopC closes the
// connection; doneC is closed once the reader has exited.
func (f *Feed) Serve(ctx context.Context, handler Handler, errHandler ErrHandler) (doneC, stopC chan struct{}, err error) {
	dialer := f.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: DefaultHandshakeTimeout,
		}
	}

	log := f.Logger.Named("wsfeed")

	conn, _, err := dialer.DialContext(ctx, f.URL, f.Header)
	if err != nil {
		return nil, nil, err
	}

	if f.Subscribe != nil {
		if err := conn.WriteJSON(f.Subscribe); err != nil {
			conn.Close()

			return nil, nil, err
		}
	}

	doneC = make(chan struct{})
	stopC = make(chan struct{})

	var stopped atomic.Bool

	go func() {
		<-stopC
		stopped.Store(true)
		conn.Close()
	}()

	if f.PingInterval > 0 {
		go func() {
			ticker := time.NewTicker(f.PingInterval)
			defer ticker.Stop()

			for {
				select {
				case <-doneC:
					return
				case <-ticker.C:
					if err := conn.WriteMessage(websocket.TextMessage, f.PingMessage); err != nil {
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(doneC)

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if !stopped.Load() && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					errHandler(err)
				}

				return
			}

			samples, err := f.Decode(message)
			if errors.HasCode(err, errors.ErrCodeStreamFailed) {
				errHandler(err)

				return
			}

			if err != nil {
				log.Debug("dropping undecodable frame", zap.Error(err))

				continue
			}

			for _, sample := range samples {
				handler(sample)
			}
		}
	}()

	return doneC, stopC, nil
}
