package okx

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-orchestrator/internal/exchange/wsfeed"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// PingInterval keeps the socket alive; OKX drops connections idle for 30s.
const PingInterval = 25 * time.Second

// StreamURLs holds the public and business websocket endpoints. Candles are
// served on the business endpoint.
type StreamURLs struct {
	Public   string
	Business string
}

// PublicStreamURLs returns the production or demo endpoints.
func PublicStreamURLs(demo bool) StreamURLs {
	if demo {
		return StreamURLs{
			Public:   "wss://wspap.okx.com:8443/ws/v5/public",
			Business: "wss://wspap.okx.com:8443/ws/v5/business",
		}
	}

	return StreamURLs{
		Public:   "wss://ws.okx.com:8443/ws/v5/public",
		Business: "wss://ws.okx.com:8443/ws/v5/business",
	}
}

type subscribeArg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

type subscribeRequest struct {
	Op   string         `json:"op"`
	Args []subscribeArg `json:"args"`
}

// ChannelName maps a stream channel to the OKX channel name.
func ChannelName(opts types.StreamOptions) (string, error) {
	switch opts.Channel {
	case types.StreamChannelTicker, "":
		return "tickers", nil
	case types.StreamChannelKline:
		interval := opts.Interval
		if interval == "" {
			interval = "1m"
		}

		return "candle" + Bar(interval), nil
	case types.StreamChannelTrade:
		return "trades", nil
	case types.StreamChannelMarkPrice:
		return "mark-price", nil
	default:
		return "", errors.Newf(errors.ErrCodeStreamingUnsupported, "unsupported stream channel %q", opts.Channel)
	}
}

func (e *Exchange) feed(symbol string, opts types.StreamOptions) (*wsfeed.Feed, error) {
	if opts.Channel == types.StreamChannelMarkPrice && e.cfg.Market != types.MarketSwap {
		return nil, errors.New(errors.ErrCodeStreamingUnsupported, "okx spot does not publish mark prices")
	}

	channel, err := ChannelName(opts)
	if err != nil {
		return nil, err
	}

	endpoint := e.streams.Public
	if strings.HasPrefix(channel, "candle") {
		endpoint = e.streams.Business
	}

	return &wsfeed.Feed{
		URL: endpoint,
		Subscribe: subscribeRequest{
			Op:   "subscribe",
			Args: []subscribeArg{{Channel: channel, InstID: e.instID(symbol)}},
		},
		Decode:       Decoder(strings.ToUpper(symbol), opts.Channel),
		PingInterval: PingInterval,
		PingMessage:  []byte("ping"),
		Dialer:       nil,
		Header:       nil,
		Logger:       e.logger,
	}, nil
}

type pushFrame struct {
	Event string          `json:"event"`
	Code  string          `json:"code"`
	Msg   string          `json:"msg"`
	Data  json.RawMessage `json:"data"`
}

type tradeData struct {
	Px string `json:"px"`
	Sz string `json:"sz"`
	Ts string `json:"ts"`
}

type markData struct {
	MarkPx string `json:"markPx"`
	Ts     string `json:"ts"`
}

// Decoder decodes OKX push frames into samples labelled with symbol.
// Subscription errors end the stream.
func Decoder(symbol string, channel types.StreamChannel) wsfeed.Decoder {
	if channel == "" {
		channel = types.StreamChannelTicker
	}

	return func(message []byte) ([]types.StreamSample, error) {
		if bytes.Equal(message, []byte("pong")) {
			return nil, nil
		}

		var frame pushFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			return nil, err
		}

		if frame.Event == "error" {
			return nil, errors.Newf(errors.ErrCodeStreamFailed, "okx subscription failed: %s (code %s)", frame.Msg, frame.Code)
		}

		if frame.Event != "" || len(frame.Data) == 0 {
			return nil, nil
		}

		switch channel {
		case types.StreamChannelTicker:
			var rows []ticker
			if err := json.Unmarshal(frame.Data, &rows); err != nil {
				return nil, err
			}

			samples := make([]types.StreamSample, 0, len(rows))
			for _, row := range rows {
				samples = append(samples, types.StreamSample{
					EventTime: parseMillis(row.Ts),
					Channel:   channel,
					Symbol:    symbol,
					Price:     parseFloat(row.Last),
					BestBid:   parseFloat(row.BidPx),
					BestAsk:   parseFloat(row.AskPx),
					Volume:    0,
				})
			}

			return samples, nil
		case types.StreamChannelKline:
			var rows [][]string
			if err := json.Unmarshal(frame.Data, &rows); err != nil {
				return nil, err
			}

			samples := make([]types.StreamSample, 0, len(rows))
			for _, row := range rows {
				candle, err := convertCandle(row)
				if err != nil {
					return nil, err
				}

				samples = append(samples, types.StreamSample{
					EventTime: candle.OpenTime,
					Channel:   channel,
					Symbol:    symbol,
					Price:     candle.Close,
					BestBid:   0,
					BestAsk:   0,
					Volume:    candle.Volume,
				})
			}

			return samples, nil
		case types.StreamChannelTrade:
			var rows []tradeData
			if err := json.Unmarshal(frame.Data, &rows); err != nil {
				return nil, err
			}

			samples := make([]types.StreamSample, 0, len(rows))
			for _, row := range rows {
				samples = append(samples, types.StreamSample{
					EventTime: parseMillis(row.Ts),
					Channel:   channel,
					Symbol:    symbol,
					Price:     parseFloat(row.Px),
					BestBid:   0,
					BestAsk:   0,
					Volume:    parseFloat(row.Sz),
				})
			}

			return samples, nil
		case types.StreamChannelMarkPrice:
			var rows []markData
			if err := json.Unmarshal(frame.Data, &rows); err != nil {
				return nil, err
			}

			samples := make([]types.StreamSample, 0, len(rows))
			for _, row := range rows {
				samples = append(samples, types.StreamSample{
					EventTime: parseMillis(row.Ts),
					Channel:   channel,
					Symbol:    symbol,
					Price:     parseFloat(row.MarkPx),
					BestBid:   0,
					BestAsk:   0,
					Volume:    0,
				})
			}

			return samples, nil
		default:
			return nil, errors.Newf(errors.ErrCodeStreamingUnsupported, "unsupported stream channel %q", channel)
		}
	}
}
