package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange/wsfeed"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// DefaultStreamInterval is the kline interval used when none is given.
const DefaultStreamInterval = "1m"

// WebSocketService opens one push-channel subscription in the go-binance
// serve shape.
type WebSocketService interface {
	Serve(ctx context.Context, symbol string, opts types.StreamOptions, handler wsfeed.Handler, errHandler wsfeed.ErrHandler) (doneC, stopC chan struct{}, err error)
}

func streamInterval(opts types.StreamOptions) string {
	if opts.Interval == "" {
		return DefaultStreamInterval
	}

	return opts.Interval
}

// NewFuturesWebSocketService streams from the Binance futures websocket.
// Testnet streams are read with RawWebSocketService so the go-binance
// endpoint globals are never written.
func NewFuturesWebSocketService(testnet bool, log *logger.Logger) WebSocketService {
	if testnet {
		return &RawWebSocketService{URL: FuturesTestnetStreamURL, Decode: FuturesFrameDecoder, Logger: log}
	}

	return futuresWebSocketService{}
}

type futuresWebSocketService struct{}

func (futuresWebSocketService) Serve(_ context.Context, symbol string, opts types.StreamOptions, handler wsfeed.Handler, errHandler wsfeed.ErrHandler) (chan struct{}, chan struct{}, error) {
	onError := futures.ErrHandler(errHandler)

	switch opts.Channel {
	case types.StreamChannelTicker, "":
		return futures.WsBookTickerServe(symbol, func(event *futures.WsBookTickerEvent) {
			handler(FuturesBookTickerSample(event))
		}, onError)
	case types.StreamChannelKline:
		return futures.WsKlineServe(symbol, streamInterval(opts), func(event *futures.WsKlineEvent) {
			handler(FuturesKlineSample(event))
		}, onError)
	case types.StreamChannelTrade:
		return futures.WsAggTradeServe(symbol, func(event *futures.WsAggTradeEvent) {
			handler(FuturesAggTradeSample(event))
		}, onError)
	case types.StreamChannelMarkPrice:
		return futures.WsMarkPriceServe(symbol, func(event *futures.WsMarkPriceEvent) {
			handler(FuturesMarkPriceSample(event))
		}, onError)
	default:
		return nil, nil, errors.Newf(errors.ErrCodeStreamingUnsupported, "unsupported stream channel %q", opts.Channel)
	}
}

// NewSpotWebSocketService streams from the Binance spot websocket.
func NewSpotWebSocketService(testnet bool, log *logger.Logger) WebSocketService {
	if testnet {
		return &RawWebSocketService{URL: SpotTestnetStreamURL, Decode: SpotFrameDecoder, Logger: log}
	}

	return spotWebSocketService{}
}

type spotWebSocketService struct{}

func (spotWebSocketService) Serve(_ context.Context, symbol string, opts types.StreamOptions, handler wsfeed.Handler, errHandler wsfeed.ErrHandler) (chan struct{}, chan struct{}, error) {
	onError := binance.ErrHandler(errHandler)

	switch opts.Channel {
	case types.StreamChannelTicker, "":
		return binance.WsBookTickerServe(symbol, func(event *binance.WsBookTickerEvent) {
			handler(bookTickerSample(event.Symbol, event.BestBidPrice, event.BestAskPrice, time.Now()))
		}, onError)
	case types.StreamChannelKline:
		return binance.WsKlineServe(symbol, streamInterval(opts), func(event *binance.WsKlineEvent) {
			handler(klineSample(event.Symbol, event.Kline.Close, event.Kline.Volume, event.Time))
		}, onError)
	case types.StreamChannelTrade:
		return binance.WsAggTradeServe(symbol, func(event *binance.WsAggTradeEvent) {
			handler(tradeSample(event.Symbol, event.Price, event.Quantity, event.TradeTime))
		}, onError)
	default:
		return nil, nil, errors.Newf(errors.ErrCodeStreamingUnsupported, "unsupported stream channel %q", opts.Channel)
	}
}

// StreamName returns the raw stream name of a channel, e.g. btcusdt@bookTicker.
func StreamName(symbol string, opts types.StreamOptions) (string, error) {
	symbol = strings.ToLower(symbol)

	switch opts.Channel {
	case types.StreamChannelTicker, "":
		return symbol + "@bookTicker", nil
	case types.StreamChannelKline:
		return fmt.Sprintf("%s@kline_%s", symbol, streamInterval(opts)), nil
	case types.StreamChannelTrade:
		return symbol + "@aggTrade", nil
	case types.StreamChannelMarkPrice:
		return symbol + "@markPrice", nil
	default:
		return "", errors.Newf(errors.ErrCodeStreamingUnsupported, "unsupported stream channel %q", opts.Channel)
	}
}

// RawWebSocketService reads raw single-stream endpoints (URL/<stream>) with
// wsfeed. Binance testnets and Binance-compatible venues use it.
type RawWebSocketService struct {
	URL    string
	Decode func(channel types.StreamChannel) wsfeed.Decoder
	Logger *logger.Logger
}

// Serve dials URL/<stream>; ctx bounds the handshake.
func (s *RawWebSocketService) Serve(ctx context.Context, symbol string, opts types.StreamOptions, handler wsfeed.Handler, errHandler wsfeed.ErrHandler) (chan struct{}, chan struct{}, error) {
	stream, err := StreamName(symbol, opts)
	if err != nil {
		return nil, nil, err
	}

	feed := &wsfeed.Feed{
		URL:          strings.TrimSuffix(s.URL, "/") + "/" + stream,
		Subscribe:    nil,
		Decode:       s.Decode(opts.Channel),
		PingInterval: 0,
		PingMessage:  nil,
		Dialer:       nil,
		Header:       nil,
		Logger:       s.Logger,
	}

	return feed.Serve(ctx, handler, errHandler)
}

// FuturesBookTickerSample uses the mid price as the sample price.
func FuturesBookTickerSample(event *futures.WsBookTickerEvent) types.StreamSample {
	return bookTickerSample(event.Symbol, event.BestBidPrice, event.BestAskPrice, millis(event.Time))
}

// FuturesKlineSample uses the running close and volume of the bar.
func FuturesKlineSample(event *futures.WsKlineEvent) types.StreamSample {
	return klineSample(event.Symbol, event.Kline.Close, event.Kline.Volume, event.Time)
}

// FuturesAggTradeSample uses the trade price and size.
func FuturesAggTradeSample(event *futures.WsAggTradeEvent) types.StreamSample {
	return tradeSample(event.Symbol, event.Price, event.Quantity, event.TradeTime)
}

// FuturesMarkPriceSample uses the mark price.
func FuturesMarkPriceSample(event *futures.WsMarkPriceEvent) types.StreamSample {
	return types.StreamSample{
		EventTime: millis(event.Time),
		Channel:   types.StreamChannelMarkPrice,
		Symbol:    event.Symbol,
		Price:     parseFloat(event.MarkPrice),
		BestBid:   0,
		BestAsk:   0,
		Volume:    0,
	}
}

func bookTickerSample(symbol, bid, ask string, eventTime time.Time) types.StreamSample {
	bestBid := parseFloat(bid)
	bestAsk := parseFloat(ask)

	return types.StreamSample{
		EventTime: eventTime,
		Channel:   types.StreamChannelTicker,
		Symbol:    symbol,
		Price:     (bestBid + bestAsk) / 2,
		BestBid:   bestBid,
		BestAsk:   bestAsk,
		Volume:    0,
	}
}

func klineSample(symbol, closePrice, volume string, eventTime int64) types.StreamSample {
	return types.StreamSample{
		EventTime: millis(eventTime),
		Channel:   types.StreamChannelKline,
		Symbol:    symbol,
		Price:     parseFloat(closePrice),
		BestBid:   0,
		BestAsk:   0,
		Volume:    parseFloat(volume),
	}
}

func tradeSample(symbol, price, quantity string, eventTime int64) types.StreamSample {
	return types.StreamSample{
		EventTime: millis(eventTime),
		Channel:   types.StreamChannelTrade,
		Symbol:    symbol,
		Price:     parseFloat(price),
		BestBid:   0,
		BestAsk:   0,
		Volume:    parseFloat(quantity),
	}
}

// FuturesFrameDecoder decodes raw futures stream frames of one channel.
// Binance-compatible venues without a go-binance websocket client use it with
// wsfeed.Feed.
func FuturesFrameDecoder(channel types.StreamChannel) wsfeed.Decoder {
	return func(message []byte) ([]types.StreamSample, error) {
		switch channel {
		case types.StreamChannelTicker, "":
			event := new(futures.WsBookTickerEvent)
			if err := json.Unmarshal(message, event); err != nil {
				return nil, err
			}

			if event.Symbol == "" {
				return nil, nil
			}

			return []types.StreamSample{FuturesBookTickerSample(event)}, nil
		case types.StreamChannelKline:
			event := new(futures.WsKlineEvent)
			if err := json.Unmarshal(message, event); err != nil {
				return nil, err
			}

			if event.Symbol == "" {
				return nil, nil
			}

			return []types.StreamSample{FuturesKlineSample(event)}, nil
		case types.StreamChannelTrade:
			event := new(futures.WsAggTradeEvent)
			if err := json.Unmarshal(message, event); err != nil {
				return nil, err
			}

			if event.Symbol == "" {
				return nil, nil
			}

			return []types.StreamSample{FuturesAggTradeSample(event)}, nil
		case types.StreamChannelMarkPrice:
			event := new(futures.WsMarkPriceEvent)
			if err := json.Unmarshal(message, event); err != nil {
				return nil, err
			}

			if event.Symbol == "" {
				return nil, nil
			}

			return []types.StreamSample{FuturesMarkPriceSample(event)}, nil
		default:
			return nil, errors.Newf(errors.ErrCodeStreamingUnsupported, "unsupported stream channel %q", channel)
		}
	}
}

// SpotFrameDecoder decodes raw spot stream frames of one channel.
func SpotFrameDecoder(channel types.StreamChannel) wsfeed.Decoder {
	return func(message []byte) ([]types.StreamSample, error) {
		switch channel {
		case types.StreamChannelTicker, "":
			event := new(binance.WsBookTickerEvent)
			if err := json.Unmarshal(message, event); err != nil {
				return nil, err
			}

			if event.Symbol == "" {
				return nil, nil
			}

			return []types.StreamSample{bookTickerSample(event.Symbol, event.BestBidPrice, event.BestAskPrice, time.Now())}, nil
		case types.StreamChannelKline:
			event := new(binance.WsKlineEvent)
			if err := json.Unmarshal(message, event); err != nil {
				return nil, err
			}

			if event.Symbol == "" {
				return nil, nil
			}

			return []types.StreamSample{klineSample(event.Symbol, event.Kline.Close, event.Kline.Volume, event.Time)}, nil
		case types.StreamChannelTrade:
			event := new(binance.WsAggTradeEvent)
			if err := json.Unmarshal(message, event); err != nil {
				return nil, err
			}

			if event.Symbol == "" {
				return nil, nil
			}

			return []types.StreamSample{tradeSample(event.Symbol, event.Price, event.Quantity, event.TradeTime)}, nil
		default:
			return nil, errors.Newf(errors.ErrCodeStreamingUnsupported, "unsupported stream channel %q", channel)
		}
	}
}
