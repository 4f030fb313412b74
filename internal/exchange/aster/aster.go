// Package aster implements the Aster perpetual venue. Aster speaks the
// Binance USD-M futures REST dialect, so the binance futures adapter is reused
// with Aster endpoints; the push channels are read with wsfeed.
package aster

import (
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange/binance"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

const (
	// DefaultBaseURL is the Aster futures REST endpoint.
	DefaultBaseURL = "https://fapi.asterdex.com"
	// DefaultStreamURL is the Aster futures websocket endpoint.
	DefaultStreamURL = "wss://fstream.asterdex.com/ws"
)

func init() {
	exchange.Register(types.ProviderAster, exchange.ProviderInfo{
		Name:               string(types.ProviderAster),
		DisplayName:        "Aster",
		Description:        "Aster perpetual futures (Binance-compatible API)",
		Markets:            []types.Market{types.MarketFutures},
		IsPaperTrading:     false,
		SupportsStreaming:  true,
		RequiresPassphrase: false,
	}, New)
}

// New builds the Aster adapter.
func New(cfg types.ExchangeConfig, opts exchange.Options) (exchange.Exchange, error) {
	if cfg.Market != "" && cfg.Market != types.MarketFutures {
		return nil, errors.Newf(errors.ErrCodeUnsupportedMarket, "aster does not support market %s", cfg.Market)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg.Provider = types.ProviderAster
	cfg.Market = types.MarketFutures

	api := binance.NewFuturesClient(cfg.Credentials, baseURL, false, opts.Timeout())
	ws := NewWebSocketService(DefaultStreamURL, opts.Logger)

	return binance.NewFuturesExchange(cfg, api, ws, opts), nil
}

// NewWebSocketService reads Aster push channels from url.
func NewWebSocketService(url string, log *logger.Logger) *binance.RawWebSocketService {
	return &binance.RawWebSocketService{URL: url, Decode: binance.FuturesFrameDecoder, Logger: log}
}
