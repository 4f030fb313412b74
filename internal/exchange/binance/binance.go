// Package binance implements the Binance futures and spot venues on top of
// github.com/adshao/go-binance/v2. The REST clients sit behind small
// interfaces so the adapters can be tested without the network.
package binance

import (
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

func init() {
	exchange.Register(types.ProviderBinance, exchange.ProviderInfo{
		Name:               string(types.ProviderBinance),
		DisplayName:        "Binance",
		Description:        "Binance USD-M futures and spot",
		Markets:            []types.Market{types.MarketFutures, types.MarketSpot},
		IsPaperTrading:     false,
		SupportsStreaming:  true,
		RequiresPassphrase: false,
	}, New)
}

// New builds the adapter for cfg.Market.
func New(cfg types.ExchangeConfig, opts exchange.Options) (exchange.Exchange, error) {
	switch cfg.Market {
	case types.MarketFutures, "":
		api := NewFuturesClient(cfg.Credentials, cfg.BaseURL, cfg.Testnet, opts.Timeout())

		return NewFuturesExchange(cfg, api, NewFuturesWebSocketService(cfg.Testnet, opts.Logger), opts), nil
	case types.MarketSpot:
		api := NewSpotClient(cfg.Credentials, cfg.BaseURL, cfg.Testnet, opts.Timeout())

		return NewSpotExchange(cfg, api, NewSpotWebSocketService(cfg.Testnet, opts.Logger), opts), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedMarket, "binance does not support market %s", cfg.Market)
	}
}

// OrderParams is the venue-neutral order payload handed to the REST clients.
// Empty strings are not sent.
type OrderParams struct {
	Symbol        string
	Side          string
	Type          string
	Quantity      string
	Price         string
	TimeInForce   string
	ClientOrderID string
	PositionSide  string
	ReduceOnly    bool
}

func requireCredentials(cfg types.ExchangeConfig) error {
	if cfg.Credentials.APIKey == "" || cfg.Credentials.SecretKey == "" {
		return errors.Newf(errors.ErrCodeMissingCredentials, "missing %s credentials", cfg.Provider)
	}

	return nil
}

// venueError separates venue rejections from transport failures.
func venueError(err error, message string) error {
	if common.IsAPIError(err) {
		return errors.Wrap(errors.ErrCodeExchangeRejected, message, err)
	}

	return errors.Wrap(errors.ErrCodeExchangeRequestFailed, message, err)
}

func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}

	return parsed
}

func parseRequired(field string, value string) (float64, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidMarketData, err, "invalid %s %q", field, value)
	}

	return parsed, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func mapOrderStatus(status string) types.OrderStatus {
	switch status {
	case "NEW", "PENDING_NEW":
		return types.OrderStatusNew
	case "PARTIALLY_FILLED":
		return types.OrderStatusPartiallyFilled
	case "FILLED":
		return types.OrderStatusFilled
	case "CANCELED", "PENDING_CANCEL":
		return types.OrderStatusCancelled
	case "REJECTED":
		return types.OrderStatusRejected
	case "EXPIRED", "EXPIRED_IN_MATCH":
		return types.OrderStatusExpired
	default:
		return types.OrderStatus(status)
	}
}

func orderParams(req types.OrderRequest) OrderParams {
	params := OrderParams{
		Symbol:        strings.ToUpper(req.Symbol),
		Side:          string(req.Side),
		Type:          string(req.Type),
		Quantity:      formatFloat(req.Quantity),
		Price:         "",
		TimeInForce:   "",
		ClientOrderID: req.ClientOrderID,
		PositionSide:  "",
		ReduceOnly:    false,
	}

	if req.Type == types.OrderTypeLimit {
		params.Price = formatFloat(req.Price.TakeOr(0))

		params.TimeInForce = string(req.TimeInForce)
		if params.TimeInForce == "" {
			params.TimeInForce = string(types.TimeInForceGTC)
		}
	}

	return params
}

func parseOrderID(orderID string) (int64, error) {
	if orderID == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid order id %q", orderID)
	}

	return id, nil
}

func millis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}

	return time.UnixMilli(ms)
}
