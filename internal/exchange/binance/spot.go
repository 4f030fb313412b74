package binance

import (
	"context"
	"iter"
	"net/http"
	"strconv"
	"strings"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange/wsfeed"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SpotAPI is the subset of the spot REST API the adapter uses.
type SpotAPI interface {
	Klines(ctx context.Context, symbol string, interval string, limit int) ([]*binance.Kline, error)
	Prices(ctx context.Context, symbol string) ([]*binance.SymbolPrice, error)
	CreateOrder(ctx context.Context, params OrderParams) (*binance.CreateOrderResponse, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64, clientOrderID string) (*binance.CancelOrderResponse, error)
	Account(ctx context.Context) (*binance.Account, error)
}

type spotClient struct {
	client *binance.Client
}

const (
	// SpotBaseURL is the spot REST endpoint.
	SpotBaseURL = "https://api.binance.com"
	// SpotTestnetBaseURL is the spot testnet REST endpoint.
	SpotTestnetBaseURL = "https://testnet.binance.vision"
	// SpotTestnetStreamURL is the spot testnet websocket endpoint.
	SpotTestnetStreamURL = "wss://stream.testnet.binance.vision/ws"
)

// NewSpotClient builds a SpotAPI with a per-client endpoint.
func NewSpotClient(creds types.Credentials, baseURL string, testnet bool, timeout time.Duration) SpotAPI {
	client := binance.NewClient(creds.APIKey, creds.SecretKey)
	client.HTTPClient = &http.Client{Timeout: timeout}

	switch {
	case baseURL != "":
		client.BaseURL = baseURL
	case testnet:
		client.BaseURL = SpotTestnetBaseURL
	default:
		client.BaseURL = SpotBaseURL
	}

	return &spotClient{client: client}
}

func (c *spotClient) Klines(ctx context.Context, symbol string, interval string, limit int) ([]*binance.Kline, error) {
	return c.client.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
}

func (c *spotClient) Prices(ctx context.Context, symbol string) ([]*binance.SymbolPrice, error) {
	return c.client.NewListPricesService().Symbol(symbol).Do(ctx)
}

func (c *spotClient) CreateOrder(ctx context.Context, params OrderParams) (*binance.CreateOrderResponse, error) {
	service := c.client.NewCreateOrderService().
		Symbol(params.Symbol).
		Side(binance.SideType(params.Side)).
		Type(binance.OrderType(params.Type)).
		Quantity(params.Quantity)

	if params.Price != "" {
		service = service.Price(params.Price)
	}

	if params.TimeInForce != "" {
		service = service.TimeInForce(binance.TimeInForceType(params.TimeInForce))
	}

	if params.ClientOrderID != "" {
		service = service.NewClientOrderID(params.ClientOrderID)
	}

	return service.Do(ctx)
}

func (c *spotClient) CancelOrder(ctx context.Context, symbol string, orderID int64, clientOrderID string) (*binance.CancelOrderResponse, error) {
	service := c.client.NewCancelOrderService().Symbol(symbol)
	if orderID != 0 {
		service = service.OrderID(orderID)
	}

	if clientOrderID != "" {
		service = service.OrigClientOrderID(clientOrderID)
	}

	return service.Do(ctx)
}

func (c *spotClient) Account(ctx context.Context) (*binance.Account, error) {
	return c.client.NewGetAccountService().Do(ctx)
}

// SpotExchange is the Binance spot venue. Spot has no leverage, no
// reduce-only and no mark price; the last price stands in for the mark.
type SpotExchange struct {
	cfg    types.ExchangeConfig
	api    SpotAPI
	ws     WebSocketService
	logger *logger.Logger
}

// NewSpotExchange builds the adapter; ws may be nil to disable streaming.
func NewSpotExchange(cfg types.ExchangeConfig, api SpotAPI, ws WebSocketService, opts exchange.Options) *SpotExchange {
	cfg.Market = types.MarketSpot

	return &SpotExchange{
		cfg:    cfg,
		api:    api,
		ws:     ws,
		logger: opts.Logger.Named("binance-spot"),
	}
}

// GetHistoricalCandles returns up to limit candles, oldest first.
func (e *SpotExchange) GetHistoricalCandles(ctx context.Context, symbol string, interval string, limit int) ([]types.Candle, error) {
	interval, limit = exchange.CandleQuery(interval, limit)

	klines, err := e.api.Klines(ctx, strings.ToUpper(symbol), interval, limit)
	if err != nil {
		return nil, venueError(err, "failed to fetch klines")
	}

	candles := make([]types.Candle, 0, len(klines))

	for _, k := range klines {
		candle, err := convertKline(k.OpenTime, k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, err
		}

		candles = append(candles, candle)
	}

	return candles, nil
}

// GetMarketSnapshot fetches candles and the last price concurrently.
func (e *SpotExchange) GetMarketSnapshot(ctx context.Context, symbol string, interval string, limit int) (types.MarketSnapshot, error) {
	symbol = strings.ToUpper(symbol)

	var (
		candles []types.Candle
		price   float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		candles, err = e.GetHistoricalCandles(gctx, symbol, interval, limit)

		return err
	})

	g.Go(func() error {
		var err error
		price, err = e.lastPrice(gctx, symbol)

		return err
	})

	if err := g.Wait(); err != nil {
		return types.MarketSnapshot{}, err
	}

	if price == 0 && len(candles) > 0 {
		price = candles[len(candles)-1].Close
	}

	return types.MarketSnapshot{
		Symbol:      symbol,
		Price:       price,
		MarkPrice:   price,
		FundingRate: optional.None[float64](),
		Candles:     candles,
	}, nil
}

func (e *SpotExchange) lastPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := e.api.Prices(ctx, symbol)
	if err != nil {
		return 0, venueError(err, "failed to fetch price")
	}

	for _, p := range prices {
		if p.Symbol == symbol {
			return parseFloat(p.Price), nil
		}
	}

	return 0, nil
}

// PlaceOrder submits a spot order. Leverage and reduce-only are ignored.
func (e *SpotExchange) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.OrderResult, error) {
	if err := requireCredentials(e.cfg); err != nil {
		return types.OrderResult{}, err
	}

	if err := req.Validate(); err != nil {
		return types.OrderResult{}, err
	}

	params := orderParams(req)

	e.logger.Info("placing spot order",
		zap.String("symbol", params.Symbol),
		zap.String("side", params.Side),
		zap.String("type", params.Type),
		zap.String("quantity", params.Quantity),
	)

	resp, err := e.api.CreateOrder(ctx, params)
	if err != nil {
		return types.OrderResult{}, venueError(err, "failed to place order")
	}

	executed := parseFloat(resp.ExecutedQuantity)

	avgPrice := 0.0
	if executed > 0 {
		avgPrice = parseFloat(resp.CummulativeQuoteQuantity) / executed
	}

	order := types.Order{
		ID:               strconv.FormatInt(resp.OrderID, 10),
		ClientOrderID:    resp.ClientOrderID,
		Symbol:           resp.Symbol,
		Side:             types.PurchaseType(resp.Side),
		Type:             types.OrderType(resp.Type),
		PositionSide:     "",
		Quantity:         parseFloat(resp.OrigQuantity),
		ExecutedQuantity: executed,
		Price:            parseFloat(resp.Price),
		AvgPrice:         avgPrice,
		Status:           mapOrderStatus(string(resp.Status)),
		ReduceOnly:       false,
		Timestamp:        millis(resp.TransactTime),
		RealizedPnL:      0,
	}

	return types.OrderResult{Order: order, PaperState: nil}, nil
}

// GetAccountSnapshot values the base asset holding at the last price and
// reports it as a long position next to the quote balance.
func (e *SpotExchange) GetAccountSnapshot(ctx context.Context, symbol string) (types.AccountSnapshot, error) {
	if err := requireCredentials(e.cfg); err != nil {
		return types.AccountSnapshot{}, err
	}

	symbol = strings.ToUpper(symbol)
	base, quote := exchange.SplitSymbol(symbol)

	var (
		account *binance.Account
		price   float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		account, err = e.api.Account(gctx)
		if err != nil {
			return venueError(err, "failed to fetch account")
		}

		return nil
	})

	g.Go(func() error {
		var err error
		price, err = e.lastPrice(gctx, symbol)

		return err
	})

	if err := g.Wait(); err != nil {
		return types.AccountSnapshot{}, err
	}

	snapshot := types.AccountSnapshot{
		Provider:         e.cfg.Provider,
		Market:           e.cfg.Market,
		Symbol:           symbol,
		Balance:          0,
		Equity:           0,
		AvailableBalance: 0,
		UnrealizedPnL:    0,
		Positions:        []types.PositionSnapshot{},
		PaperState:       nil,
	}

	var holding float64

	for _, b := range account.Balances {
		free := parseFloat(b.Free)
		locked := parseFloat(b.Locked)

		switch b.Asset {
		case quote:
			snapshot.Balance = free + locked
			snapshot.AvailableBalance = free
		case base:
			holding = free + locked
		}
	}

	if holding > 0 {
		snapshot.Positions = append(snapshot.Positions, types.PositionSnapshot{
			Symbol:        symbol,
			Quantity:      holding,
			EntryPrice:    0,
			MarkPrice:     price,
			UnrealizedPnL: 0,
			Leverage:      1,
			Side:          types.PositionTypeLong,
		})
	}

	snapshot.Equity = snapshot.Balance + holding*price

	return snapshot, nil
}

// CancelOrder cancels by venue order id or client order id.
func (e *SpotExchange) CancelOrder(ctx context.Context, req types.CancelRequest) (types.OrderResult, error) {
	if err := requireCredentials(e.cfg); err != nil {
		return types.OrderResult{}, err
	}

	if err := req.Validate(); err != nil {
		return types.OrderResult{}, err
	}

	orderID, err := parseOrderID(req.OrderID)
	if err != nil {
		return types.OrderResult{}, err
	}

	resp, err := e.api.CancelOrder(ctx, strings.ToUpper(req.Symbol), orderID, req.ClientOrderID)
	if err != nil {
		return types.OrderResult{}, venueError(err, "failed to cancel order")
	}

	order := types.Order{
		ID:               strconv.FormatInt(resp.OrderID, 10),
		ClientOrderID:    resp.OrigClientOrderID,
		Symbol:           resp.Symbol,
		Side:             types.PurchaseType(resp.Side),
		Type:             types.OrderType(resp.Type),
		PositionSide:     "",
		Quantity:         parseFloat(resp.OrigQuantity),
		ExecutedQuantity: parseFloat(resp.ExecutedQuantity),
		Price:            parseFloat(resp.Price),
		AvgPrice:         0,
		Status:           mapOrderStatus(string(resp.Status)),
		ReduceOnly:       false,
		Timestamp:        millis(resp.TransactTime),
		RealizedPnL:      0,
	}

	return types.OrderResult{Order: order, PaperState: nil}, nil
}

// StreamMarket subscribes to one push channel of symbol. The mark price
// channel only exists on futures.
func (e *SpotExchange) StreamMarket(ctx context.Context, symbol string, opts types.StreamOptions) iter.Seq2[types.StreamSample, error] {
	if e.ws == nil || opts.Channel == types.StreamChannelMarkPrice {
		return func(yield func(types.StreamSample, error) bool) {
			yield(types.StreamSample{}, errors.Newf(errors.ErrCodeStreamingUnsupported, "binance spot does not support the %q channel", opts.Channel))
		}
	}

	symbol = strings.ToUpper(symbol)

	return wsfeed.Bridge(ctx, func(handler wsfeed.Handler, errHandler wsfeed.ErrHandler) (chan struct{}, chan struct{}, error) {
		return e.ws.Serve(ctx, symbol, opts, handler, errHandler)
	})
}
