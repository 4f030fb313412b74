package binance

import (
	"context"
	"iter"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange/wsfeed"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FuturesAPI is the subset of the USD-M futures REST API the adapter uses.
type FuturesAPI interface {
	Klines(ctx context.Context, symbol string, interval string, limit int) ([]*futures.Kline, error)
	Prices(ctx context.Context, symbol string) ([]*futures.SymbolPrice, error)
	PremiumIndex(ctx context.Context, symbol string) ([]*futures.PremiumIndex, error)
	ChangeLeverage(ctx context.Context, symbol string, leverage int) error
	CreateOrder(ctx context.Context, params OrderParams) (*futures.CreateOrderResponse, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64, clientOrderID string) (*futures.CancelOrderResponse, error)
	Balances(ctx context.Context) ([]*futures.Balance, error)
	PositionRisk(ctx context.Context, symbol string) ([]*futures.PositionRisk, error)
}

// futuresClient wraps the go-binance futures client.
type futuresClient struct {
	client *futures.Client
}

const (
	// FuturesBaseURL is the USD-M futures REST endpoint.
	FuturesBaseURL = "https://fapi.binance.com"
	// FuturesTestnetBaseURL is the USD-M futures testnet REST endpoint.
	FuturesTestnetBaseURL = "https://testnet.binancefuture.com"
	// FuturesTestnetStreamURL is the USD-M futures testnet websocket endpoint.
	FuturesTestnetStreamURL = "wss://stream.binancefuture.com/ws"
)

// NewFuturesClient builds a FuturesAPI. baseURL, when set, overrides the
// production and testnet endpoints; Aster uses it. The endpoint is chosen per
// client.
func NewFuturesClient(creds types.Credentials, baseURL string, testnet bool, timeout time.Duration) FuturesAPI {
	client := futures.NewClient(creds.APIKey, creds.SecretKey)
	client.HTTPClient = &http.Client{Timeout: timeout}

	switch {
	case baseURL != "":
		client.BaseURL = baseURL
	case testnet:
		client.BaseURL = FuturesTestnetBaseURL
	default:
		client.BaseURL = FuturesBaseURL
	}

	return &futuresClient{client: client}
}

func (c *futuresClient) Klines(ctx context.Context, symbol string, interval string, limit int) ([]*futures.Kline, error) {
	return c.client.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
}

func (c *futuresClient) Prices(ctx context.Context, symbol string) ([]*futures.SymbolPrice, error) {
	return c.client.NewListPricesService().Symbol(symbol).Do(ctx)
}

func (c *futuresClient) PremiumIndex(ctx context.Context, symbol string) ([]*futures.PremiumIndex, error) {
	return c.client.NewPremiumIndexService().Symbol(symbol).Do(ctx)
}

func (c *futuresClient) ChangeLeverage(ctx context.Context, symbol string, leverage int) error {
	_, err := c.client.NewChangeLeverageService().Symbol(symbol).Leverage(leverage).Do(ctx)

	return err
}

func (c *futuresClient) CreateOrder(ctx context.Context, params OrderParams) (*futures.CreateOrderResponse, error) {
	service := c.client.NewCreateOrderService().
		Symbol(params.Symbol).
		Side(futures.SideType(params.Side)).
		Type(futures.OrderType(params.Type)).
		Quantity(params.Quantity)

	if params.Price != "" {
		service = service.Price(params.Price)
	}

	if params.TimeInForce != "" {
		service = service.TimeInForce(futures.TimeInForceType(params.TimeInForce))
	}

	if params.ClientOrderID != "" {
		service = service.NewClientOrderID(params.ClientOrderID)
	}

	if params.PositionSide != "" {
		service = service.PositionSide(futures.PositionSideType(params.PositionSide))
	}

	if params.ReduceOnly {
		service = service.ReduceOnly(true)
	}

	return service.Do(ctx)
}

func (c *futuresClient) CancelOrder(ctx context.Context, symbol string, orderID int64, clientOrderID string) (*futures.CancelOrderResponse, error) {
	service := c.client.NewCancelOrderService().Symbol(symbol)
	if orderID != 0 {
		service = service.OrderID(orderID)
	}

	if clientOrderID != "" {
		service = service.OrigClientOrderID(clientOrderID)
	}

	return service.Do(ctx)
}

func (c *futuresClient) Balances(ctx context.Context) ([]*futures.Balance, error) {
	return c.client.NewGetBalanceService().Do(ctx)
}

func (c *futuresClient) PositionRisk(ctx context.Context, symbol string) ([]*futures.PositionRisk, error) {
	return c.client.NewGetPositionRiskService().Symbol(symbol).Do(ctx)
}

// FuturesExchange is a perpetual futures venue speaking the Binance USD-M API.
type FuturesExchange struct {
	cfg    types.ExchangeConfig
	api    FuturesAPI
	ws     WebSocketService
	logger *logger.Logger
}

// NewFuturesExchange builds the adapter; ws may be nil to disable streaming.
func NewFuturesExchange(cfg types.ExchangeConfig, api FuturesAPI, ws WebSocketService, opts exchange.Options) *FuturesExchange {
	if cfg.Market == "" {
		cfg.Market = types.MarketFutures
	}

	return &FuturesExchange{
		cfg:    cfg,
		api:    api,
		ws:     ws,
		logger: opts.Logger.Named(string(cfg.Provider)),
	}
}

// GetHistoricalCandles returns up to limit candles, oldest first.
func (e *FuturesExchange) GetHistoricalCandles(ctx context.Context, symbol string, interval string, limit int) ([]types.Candle, error) {
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

// GetMarketSnapshot fetches candles, last price and premium index concurrently.
func (e *FuturesExchange) GetMarketSnapshot(ctx context.Context, symbol string, interval string, limit int) (types.MarketSnapshot, error) {
	symbol = strings.ToUpper(symbol)

	var (
		candles []types.Candle
		prices  []*futures.SymbolPrice
		premium []*futures.PremiumIndex
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		candles, err = e.GetHistoricalCandles(gctx, symbol, interval, limit)

		return err
	})

	g.Go(func() error {
		var err error

		prices, err = e.api.Prices(gctx, symbol)
		if err != nil {
			return venueError(err, "failed to fetch price")
		}

		return nil
	})

	g.Go(func() error {
		var err error

		premium, err = e.api.PremiumIndex(gctx, symbol)
		if err != nil {
			return venueError(err, "failed to fetch premium index")
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return types.MarketSnapshot{}, err
	}

	snapshot := types.MarketSnapshot{
		Symbol:      symbol,
		Price:       0,
		MarkPrice:   0,
		FundingRate: optional.None[float64](),
		Candles:     candles,
	}

	if len(prices) > 0 {
		snapshot.Price = parseFloat(prices[0].Price)
	}

	if len(premium) > 0 {
		snapshot.MarkPrice = parseFloat(premium[0].MarkPrice)
		snapshot.FundingRate = optional.Some(parseFloat(premium[0].LastFundingRate))
	}

	if snapshot.Price == 0 && len(candles) > 0 {
		snapshot.Price = candles[len(candles)-1].Close
	}

	return snapshot, nil
}

// GetFundingRate returns the last funding rate of the perpetual.
func (e *FuturesExchange) GetFundingRate(ctx context.Context, symbol string) (float64, error) {
	premium, err := e.api.PremiumIndex(ctx, strings.ToUpper(symbol))
	if err != nil {
		return 0, venueError(err, "failed to fetch funding rate")
	}

	if len(premium) == 0 {
		return 0, errors.Newf(errors.ErrCodeDataNotFound, "no premium index for %s", symbol)
	}

	return parseFloat(premium[0].LastFundingRate), nil
}

// PlaceOrder sets leverage when requested and submits the order.
func (e *FuturesExchange) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.OrderResult, error) {
	if err := requireCredentials(e.cfg); err != nil {
		return types.OrderResult{}, err
	}

	if err := req.Validate(); err != nil {
		return types.OrderResult{}, err
	}

	params := orderParams(req)
	params.ReduceOnly = req.ReduceOnly

	if e.cfg.HedgeMode && req.PositionSide != "" {
		params.PositionSide = string(req.PositionSide)
	}

	if req.Leverage > 0 {
		if err := e.api.ChangeLeverage(ctx, params.Symbol, req.Leverage); err != nil {
			return types.OrderResult{}, venueError(err, "failed to set leverage")
		}
	}

	e.logger.Info("placing futures order",
		zap.String("symbol", params.Symbol),
		zap.String("side", params.Side),
		zap.String("type", params.Type),
		zap.String("quantity", params.Quantity),
	)

	resp, err := e.api.CreateOrder(ctx, params)
	if err != nil {
		return types.OrderResult{}, venueError(err, "failed to place order")
	}

	order := types.Order{
		ID:               strconv.FormatInt(resp.OrderID, 10),
		ClientOrderID:    resp.ClientOrderID,
		Symbol:           resp.Symbol,
		Side:             types.PurchaseType(resp.Side),
		Type:             types.OrderType(resp.Type),
		PositionSide:     req.PositionSide,
		Quantity:         parseFloat(resp.OrigQuantity),
		ExecutedQuantity: parseFloat(resp.ExecutedQuantity),
		Price:            parseFloat(resp.Price),
		AvgPrice:         parseFloat(resp.AvgPrice),
		Status:           mapOrderStatus(string(resp.Status)),
		ReduceOnly:       resp.ReduceOnly,
		Timestamp:        millis(resp.UpdateTime),
		RealizedPnL:      0,
	}

	return types.OrderResult{Order: order, PaperState: nil}, nil
}

// GetAccountSnapshot reads the wallet in the symbol's quote asset and the
// open positions of the symbol.
func (e *FuturesExchange) GetAccountSnapshot(ctx context.Context, symbol string) (types.AccountSnapshot, error) {
	if err := requireCredentials(e.cfg); err != nil {
		return types.AccountSnapshot{}, err
	}

	symbol = strings.ToUpper(symbol)
	_, quote := exchange.SplitSymbol(symbol)

	var (
		balances  []*futures.Balance
		positions []*futures.PositionRisk
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		balances, err = e.api.Balances(gctx)
		if err != nil {
			return venueError(err, "failed to fetch balance")
		}

		return nil
	})

	g.Go(func() error {
		var err error

		positions, err = e.api.PositionRisk(gctx, symbol)
		if err != nil {
			return venueError(err, "failed to fetch positions")
		}

		return nil
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

	for _, b := range balances {
		if b.Asset != quote {
			continue
		}

		snapshot.Balance = parseFloat(b.Balance)
		snapshot.AvailableBalance = parseFloat(b.AvailableBalance)
		snapshot.UnrealizedPnL = parseFloat(b.CrossUnPnl)
	}

	for _, p := range positions {
		quantity := parseFloat(p.PositionAmt)
		if quantity == 0 {
			continue
		}

		snapshot.Positions = append(snapshot.Positions, types.PositionSnapshot{
			Symbol:        p.Symbol,
			Quantity:      quantity,
			EntryPrice:    parseFloat(p.EntryPrice),
			MarkPrice:     parseFloat(p.MarkPrice),
			UnrealizedPnL: parseFloat(p.UnRealizedProfit),
			Leverage:      parseFloat(p.Leverage),
			Side:          types.SideOf(quantity),
		})
	}

	snapshot.Equity = snapshot.Balance + snapshot.UnrealizedPnL

	return snapshot, nil
}

// CancelOrder cancels by venue order id or client order id.
func (e *FuturesExchange) CancelOrder(ctx context.Context, req types.CancelRequest) (types.OrderResult, error) {
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
		ClientOrderID:    resp.ClientOrderID,
		Symbol:           resp.Symbol,
		Side:             types.PurchaseType(resp.Side),
		Type:             types.OrderType(resp.Type),
		PositionSide:     "",
		Quantity:         parseFloat(resp.OrigQuantity),
		ExecutedQuantity: parseFloat(resp.ExecutedQuantity),
		Price:            parseFloat(resp.Price),
		AvgPrice:         0,
		Status:           mapOrderStatus(string(resp.Status)),
		ReduceOnly:       resp.ReduceOnly,
		Timestamp:        millis(resp.UpdateTime),
		RealizedPnL:      0,
	}

	return types.OrderResult{Order: order, PaperState: nil}, nil
}

// StreamMarket subscribes to one push channel of symbol.
func (e *FuturesExchange) StreamMarket(ctx context.Context, symbol string, opts types.StreamOptions) iter.Seq2[types.StreamSample, error] {
	if e.ws == nil {
		return func(yield func(types.StreamSample, error) bool) {
			yield(types.StreamSample{}, errors.Newf(errors.ErrCodeStreamingUnsupported, "%s does not support streaming", e.cfg.Provider))
		}
	}

	symbol = strings.ToUpper(symbol)

	return wsfeed.Bridge(ctx, func(handler wsfeed.Handler, errHandler wsfeed.ErrHandler) (chan struct{}, chan struct{}, error) {
		return e.ws.Serve(ctx, symbol, opts, handler, errHandler)
	})
}

func convertKline(openTime int64, open, high, low, closePrice, volume string) (types.Candle, error) {
	values := make([]float64, 0, 5)

	for _, field := range []struct{ name, value string }{
		{"open", open}, {"high", high}, {"low", low}, {"close", closePrice}, {"volume", volume},
	} {
		parsed, err := parseRequired(field.name, field.value)
		if err != nil {
			return types.Candle{}, err
		}

		values = append(values, parsed)
	}

	return types.Candle{
		OpenTime: time.UnixMilli(openTime),
		Open:     values[0],
		High:     values[1],
		Low:      values[2],
		Close:    values[3],
		Volume:   values[4],
	}, nil
}
