// Package okx implements the OKX swap and spot venues over the v5 REST API
// (resty) and the public websocket channels (wsfeed).
package okx

import (
	"context"
	"iter"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxCandleLimit is the largest page the candles endpoint returns.
const MaxCandleLimit = 300

func init() {
	exchange.Register(types.ProviderOKX, exchange.ProviderInfo{
		Name:               string(types.ProviderOKX),
		DisplayName:        "OKX",
		Description:        "OKX perpetual swaps and spot",
		Markets:            []types.Market{types.MarketSwap, types.MarketSpot},
		IsPaperTrading:     false,
		SupportsStreaming:  true,
		RequiresPassphrase: true,
	}, New)
}

// New builds the OKX adapter for cfg.Market.
func New(cfg types.ExchangeConfig, opts exchange.Options) (exchange.Exchange, error) {
	switch cfg.Market {
	case types.MarketSwap, types.MarketSpot:
	case "":
		cfg.Market = types.MarketSwap
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedMarket, "okx does not support market %s", cfg.Market)
	}

	client := NewClient(cfg.BaseURL, cfg.Credentials, cfg.Testnet, opts.Timeout())
	urls := PublicStreamURLs(cfg.Testnet)

	return NewExchange(cfg, client, urls, opts), nil
}

// Exchange is an OKX venue for one market.
type Exchange struct {
	cfg     types.ExchangeConfig
	client  *Client
	streams StreamURLs
	logger  *logger.Logger
}

// NewExchange builds the adapter around an existing client.
func NewExchange(cfg types.ExchangeConfig, client *Client, streams StreamURLs, opts exchange.Options) *Exchange {
	cfg.Provider = types.ProviderOKX

	return &Exchange{
		cfg:     cfg,
		client:  client,
		streams: streams,
		logger:  opts.Logger.Named("okx"),
	}
}

// InstrumentID converts BTCUSDT into BTC-USDT (spot) or BTC-USDT-SWAP (swap).
func InstrumentID(symbol string, market types.Market) string {
	base, quote := exchange.SplitSymbol(symbol)
	id := base + "-" + quote

	if market == types.MarketSwap {
		return id + "-SWAP"
	}

	return id
}

// Bar converts a Binance-style interval into an OKX bar: hours, days and
// weeks are upper case, minutes and months are unchanged.
func Bar(interval string) string {
	if interval == "" {
		return "1H"
	}

	switch unit := interval[len(interval)-1]; unit {
	case 'h', 'd', 'w':
		return interval[:len(interval)-1] + strings.ToUpper(string(unit))
	default:
		return interval
	}
}

func (e *Exchange) instID(symbol string) string {
	return InstrumentID(symbol, e.cfg.Market)
}

func (e *Exchange) instType() string {
	if e.cfg.Market == types.MarketSwap {
		return "SWAP"
	}

	return "SPOT"
}

// GetHistoricalCandles returns up to limit candles, oldest first.
func (e *Exchange) GetHistoricalCandles(ctx context.Context, symbol string, interval string, limit int) ([]types.Candle, error) {
	interval, limit = exchange.CandleQuery(interval, limit)
	limit = min(limit, MaxCandleLimit)

	var rows [][]string

	query := url.Values{}
	query.Set("instId", e.instID(symbol))
	query.Set("bar", Bar(interval))
	query.Set("limit", strconv.Itoa(limit))

	if err := e.client.Get(ctx, "/api/v5/market/candles", query, false, &rows); err != nil {
		return nil, err
	}

	candles := make([]types.Candle, 0, len(rows))

	for _, row := range rows {
		candle, err := convertCandle(row)
		if err != nil {
			return nil, err
		}

		candles = append(candles, candle)
	}

	// newest first on the wire
	slices.Reverse(candles)

	return candles, nil
}

type ticker struct {
	InstID string `json:"instId"`
	Last   string `json:"last"`
	BidPx  string `json:"bidPx"`
	AskPx  string `json:"askPx"`
	Ts     string `json:"ts"`
}

type markPrice struct {
	InstID string `json:"instId"`
	MarkPx string `json:"markPx"`
}

type fundingRate struct {
	InstID      string `json:"instId"`
	FundingRate string `json:"fundingRate"`
}

// GetMarketSnapshot fetches candles, ticker, and for swaps the mark price
// and funding rate, concurrently.
func (e *Exchange) GetMarketSnapshot(ctx context.Context, symbol string, interval string, limit int) (types.MarketSnapshot, error) {
	instID := e.instID(symbol)

	var (
		candles []types.Candle
		tickers []ticker
		marks   []markPrice
		rate    optional.Option[float64]
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		candles, err = e.GetHistoricalCandles(gctx, symbol, interval, limit)

		return err
	})

	g.Go(func() error {
		query := url.Values{}
		query.Set("instId", instID)

		return e.client.Get(gctx, "/api/v5/market/ticker", query, false, &tickers)
	})

	if e.cfg.Market == types.MarketSwap {
		g.Go(func() error {
			query := url.Values{}
			query.Set("instType", e.instType())
			query.Set("instId", instID)

			return e.client.Get(gctx, "/api/v5/public/mark-price", query, false, &marks)
		})

		g.Go(func() error {
			value, err := e.GetFundingRate(gctx, symbol)
			if err != nil {
				return err
			}

			rate = optional.Some(value)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.MarketSnapshot{}, err
	}

	snapshot := types.MarketSnapshot{
		Symbol:      strings.ToUpper(symbol),
		Price:       0,
		MarkPrice:   0,
		FundingRate: rate,
		Candles:     candles,
	}

	if len(tickers) > 0 {
		snapshot.Price = parseFloat(tickers[0].Last)
	}

	if len(marks) > 0 {
		snapshot.MarkPrice = parseFloat(marks[0].MarkPx)
	} else {
		snapshot.MarkPrice = snapshot.Price
	}

	if snapshot.Price == 0 && len(candles) > 0 {
		snapshot.Price = candles[len(candles)-1].Close
	}

	return snapshot, nil
}

// GetFundingRate returns the current funding rate of the swap.
func (e *Exchange) GetFundingRate(ctx context.Context, symbol string) (float64, error) {
	if e.cfg.Market != types.MarketSwap {
		return 0, errors.New(errors.ErrCodeUnsupportedMarket, "funding rate is only available for swaps")
	}

	var rates []fundingRate

	query := url.Values{}
	query.Set("instId", e.instID(symbol))

	if err := e.client.Get(ctx, "/api/v5/public/funding-rate", query, false, &rates); err != nil {
		return 0, err
	}

	if len(rates) == 0 {
		return 0, errors.Newf(errors.ErrCodeDataNotFound, "no funding rate for %s", symbol)
	}

	return parseFloat(rates[0].FundingRate), nil
}

type orderAck struct {
	OrdID   string `json:"ordId"`
	ClOrdID string `json:"clOrdId"`
	SCode   string `json:"sCode"`
	SMsg    string `json:"sMsg"`
	Ts      string `json:"ts"`
}

func (a orderAck) err(action string) error {
	if a.SCode == "" || a.SCode == "0" {
		return nil
	}

	code := errors.ErrCodeExchangeRejected

	switch a.SCode {
	case "51400", "51401", "51402":
		// filled, cancelled or otherwise final
		code = errors.ErrCodeOrderNotCancelable
	case "51603":
		code = errors.ErrCodeOrderNotFound
	}

	return errors.Newf(code, "okx rejected %s: %s (code %s)", action, a.SMsg, a.SCode)
}

// PlaceOrder submits an order. Swap quantities are converted to contracts
// floored to the lot size; spot market orders are sized in the base currency.
func (e *Exchange) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.OrderResult, error) {
	if err := req.Validate(); err != nil {
		return types.OrderResult{}, err
	}

	instID := e.instID(req.Symbol)
	quantity := req.Quantity
	size := strconv.FormatFloat(req.Quantity, 'f', -1, 64)

	if e.cfg.Market == types.MarketSwap {
		spec, err := e.GetContractSpec(ctx, req.Symbol)
		if err != nil {
			return types.OrderResult{}, err
		}

		contracts := spec.Contracts(req.Quantity)
		if !contracts.IsPositive() {
			return types.OrderResult{}, errors.Newf(errors.ErrCodeInvalidQuantity, "invalid quantity: %v %s is below one lot of %s contracts of %s", req.Quantity, req.Symbol, spec.LotSize, spec.Value)
		}

		quantity = spec.Base(contracts)
		size = contracts.String()
	}

	if req.Leverage > 0 && e.cfg.Market == types.MarketSwap {
		body := map[string]string{
			"instId":  instID,
			"lever":   strconv.Itoa(req.Leverage),
			"mgnMode": "cross",
		}
		if err := e.client.Post(ctx, "/api/v5/account/set-leverage", body, nil); err != nil {
			return types.OrderResult{}, err
		}
	}

	body := map[string]any{
		"instId":  instID,
		"tdMode":  e.tradeMode(),
		"side":    strings.ToLower(string(req.Side)),
		"ordType": orderType(req),
		"sz":      size,
	}

	if req.Type == types.OrderTypeLimit {
		body["px"] = strconv.FormatFloat(req.Price.TakeOr(0), 'f', -1, 64)
	}

	if req.ClientOrderID != "" {
		body["clOrdId"] = req.ClientOrderID
	}

	if e.cfg.Market == types.MarketSwap {
		if req.ReduceOnly {
			body["reduceOnly"] = true
		}

		if e.cfg.HedgeMode && req.PositionSide != "" {
			body["posSide"] = strings.ToLower(string(req.PositionSide))
		}
	} else if req.Type == types.OrderTypeMarket {
		body["tgtCcy"] = "base_ccy"
	}

	e.logger.Info("placing okx order",
		zap.String("instId", instID),
		zap.String("side", string(req.Side)),
		zap.Float64("quantity", quantity),
		zap.String("sz", size),
	)

	var acks []orderAck
	if err := e.client.Post(ctx, "/api/v5/trade/order", body, &acks); err != nil {
		return types.OrderResult{}, err
	}

	if len(acks) == 0 {
		return types.OrderResult{}, errors.New(errors.ErrCodeOrderFailed, "okx returned no order acknowledgement")
	}

	if err := acks[0].err("order"); err != nil {
		return types.OrderResult{}, err
	}

	order := types.Order{
		ID:               acks[0].OrdID,
		ClientOrderID:    acks[0].ClOrdID,
		Symbol:           strings.ToUpper(req.Symbol),
		Side:             req.Side,
		Type:             req.Type,
		PositionSide:     req.PositionSide,
		Quantity:         quantity,
		ExecutedQuantity: 0,
		Price:            req.Price.TakeOr(0),
		AvgPrice:         0,
		Status:           types.OrderStatusNew,
		ReduceOnly:       req.ReduceOnly,
		Timestamp:        parseMillis(acks[0].Ts),
		RealizedPnL:      0,
	}

	return types.OrderResult{Order: order, PaperState: nil}, nil
}

func (e *Exchange) tradeMode() string {
	if e.cfg.Market == types.MarketSwap {
		return "cross"
	}

	return "cash"
}

func orderType(req types.OrderRequest) string {
	if req.Type == types.OrderTypeMarket {
		return "market"
	}

	switch req.TimeInForce {
	case types.TimeInForceIOC:
		return "ioc"
	case types.TimeInForceFOK:
		return "fok"
	default:
		return "limit"
	}
}

type balanceDetail struct {
	Ccy      string `json:"ccy"`
	Eq       string `json:"eq"`
	CashBal  string `json:"cashBal"`
	AvailBal string `json:"availBal"`
	Upl      string `json:"upl"`
}

type balance struct {
	TotalEq string          `json:"totalEq"`
	Details []balanceDetail `json:"details"`
}

type position struct {
	InstID  string `json:"instId"`
	Pos     string `json:"pos"`
	PosSide string `json:"posSide"`
	AvgPx   string `json:"avgPx"`
	MarkPx  string `json:"markPx"`
	Upl     string `json:"upl"`
	Lever   string `json:"lever"`
}

// GetAccountSnapshot reads the quote currency balance and, for swaps, the
// open positions of the instrument in base units. Spot holdings are valued at the last
// price.
func (e *Exchange) GetAccountSnapshot(ctx context.Context, symbol string) (types.AccountSnapshot, error) {
	base, quote := exchange.SplitSymbol(symbol)
	instID := e.instID(symbol)

	var (
		balances  []balance
		positions []position
		tickers   []ticker
		spec      ContractSpec
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := url.Values{}
		query.Set("ccy", quote+","+base)

		return e.client.Get(gctx, "/api/v5/account/balance", query, true, &balances)
	})

	if e.cfg.Market == types.MarketSwap {
		g.Go(func() error {
			query := url.Values{}
			query.Set("instType", e.instType())
			query.Set("instId", instID)

			return e.client.Get(gctx, "/api/v5/account/positions", query, true, &positions)
		})

		g.Go(func() error {
			var err error
			spec, err = e.GetContractSpec(gctx, symbol)

			return err
		})
	} else {
		g.Go(func() error {
			query := url.Values{}
			query.Set("instId", instID)

			return e.client.Get(gctx, "/api/v5/market/ticker", query, false, &tickers)
		})
	}

	if err := g.Wait(); err != nil {
		return types.AccountSnapshot{}, err
	}

	snapshot := types.AccountSnapshot{
		Provider:         types.ProviderOKX,
		Market:           e.cfg.Market,
		Symbol:           strings.ToUpper(symbol),
		Balance:          0,
		Equity:           0,
		AvailableBalance: 0,
		UnrealizedPnL:    0,
		Positions:        []types.PositionSnapshot{},
		PaperState:       nil,
	}

	var holding float64

	for _, b := range balances {
		for _, d := range b.Details {
			switch d.Ccy {
			case quote:
				snapshot.Balance = parseFloat(d.CashBal)
				snapshot.AvailableBalance = parseFloat(d.AvailBal)
				snapshot.UnrealizedPnL = parseFloat(d.Upl)
			case base:
				holding = parseFloat(d.CashBal)
			}
		}
	}

	for _, p := range positions {
		contracts, err := decimal.NewFromString(p.Pos)
		if err != nil || contracts.IsZero() {
			continue
		}

		quantity := spec.Base(contracts)

		if p.PosSide == "short" && quantity > 0 {
			quantity = -quantity
		}

		snapshot.Positions = append(snapshot.Positions, types.PositionSnapshot{
			Symbol:        strings.ToUpper(symbol),
			Quantity:      quantity,
			EntryPrice:    parseFloat(p.AvgPx),
			MarkPrice:     parseFloat(p.MarkPx),
			UnrealizedPnL: parseFloat(p.Upl),
			Leverage:      parseFloat(p.Lever),
			Side:          types.SideOf(quantity),
		})
	}

	snapshot.Equity = snapshot.Balance + snapshot.UnrealizedPnL

	if e.cfg.Market == types.MarketSpot && holding > 0 {
		price := 0.0
		if len(tickers) > 0 {
			price = parseFloat(tickers[0].Last)
		}

		snapshot.Positions = append(snapshot.Positions, types.PositionSnapshot{
			Symbol:        strings.ToUpper(symbol),
			Quantity:      holding,
			EntryPrice:    0,
			MarkPrice:     price,
			UnrealizedPnL: 0,
			Leverage:      1,
			Side:          types.PositionTypeLong,
		})
		snapshot.Equity = snapshot.Balance + holding*price
	}

	return snapshot, nil
}

// CancelOrder cancels by venue order id or client order id.
func (e *Exchange) CancelOrder(ctx context.Context, req types.CancelRequest) (types.OrderResult, error) {
	if err := req.Validate(); err != nil {
		return types.OrderResult{}, err
	}

	body := map[string]string{"instId": e.instID(req.Symbol)}
	if req.OrderID != "" {
		body["ordId"] = req.OrderID
	}

	if req.ClientOrderID != "" {
		body["clOrdId"] = req.ClientOrderID
	}

	var acks []orderAck
	if err := e.client.Post(ctx, "/api/v5/trade/cancel-order", body, &acks); err != nil {
		return types.OrderResult{}, err
	}

	if len(acks) == 0 {
		return types.OrderResult{}, errors.New(errors.ErrCodeOrderNotFound, "okx returned no cancel acknowledgement")
	}

	if err := acks[0].err("cancel"); err != nil {
		return types.OrderResult{}, err
	}

	order := types.Order{
		ID:            acks[0].OrdID,
		ClientOrderID: acks[0].ClOrdID,
		Symbol:        strings.ToUpper(req.Symbol),
		Status:        types.OrderStatusCancelled,
		Timestamp:     parseMillis(acks[0].Ts),
	}

	return types.OrderResult{Order: order, PaperState: nil}, nil
}

// StreamMarket subscribes to one public channel of the instrument.
func (e *Exchange) StreamMarket(ctx context.Context, symbol string, opts types.StreamOptions) iter.Seq2[types.StreamSample, error] {
	feed, err := e.feed(symbol, opts)
	if err != nil {
		return func(yield func(types.StreamSample, error) bool) {
			yield(types.StreamSample{}, err)
		}
	}

	return feed.Stream(ctx)
}

func convertCandle(row []string) (types.Candle, error) {
	if len(row) < 6 {
		return types.Candle{}, errors.Newf(errors.ErrCodeInvalidMarketData, "okx candle has %d fields", len(row))
	}

	values := make([]float64, 5)

	for i := range values {
		parsed, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return types.Candle{}, errors.Wrapf(errors.ErrCodeInvalidMarketData, err, "invalid okx candle value %q", row[i+1])
		}

		values[i] = parsed
	}

	return types.Candle{
		OpenTime: parseMillis(row[0]),
		Open:     values[0],
		High:     values[1],
		Low:      values[2],
		Close:    values[3],
		Volume:   values[4],
	}, nil
}

func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}

	return parsed
}

func parseMillis(value string) time.Time {
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ms == 0 {
		return time.Time{}
	}

	return time.UnixMilli(ms)
}
