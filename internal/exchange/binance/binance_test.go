package binance

import (
	"context"
	"fmt"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange/wsfeed"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockFuturesAPI implements FuturesAPI for testing
type mockFuturesAPI struct {
	klines        []*futures.Kline
	prices        []*futures.SymbolPrice
	premium       []*futures.PremiumIndex
	balances      []*futures.Balance
	positions     []*futures.PositionRisk
	orderResponse *futures.CreateOrderResponse
	cancelResp    *futures.CancelOrderResponse
	err           error
	orderErr      error

	leverage      int
	orderParams   OrderParams
	cancelOrderID int64
	cancelClient  string
}

func (m *mockFuturesAPI) Klines(_ context.Context, _ string, _ string, _ int) ([]*futures.Kline, error) {
	return m.klines, m.err
}

func (m *mockFuturesAPI) Prices(_ context.Context, _ string) ([]*futures.SymbolPrice, error) {
	return m.prices, m.err
}

func (m *mockFuturesAPI) PremiumIndex(_ context.Context, _ string) ([]*futures.PremiumIndex, error) {
	return m.premium, m.err
}

func (m *mockFuturesAPI) ChangeLeverage(_ context.Context, _ string, leverage int) error {
	m.leverage = leverage

	return m.err
}

func (m *mockFuturesAPI) CreateOrder(_ context.Context, params OrderParams) (*futures.CreateOrderResponse, error) {
	m.orderParams = params

	return m.orderResponse, m.orderErr
}

func (m *mockFuturesAPI) CancelOrder(_ context.Context, _ string, orderID int64, clientOrderID string) (*futures.CancelOrderResponse, error) {
	m.cancelOrderID = orderID
	m.cancelClient = clientOrderID

	return m.cancelResp, m.err
}

func (m *mockFuturesAPI) Balances(_ context.Context) ([]*futures.Balance, error) {
	return m.balances, m.err
}

func (m *mockFuturesAPI) PositionRisk(_ context.Context, _ string) ([]*futures.PositionRisk, error) {
	return m.positions, m.err
}

// mockSpotAPI implements SpotAPI for testing
type mockSpotAPI struct {
	klines        []*binance.Kline
	prices        []*binance.SymbolPrice
	account       *binance.Account
	orderResponse *binance.CreateOrderResponse
	err           error
	orderParams   OrderParams
}

func (m *mockSpotAPI) Klines(_ context.Context, _ string, _ string, _ int) ([]*binance.Kline, error) {
	return m.klines, m.err
}

func (m *mockSpotAPI) Prices(_ context.Context, _ string) ([]*binance.SymbolPrice, error) {
	return m.prices, m.err
}

func (m *mockSpotAPI) CreateOrder(_ context.Context, params OrderParams) (*binance.CreateOrderResponse, error) {
	m.orderParams = params

	return m.orderResponse, m.err
}

func (m *mockSpotAPI) CancelOrder(_ context.Context, _ string, _ int64, _ string) (*binance.CancelOrderResponse, error) {
	return nil, m.err
}

func (m *mockSpotAPI) Account(_ context.Context) (*binance.Account, error) {
	return m.account, m.err
}

// mockWebSocketService emits samples and waits for stop
type mockWebSocketService struct {
	samples []types.StreamSample
	opts    types.StreamOptions
	symbol  string
}

func (m *mockWebSocketService) Serve(_ context.Context, symbol string, opts types.StreamOptions, handler wsfeed.Handler, _ wsfeed.ErrHandler) (chan struct{}, chan struct{}, error) {
	m.symbol = symbol
	m.opts = opts

	doneC := make(chan struct{})
	stopC := make(chan struct{})

	go func() {
		defer close(doneC)

		for _, s := range m.samples {
			handler(s)
		}

		select {
		case <-stopC:
		case <-time.After(5 * time.Second):
		}
	}()

	return doneC, stopC, nil
}

func futuresKlines(closes ...string) []*futures.Kline {
	klines := make([]*futures.Kline, 0, len(closes))
	for i, c := range closes {
		klines = append(klines, &futures.Kline{
			OpenTime: 1704067200000 + int64(i)*60000,
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			Volume:   "10",
		})
	}

	return klines
}

func credentialed(market types.Market) types.ExchangeConfig {
	return types.ExchangeConfig{
		Provider:    types.ProviderBinance,
		Market:      market,
		Credentials: types.Credentials{APIKey: "key", SecretKey: "secret"},
	}
}

type BinanceTestSuite struct {
	suite.Suite
}

func TestBinanceSuite(t *testing.T) {
	suite.Run(t, new(BinanceTestSuite))
}

func (suite *BinanceTestSuite) TestRegistered() {
	info, err := exchange.GetProviderInfo("binance")
	suite.Require().NoError(err)
	suite.Equal([]types.Market{types.MarketFutures, types.MarketSpot}, info.Markets)
	suite.True(info.SupportsStreaming)
	suite.False(info.IsPaperTrading)
}

func (suite *BinanceTestSuite) TestNewUnsupportedMarket() {
	_, err := exchange.New(types.ExchangeConfig{Provider: types.ProviderBinance, Market: types.MarketSwap}, exchange.Options{})
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedMarket))
}

func (suite *BinanceTestSuite) TestNewBuildsAdapters() {
	ex, err := exchange.New(types.ExchangeConfig{Provider: types.ProviderBinance}, exchange.Options{})
	suite.Require().NoError(err)
	suite.IsType(&FuturesExchange{}, ex)

	_, ok := exchange.AsFundingRater(ex)
	suite.True(ok)

	ex, err = exchange.New(types.ExchangeConfig{Provider: types.ProviderBinance, Market: types.MarketSpot}, exchange.Options{})
	suite.Require().NoError(err)
	suite.IsType(&SpotExchange{}, ex)

	_, ok = exchange.AsStreamer(ex)
	suite.True(ok)
}

func (suite *BinanceTestSuite) TestFuturesMarketSnapshot() {
	api := &mockFuturesAPI{
		klines:  futuresKlines("100", "101", "102"),
		prices:  []*futures.SymbolPrice{{Symbol: "BTCUSDT", Price: "102.5"}},
		premium: []*futures.PremiumIndex{{Symbol: "BTCUSDT", MarkPrice: "102.4", LastFundingRate: "0.0001"}},
	}
	ex := NewFuturesExchange(credentialed(types.MarketFutures), api, nil, exchange.Options{})

	snapshot, err := ex.GetMarketSnapshot(context.Background(), "btcusdt", "1h", 3)
	suite.Require().NoError(err)
	suite.Equal("BTCUSDT", snapshot.Symbol)
	suite.Equal(102.5, snapshot.Price)
	suite.Equal(102.4, snapshot.MarkPrice)
	suite.True(snapshot.FundingRate.IsSome())
	suite.InDelta(0.0001, snapshot.FundingRate.Unwrap(), 1e-12)
	suite.Len(snapshot.Candles, 3)
	suite.Equal(102.0, snapshot.Candles[2].Close)
	suite.Equal(time.UnixMilli(1704067200000), snapshot.Candles[0].OpenTime)
}

func (suite *BinanceTestSuite) TestFuturesMarketSnapshotFailure() {
	api := &mockFuturesAPI{err: fmt.Errorf("connection refused")}
	ex := NewFuturesExchange(credentialed(types.MarketFutures), api, nil, exchange.Options{})

	_, err := ex.GetMarketSnapshot(context.Background(), "BTCUSDT", "1h", 3)
	suite.True(errors.HasCode(err, errors.ErrCodeExchangeRequestFailed))
}

func (suite *BinanceTestSuite) TestFuturesInvalidKline() {
	klines := futuresKlines("100")
	klines[0].Close = "not-a-number"
	ex := NewFuturesExchange(credentialed(types.MarketFutures), &mockFuturesAPI{klines: klines}, nil, exchange.Options{})

	_, err := ex.GetHistoricalCandles(context.Background(), "BTCUSDT", "", 0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidMarketData))
}

func (suite *BinanceTestSuite) TestFuturesFundingRate() {
	api := &mockFuturesAPI{premium: []*futures.PremiumIndex{{LastFundingRate: "-0.0002"}}}
	ex := NewFuturesExchange(credentialed(types.MarketFutures), api, nil, exchange.Options{})

	rate, err := ex.GetFundingRate(context.Background(), "BTCUSDT")
	suite.Require().NoError(err)
	suite.InDelta(-0.0002, rate, 1e-12)

	api.premium = nil
	_, err = ex.GetFundingRate(context.Background(), "BTCUSDT")
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *BinanceTestSuite) TestFuturesPlaceOrder() {
	suite.Run("requires credentials", func() {
		ex := NewFuturesExchange(types.ExchangeConfig{Provider: types.ProviderBinance}, &mockFuturesAPI{}, nil, exchange.Options{})

		_, err := ex.PlaceOrder(context.Background(), types.OrderRequest{
			Symbol: "BTCUSDT", Side: types.PurchaseTypeBuy, Type: types.OrderTypeMarket, Quantity: 1,
		})
		suite.True(errors.HasCode(err, errors.ErrCodeMissingCredentials))
	})

	suite.Run("market order with leverage", func() {
		api := &mockFuturesAPI{orderResponse: &futures.CreateOrderResponse{
			Symbol:           "BTCUSDT",
			OrderID:          42,
			ClientOrderID:    "cid-1",
			OrigQuantity:     "0.5",
			ExecutedQuantity: "0.5",
			Price:            "0",
			AvgPrice:         "100.5",
			Status:           futures.OrderStatusTypeFilled,
			Side:             futures.SideTypeBuy,
			Type:             futures.OrderTypeMarket,
			UpdateTime:       1704067200000,
		}}
		ex := NewFuturesExchange(credentialed(types.MarketFutures), api, nil, exchange.Options{})

		result, err := ex.PlaceOrder(context.Background(), types.OrderRequest{
			Symbol:        "btcusdt",
			Side:          types.PurchaseTypeBuy,
			Type:          types.OrderTypeMarket,
			Quantity:      0.5,
			Leverage:      5,
			PositionSide:  types.PositionTypeLong,
			ClientOrderID: "cid-1",
		})
		suite.Require().NoError(err)
		suite.Equal(5, api.leverage)
		suite.Equal("BTCUSDT", api.orderParams.Symbol)
		suite.Equal("0.5", api.orderParams.Quantity)
		suite.Empty(api.orderParams.PositionSide)
		suite.Empty(api.orderParams.Price)
		suite.Equal("42", result.Order.ID)
		suite.Equal(types.OrderStatusFilled, result.Order.Status)
		suite.Equal(100.5, result.Order.EntryPrice())
		suite.Nil(result.PaperState)
	})

	suite.Run("limit order in hedge mode", func() {
		api := &mockFuturesAPI{orderResponse: &futures.CreateOrderResponse{OrderID: 7, Status: futures.OrderStatusTypeNew}}
		cfg := credentialed(types.MarketFutures)
		cfg.HedgeMode = true
		ex := NewFuturesExchange(cfg, api, nil, exchange.Options{})

		result, err := ex.PlaceOrder(context.Background(), types.OrderRequest{
			Symbol:       "BTCUSDT",
			Side:         types.PurchaseTypeSell,
			Type:         types.OrderTypeLimit,
			Quantity:     1,
			Price:        optional.Some(99.5),
			PositionSide: types.PositionTypeShort,
			ReduceOnly:   true,
		})
		suite.Require().NoError(err)
		suite.Equal("99.5", api.orderParams.Price)
		suite.Equal("GTC", api.orderParams.TimeInForce)
		suite.Equal("SHORT", api.orderParams.PositionSide)
		suite.True(api.orderParams.ReduceOnly)
		suite.Zero(api.leverage)
		suite.Equal(types.OrderStatusNew, result.Order.Status)
	})

	suite.Run("venue rejection", func() {
		api := &mockFuturesAPI{orderErr: &common.APIError{Code: -2019, Message: "Margin is insufficient."}}
		ex := NewFuturesExchange(credentialed(types.MarketFutures), api, nil, exchange.Options{})

		_, err := ex.PlaceOrder(context.Background(), types.OrderRequest{
			Symbol: "BTCUSDT", Side: types.PurchaseTypeBuy, Type: types.OrderTypeMarket, Quantity: 1,
		})
		suite.True(errors.HasCode(err, errors.ErrCodeExchangeRejected))
		suite.Contains(err.Error(), "Margin is insufficient")
	})

	suite.Run("network failure", func() {
		api := &mockFuturesAPI{orderErr: fmt.Errorf("i/o timeout")}
		ex := NewFuturesExchange(credentialed(types.MarketFutures), api, nil, exchange.Options{})

		_, err := ex.PlaceOrder(context.Background(), types.OrderRequest{
			Symbol: "BTCUSDT", Side: types.PurchaseTypeBuy, Type: types.OrderTypeMarket, Quantity: 1,
		})
		suite.True(errors.HasCode(err, errors.ErrCodeExchangeRequestFailed))
	})
}

func (suite *BinanceTestSuite) TestFuturesAccountSnapshot() {
	api := &mockFuturesAPI{
		balances: []*futures.Balance{
			{Asset: "BNB", Balance: "1"},
			{Asset: "USDT", Balance: "1000", AvailableBalance: "800", CrossUnPnl: "25"},
		},
		positions: []*futures.PositionRisk{
			{Symbol: "BTCUSDT", PositionAmt: "-0.1", EntryPrice: "50000", MarkPrice: "49750", UnRealizedProfit: "25", Leverage: "10"},
			{Symbol: "BTCUSDT", PositionAmt: "0"},
		},
	}
	ex := NewFuturesExchange(credentialed(types.MarketFutures), api, nil, exchange.Options{})

	snapshot, err := ex.GetAccountSnapshot(context.Background(), "BTCUSDT")
	suite.Require().NoError(err)
	suite.Equal(types.ProviderBinance, snapshot.Provider)
	suite.Equal(types.MarketFutures, snapshot.Market)
	suite.Equal(1000.0, snapshot.Balance)
	suite.Equal(800.0, snapshot.AvailableBalance)
	suite.Equal(1025.0, snapshot.Equity)
	suite.Require().Len(snapshot.Positions, 1)
	suite.Equal(-0.1, snapshot.Positions[0].Quantity)
	suite.Equal(types.PositionTypeShort, snapshot.Positions[0].Side)
	suite.Equal(10.0, snapshot.Positions[0].Leverage)
}

func (suite *BinanceTestSuite) TestFuturesCancelOrder() {
	api := &mockFuturesAPI{cancelResp: &futures.CancelOrderResponse{
		OrderID: 42, Symbol: "BTCUSDT", Status: futures.OrderStatusTypeCanceled, OrigQuantity: "1",
	}}
	ex := NewFuturesExchange(credentialed(types.MarketFutures), api, nil, exchange.Options{})

	result, err := ex.CancelOrder(context.Background(), types.CancelRequest{Symbol: "BTCUSDT", OrderID: "42"})
	suite.Require().NoError(err)
	suite.Equal(int64(42), api.cancelOrderID)
	suite.Equal(types.OrderStatusCancelled, result.Order.Status)

	_, err = ex.CancelOrder(context.Background(), types.CancelRequest{Symbol: "BTCUSDT", OrderID: "abc"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = ex.CancelOrder(context.Background(), types.CancelRequest{Symbol: "BTCUSDT"})
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = ex.CancelOrder(context.Background(), types.CancelRequest{Symbol: "BTCUSDT", ClientOrderID: "cid-9"})
	suite.Require().NoError(err)
	suite.Equal("cid-9", api.cancelClient)
}

func (suite *BinanceTestSuite) TestFuturesStream() {
	ws := &mockWebSocketService{samples: []types.StreamSample{
		{Symbol: "BTCUSDT", Price: 1},
		{Symbol: "BTCUSDT", Price: 2},
	}}
	ex := NewFuturesExchange(credentialed(types.MarketFutures), &mockFuturesAPI{}, ws, exchange.Options{})

	var prices []float64

	opts := types.StreamOptions{Channel: types.StreamChannelMarkPrice, Limit: 2}
	for sample, err := range ex.StreamMarket(context.Background(), "btcusdt", opts) {
		suite.Require().NoError(err)
		prices = append(prices, sample.Price)

		if len(prices) == 2 {
			break
		}
	}

	suite.Equal([]float64{1, 2}, prices)
	suite.Equal("BTCUSDT", ws.symbol)
	suite.Equal(types.StreamChannelMarkPrice, ws.opts.Channel)
}

func (suite *BinanceTestSuite) TestStreamWithoutWebSocket() {
	ex := NewFuturesExchange(credentialed(types.MarketFutures), &mockFuturesAPI{}, nil, exchange.Options{})

	for _, err := range ex.StreamMarket(context.Background(), "BTCUSDT", types.StreamOptions{}) {
		suite.True(errors.HasCode(err, errors.ErrCodeStreamingUnsupported))
	}
}

func (suite *BinanceTestSuite) TestSpotMarketSnapshot() {
	api := &mockSpotAPI{
		klines: []*binance.Kline{{OpenTime: 1, Open: "1", High: "2", Low: "0.5", Close: "1.5", Volume: "100"}},
		prices: []*binance.SymbolPrice{{Symbol: "ETHUSDT", Price: "1.6"}},
	}
	ex := NewSpotExchange(credentialed(types.MarketSpot), api, nil, exchange.Options{})

	snapshot, err := ex.GetMarketSnapshot(context.Background(), "ethusdt", "1m", 1)
	suite.Require().NoError(err)
	suite.Equal(1.6, snapshot.Price)
	suite.Equal(1.6, snapshot.MarkPrice)
	suite.True(snapshot.FundingRate.IsNone())
	suite.Len(snapshot.Candles, 1)
}

func (suite *BinanceTestSuite) TestSpotPlaceOrder() {
	api := &mockSpotAPI{orderResponse: &binance.CreateOrderResponse{
		Symbol:                   "ETHUSDT",
		OrderID:                  9,
		OrigQuantity:             "2",
		ExecutedQuantity:         "2",
		CummulativeQuoteQuantity: "3000",
		Status:                   binance.OrderStatusTypeFilled,
		Side:                     binance.SideTypeBuy,
		Type:                     binance.OrderTypeMarket,
		TransactTime:             1704067200000,
	}}
	ex := NewSpotExchange(credentialed(types.MarketSpot), api, nil, exchange.Options{})

	result, err := ex.PlaceOrder(context.Background(), types.OrderRequest{
		Symbol: "ETHUSDT", Side: types.PurchaseTypeBuy, Type: types.OrderTypeMarket, Quantity: 2, Leverage: 3, ReduceOnly: true,
	})
	suite.Require().NoError(err)
	suite.False(api.orderParams.ReduceOnly)
	suite.Equal(1500.0, result.Order.AvgPrice)
	suite.Equal("9", result.Order.ID)
	suite.Equal(time.UnixMilli(1704067200000), result.Order.Timestamp)
}

func (suite *BinanceTestSuite) TestSpotAccountSnapshot() {
	api := &mockSpotAPI{
		prices: []*binance.SymbolPrice{{Symbol: "ETHUSDT", Price: "2000"}},
		account: &binance.Account{Balances: []binance.Balance{
			{Asset: "USDT", Free: "500", Locked: "100"},
			{Asset: "ETH", Free: "0.5", Locked: "0"},
		}},
	}
	ex := NewSpotExchange(credentialed(types.MarketSpot), api, nil, exchange.Options{})

	snapshot, err := ex.GetAccountSnapshot(context.Background(), "ETHUSDT")
	suite.Require().NoError(err)
	suite.Equal(600.0, snapshot.Balance)
	suite.Equal(500.0, snapshot.AvailableBalance)
	suite.Equal(1600.0, snapshot.Equity)
	suite.Require().Len(snapshot.Positions, 1)
	suite.Equal(0.5, snapshot.Positions[0].Quantity)
	suite.Equal(2000.0, snapshot.Positions[0].MarkPrice)
}

func (suite *BinanceTestSuite) TestSpotRejectsMarkPriceChannel() {
	ex := NewSpotExchange(credentialed(types.MarketSpot), &mockSpotAPI{}, &mockWebSocketService{}, exchange.Options{})

	for _, err := range ex.StreamMarket(context.Background(), "ETHUSDT", types.StreamOptions{Channel: types.StreamChannelMarkPrice}) {
		suite.True(errors.HasCode(err, errors.ErrCodeStreamingUnsupported))
	}
}

func (suite *BinanceTestSuite) TestFuturesFrameDecoder() {
	suite.Run("book ticker", func() {
		samples, err := FuturesFrameDecoder(types.StreamChannelTicker)(
			[]byte(`{"e":"bookTicker","u":1,"E":1704067200000,"T":1704067200000,"s":"BTCUSDT","b":"100","B":"1","a":"102","A":"1"}`))
		suite.Require().NoError(err)
		suite.Require().Len(samples, 1)
		suite.Equal(101.0, samples[0].Price)
		suite.Equal(100.0, samples[0].BestBid)
		suite.Equal(102.0, samples[0].BestAsk)
	})

	suite.Run("kline", func() {
		samples, err := FuturesFrameDecoder(types.StreamChannelKline)(
			[]byte(`{"e":"kline","E":1704067200000,"s":"BTCUSDT","k":{"t":1,"T":2,"s":"BTCUSDT","i":"1m","o":"1","c":"105","h":"106","l":"99","v":"12.5","x":false}}`))
		suite.Require().NoError(err)
		suite.Require().Len(samples, 1)
		suite.Equal(105.0, samples[0].Price)
		suite.Equal(12.5, samples[0].Volume)
	})

	suite.Run("agg trade", func() {
		samples, err := FuturesFrameDecoder(types.StreamChannelTrade)(
			[]byte(`{"e":"aggTrade","E":1,"s":"BTCUSDT","a":1,"p":"99.5","q":"0.2","f":1,"l":1,"T":1704067200000,"m":true}`))
		suite.Require().NoError(err)
		suite.Require().Len(samples, 1)
		suite.Equal(99.5, samples[0].Price)
		suite.Equal(0.2, samples[0].Volume)
	})

	suite.Run("mark price", func() {
		samples, err := FuturesFrameDecoder(types.StreamChannelMarkPrice)(
			[]byte(`{"e":"markPriceUpdate","E":1704067200000,"s":"BTCUSDT","p":"100.25","i":"100","P":"100","r":"0.0001","T":1}`))
		suite.Require().NoError(err)
		suite.Require().Len(samples, 1)
		suite.Equal(100.25, samples[0].Price)
		suite.Equal(types.StreamChannelMarkPrice, samples[0].Channel)
	})

	suite.Run("acknowledgement", func() {
		samples, err := FuturesFrameDecoder(types.StreamChannelTicker)([]byte(`{"result":null,"id":1}`))
		suite.Require().NoError(err)
		suite.Empty(samples)
	})
}

func (suite *BinanceTestSuite) TestStreamName() {
	tests := []struct {
		name     string
		opts     types.StreamOptions
		expected string
	}{
		{"default", types.StreamOptions{}, "btcusdt@bookTicker"},
		{"kline default interval", types.StreamOptions{Channel: types.StreamChannelKline}, "btcusdt@kline_1m"},
		{"kline", types.StreamOptions{Channel: types.StreamChannelKline, Interval: "5m"}, "btcusdt@kline_5m"},
		{"trade", types.StreamOptions{Channel: types.StreamChannelTrade}, "btcusdt@aggTrade"},
		{"mark price", types.StreamOptions{Channel: types.StreamChannelMarkPrice}, "btcusdt@markPrice"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			name, err := StreamName("BTCUSDT", tt.opts)
			suite.Require().NoError(err)
			suite.Equal(tt.expected, name)
		})
	}

	_, err := StreamName("BTCUSDT", types.StreamOptions{Channel: "depth"})
	suite.True(errors.HasCode(err, errors.ErrCodeStreamingUnsupported))
}

func (suite *BinanceTestSuite) TestTestnetEndpointsArePerClient() {
	testnetFutures, ok := NewFuturesClient(types.Credentials{}, "", true, time.Second).(*futuresClient)
	suite.Require().True(ok)
	mainnetFutures, ok := NewFuturesClient(types.Credentials{}, "", false, time.Second).(*futuresClient)
	suite.Require().True(ok)

	suite.Equal(FuturesTestnetBaseURL, testnetFutures.client.BaseURL)
	suite.Equal(FuturesBaseURL, mainnetFutures.client.BaseURL)
	suite.False(futures.UseTestnet)

	testnetSpot, ok := NewSpotClient(types.Credentials{}, "", true, time.Second).(*spotClient)
	suite.Require().True(ok)
	mainnetSpot, ok := NewSpotClient(types.Credentials{}, "", false, time.Second).(*spotClient)
	suite.Require().True(ok)

	suite.Equal(SpotTestnetBaseURL, testnetSpot.client.BaseURL)
	suite.Equal(SpotBaseURL, mainnetSpot.client.BaseURL)
	suite.False(binance.UseTestnet)

	override, ok := NewFuturesClient(types.Credentials{}, "http://localhost:1", true, time.Second).(*futuresClient)
	suite.Require().True(ok)
	suite.Equal("http://localhost:1", override.client.BaseURL)
}

func (suite *BinanceTestSuite) TestTestnetWebSocketServices() {
	ws, ok := NewFuturesWebSocketService(true, nil).(*RawWebSocketService)
	suite.Require().True(ok)
	suite.Equal(FuturesTestnetStreamURL, ws.URL)
	suite.IsType(futuresWebSocketService{}, NewFuturesWebSocketService(false, nil))

	spot, ok := NewSpotWebSocketService(true, nil).(*RawWebSocketService)
	suite.Require().True(ok)
	suite.Equal(SpotTestnetStreamURL, spot.URL)
	suite.IsType(spotWebSocketService{}, NewSpotWebSocketService(false, nil))

	suite.False(futures.UseTestnet)
	suite.False(binance.UseTestnet)
}

func (suite *BinanceTestSuite) TestSpotFrameDecoder() {
	samples, err := SpotFrameDecoder(types.StreamChannelTrade)([]byte(`{"e":"aggTrade","E":1704067200000,"s":"ETHUSDT","a":1,"p":"2000.5","q":"0.3","f":1,"l":1,"T":1704067200000,"m":false}`))
	suite.Require().NoError(err)
	suite.Require().Len(samples, 1)
	suite.Equal(2000.5, samples[0].Price)
	suite.Equal(0.3, samples[0].Volume)
	suite.Equal(types.StreamChannelTrade, samples[0].Channel)

	samples, err = SpotFrameDecoder(types.StreamChannelTicker)([]byte(`{"u":1,"s":"ETHUSDT","b":"99","B":"1","a":"101","A":"1"}`))
	suite.Require().NoError(err)
	suite.Require().Len(samples, 1)
	suite.Equal(100.0, samples[0].Price)

	samples, err = SpotFrameDecoder(types.StreamChannelKline)([]byte(`{"result":null,"id":1}`))
	suite.Require().NoError(err)
	suite.Empty(samples)

	_, err = SpotFrameDecoder(types.StreamChannelMarkPrice)([]byte(`{}`))
	suite.True(errors.HasCode(err, errors.ErrCodeStreamingUnsupported))
}
