package aster

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange/binance"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type AsterTestSuite struct {
	suite.Suite
}

func TestAsterSuite(t *testing.T) {
	suite.Run(t, new(AsterTestSuite))
}

func (suite *AsterTestSuite) TestRegistered() {
	info, err := exchange.GetProviderInfo("aster")
	suite.Require().NoError(err)
	suite.Equal([]types.Market{types.MarketFutures}, info.Markets)
	suite.True(info.SupportsStreaming)
}

func (suite *AsterTestSuite) TestNew() {
	ex, err := exchange.New(types.ExchangeConfig{Provider: types.ProviderAster}, exchange.Options{})
	suite.Require().NoError(err)
	suite.IsType(&binance.FuturesExchange{}, ex)

	_, err = exchange.New(types.ExchangeConfig{Provider: types.ProviderAster, Market: types.MarketSpot}, exchange.Options{})
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedMarket))
}

func (suite *AsterTestSuite) TestServeHonoursContextDuringHandshake() {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	suite.Require().NoError(err)
	defer listener.Close()

	// accept connections and never answer the upgrade
	go func() {
		var held []net.Conn
		defer func() {
			for _, conn := range held {
				conn.Close()
			}
		}()

		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			held = append(held, conn)
		}
	}()

	ws := NewWebSocketService("ws://"+listener.Addr().String()+"/ws", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err = ws.Serve(ctx, "BTCUSDT", types.StreamOptions{}, func(types.StreamSample) {}, func(error) {})
	suite.Error(err)
	suite.Less(time.Since(start), 5*time.Second)
}

func (suite *AsterTestSuite) TestHistoricalCandlesOverREST() {
	var requestedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		suite.Equal("ETHUSDT", r.URL.Query().Get("symbol"))
		suite.Equal("15m", r.URL.Query().Get("interval"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[1704067200000,"2000.0","2010.0","1990.0","2005.5","12.5",1704068099999,"25000.0",10,"6.0","12000.0","0"],
			[1704068100000,"2005.5","2020.0","2000.0","2015.0","8.0",1704068999999,"16000.0",8,"4.0","8000.0","0"]
		]`))
	}))
	defer server.Close()

	ex, err := New(types.ExchangeConfig{Provider: types.ProviderAster, BaseURL: server.URL}, exchange.Options{})
	suite.Require().NoError(err)

	candles, err := ex.GetHistoricalCandles(context.Background(), "ethusdt", "15m", 2)
	suite.Require().NoError(err)
	suite.Contains(requestedPath, "klines")
	suite.Require().Len(candles, 2)
	suite.Equal(2005.5, candles[0].Close)
	suite.Equal(2015.0, candles[1].Close)
	suite.Equal(time.UnixMilli(1704067200000), candles[0].OpenTime)
}

func (suite *AsterTestSuite) TestStreamOverWebSocket() {
	upgrader := websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}
	paths := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		frames := []string{
			`{"e":"markPriceUpdate","E":1704067200000,"s":"BTCUSDT","p":"42000.5","r":"0.0001","T":1704096000000}`,
			`{"e":"markPriceUpdate","E":1704067201000,"s":"BTCUSDT","p":"42001.0","r":"0.0001","T":1704096000000}`,
		}
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	api := binance.NewFuturesClient(types.Credentials{}, server.URL, false, time.Second)
	ws := NewWebSocketService("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	ex := binance.NewFuturesExchange(types.ExchangeConfig{Provider: types.ProviderAster}, api, ws, exchange.Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var prices []float64

	for sample, err := range ex.StreamMarket(ctx, "BTCUSDT", types.StreamOptions{Channel: types.StreamChannelMarkPrice}) {
		suite.Require().NoError(err)
		prices = append(prices, sample.Price)

		if len(prices) == 2 {
			break
		}
	}

	suite.Equal([]float64{42000.5, 42001.0}, prices)
	suite.Equal("/ws/btcusdt@markPrice", <-paths)
}
