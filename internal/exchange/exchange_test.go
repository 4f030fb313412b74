package exchange

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/stretchr/testify/suite"
)

const (
	fakeProvider  types.Provider = "fake-venue"
	fakeSimulator types.Provider = "fake-simulator"
)

type fakeExchange struct {
	cfg types.ExchangeConfig
}

func (f *fakeExchange) GetMarketSnapshot(_ context.Context, symbol string, _ string, _ int) (types.MarketSnapshot, error) {
	return types.MarketSnapshot{Symbol: symbol}, nil
}

func (f *fakeExchange) GetHistoricalCandles(_ context.Context, _ string, _ string, _ int) ([]types.Candle, error) {
	return nil, nil
}

func (f *fakeExchange) PlaceOrder(_ context.Context, _ types.OrderRequest) (types.OrderResult, error) {
	return types.OrderResult{}, nil
}

func (f *fakeExchange) GetAccountSnapshot(_ context.Context, _ string) (types.AccountSnapshot, error) {
	return types.AccountSnapshot{}, nil
}

func (f *fakeExchange) CancelOrder(_ context.Context, _ types.CancelRequest) (types.OrderResult, error) {
	return types.OrderResult{}, nil
}

type fakeStreamer struct {
	fakeExchange
}

func (f *fakeStreamer) StreamMarket(_ context.Context, _ string, _ types.StreamOptions) iter.Seq2[types.StreamSample, error] {
	return func(func(types.StreamSample, error) bool) {}
}

func (f *fakeStreamer) GetFundingRate(_ context.Context, _ string) (float64, error) {
	return 0.0001, nil
}

type ExchangeTestSuite struct {
	suite.Suite
}

func TestExchangeSuite(t *testing.T) {
	suite.Run(t, new(ExchangeTestSuite))
}

func (suite *ExchangeTestSuite) SetupSuite() {
	Register(fakeProvider, ProviderInfo{
		DisplayName:        "Fake",
		Markets:            []types.Market{types.MarketSwap, types.MarketSpot},
		RequiresPassphrase: true,
	}, func(cfg types.ExchangeConfig, _ Options) (Exchange, error) {
		if cfg.Market == types.MarketSwap {
			return &fakeStreamer{fakeExchange{cfg: cfg}}, nil
		}

		return &fakeExchange{cfg: cfg}, nil
	})

	Register(fakeSimulator, ProviderInfo{
		Markets:        []types.Market{types.MarketFutures},
		IsPaperTrading: true,
	}, func(cfg types.ExchangeConfig, _ Options) (Exchange, error) {
		return &fakeExchange{cfg: cfg}, nil
	})
}

func (suite *ExchangeTestSuite) TestRegisterDuplicatePanics() {
	suite.Panics(func() {
		Register(fakeProvider, ProviderInfo{}, func(types.ExchangeConfig, Options) (Exchange, error) { return nil, nil })
	})

	suite.Panics(func() {
		Register("nil-factory", ProviderInfo{}, nil)
	})
}

func (suite *ExchangeTestSuite) TestSupportedProviders() {
	providers := SupportedProviders()
	suite.Contains(providers, string(fakeProvider))
	suite.Contains(providers, string(fakeSimulator))
	suite.IsNonDecreasing(providers)

	info, err := GetProviderInfo(string(fakeProvider))
	suite.Require().NoError(err)
	suite.Equal(string(fakeProvider), info.Name)
	suite.Equal("Fake", info.DisplayName)

	_, err = GetProviderInfo("nowhere")
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedProvider))
}

func (suite *ExchangeTestSuite) TestResolveMarket() {
	cfg, err := ResolveMarket(types.ExchangeConfig{Provider: fakeProvider})
	suite.Require().NoError(err)
	suite.Equal(types.MarketSwap, cfg.Market)

	cfg, err = ResolveMarket(types.ExchangeConfig{Provider: fakeProvider, Market: types.MarketSpot})
	suite.Require().NoError(err)
	suite.Equal(types.MarketSpot, cfg.Market)

	_, err = ResolveMarket(types.ExchangeConfig{Provider: fakeProvider, Market: types.MarketFutures})
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedMarket))
}

func (suite *ExchangeTestSuite) TestNew() {
	ex, err := New(types.ExchangeConfig{Provider: fakeProvider}, Options{})
	suite.Require().NoError(err)

	streamer, ok := AsStreamer(ex)
	suite.True(ok)
	suite.NotNil(streamer)

	rater, ok := AsFundingRater(ex)
	suite.Require().True(ok)

	rate, err := rater.GetFundingRate(context.Background(), "BTCUSDT")
	suite.NoError(err)
	suite.Equal(0.0001, rate)

	spot, err := New(types.ExchangeConfig{Provider: fakeProvider, Market: types.MarketSpot}, Options{})
	suite.Require().NoError(err)

	_, ok = AsStreamer(spot)
	suite.False(ok)

	_, err = New(types.ExchangeConfig{}, Options{})
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedProvider))

	_, err = New(types.ExchangeConfig{Provider: "nowhere"}, Options{})
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedProvider))
}

func (suite *ExchangeTestSuite) TestValidateCredentials() {
	testCases := []struct {
		name  string
		cfg   types.ExchangeConfig
		valid bool
	}{
		{
			name:  "simulator needs nothing",
			cfg:   types.ExchangeConfig{Provider: fakeSimulator},
			valid: true,
		},
		{
			name:  "missing key",
			cfg:   types.ExchangeConfig{Provider: fakeProvider, Credentials: types.Credentials{SecretKey: "s", Passphrase: "p"}},
			valid: false,
		},
		{
			name:  "missing passphrase",
			cfg:   types.ExchangeConfig{Provider: fakeProvider, Credentials: types.Credentials{APIKey: "k", SecretKey: "s"}},
			valid: false,
		},
		{
			name:  "complete",
			cfg:   types.ExchangeConfig{Provider: fakeProvider, Credentials: types.Credentials{APIKey: "k", SecretKey: "s", Passphrase: "p"}},
			valid: true,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := ValidateCredentials(tc.cfg)
			if tc.valid {
				suite.NoError(err)
			} else {
				suite.True(errors.HasCode(err, errors.ErrCodeMissingCredentials))
			}
		})
	}
}

func (suite *ExchangeTestSuite) TestCandleQuery() {
	interval, limit := CandleQuery("", 0)
	suite.Equal(DefaultInterval, interval)
	suite.Equal(DefaultCandleLimit, limit)

	interval, limit = CandleQuery("15m", 30)
	suite.Equal("15m", interval)
	suite.Equal(30, limit)
}

func (suite *ExchangeTestSuite) TestOptions() {
	suite.Equal(DefaultHTTPTimeout, Options{}.Timeout())
	suite.Equal(time.Second, Options{HTTPTimeout: time.Second}.Timeout())

	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Equal(fixed, Options{Now: func() time.Time { return fixed }}.Clock()())
}

func (suite *ExchangeTestSuite) TestSplitSymbol() {
	testCases := []struct {
		symbol string
		base   string
		quote  string
	}{
		{"BTCUSDT", "BTC", "USDT"},
		{"ethusdc", "ETH", "USDC"},
		{"BTCFDUSD", "BTC", "FDUSD"},
		{"ETHBTC", "ETH", "BTC"},
		{"BTC-USDT-SWAP", "BTC", "USDT"},
		{"sol-usdc", "SOL", "USDC"},
		{"XYZ", "XYZ", "USDT"},
	}

	for _, tc := range testCases {
		suite.Run(tc.symbol, func() {
			base, quote := SplitSymbol(tc.symbol)
			suite.Equal(tc.base, base)
			suite.Equal(tc.quote, quote)
		})
	}
}
