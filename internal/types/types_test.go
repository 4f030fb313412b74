package types

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TypesTestSuite struct {
	suite.Suite
}

func TestTypesSuite(t *testing.T) {
	suite.Run(t, new(TypesTestSuite))
}

func (suite *TypesTestSuite) TestOrderRequestValidate() {
	valid := OrderRequest{Symbol: "BTCUSDT", Side: PurchaseTypeBuy, Type: OrderTypeMarket, Quantity: 1}

	tests := []struct {
		name   string
		mutate func(r *OrderRequest)
		ok     bool
	}{
		{"market order", func(_ *OrderRequest) {}, true},
		{"limit with price", func(r *OrderRequest) { r.Type = OrderTypeLimit; r.Price = optional.Some(10.0) }, true},
		{"limit without price", func(r *OrderRequest) { r.Type = OrderTypeLimit }, false},
		{"limit with zero price", func(r *OrderRequest) { r.Type = OrderTypeLimit; r.Price = optional.Some(0.0) }, false},
		{"zero quantity", func(r *OrderRequest) { r.Quantity = 0 }, false},
		{"unknown side", func(r *OrderRequest) { r.Side = "HOLD" }, false},
		{"missing symbol", func(r *OrderRequest) { r.Symbol = "" }, false},
		{"bad time in force", func(r *OrderRequest) { r.TimeInForce = "DAY" }, false},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.ok {
				suite.NoError(err)
			} else {
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
			}
		})
	}
}

func (suite *TypesTestSuite) TestFillPrice() {
	req := OrderRequest{ReferencePrice: 100}
	suite.Equal(100.0, req.FillPrice())

	req.Price = optional.Some(95.0)
	suite.Equal(95.0, req.FillPrice())
}

func (suite *TypesTestSuite) TestCancelRequestValidate() {
	suite.True(errors.HasCode((&CancelRequest{OrderID: "1"}).Validate(), errors.ErrCodeMissingSymbol))
	suite.True(errors.HasCode((&CancelRequest{Symbol: "BTCUSDT"}).Validate(), errors.ErrCodeMissingParameter))
	suite.NoError((&CancelRequest{Symbol: "BTCUSDT", ClientOrderID: "c1"}).Validate())
}

func (suite *TypesTestSuite) TestSideForSignal() {
	side, position, ok := SideForSignal(SignalLong)
	suite.True(ok)
	suite.Equal(PurchaseTypeBuy, side)
	suite.Equal(PositionTypeLong, position)

	side, position, ok = SideForSignal(SignalShort)
	suite.True(ok)
	suite.Equal(PurchaseTypeSell, side)
	suite.Equal(PositionTypeShort, position)

	_, _, ok = SideForSignal(SignalFlat)
	suite.False(ok)

	suite.Equal(1.0, PurchaseTypeBuy.Sign())
	suite.Equal(-1.0, PurchaseTypeSell.Sign())
}

func (suite *TypesTestSuite) TestRiskConfig() {
	var cfg RiskConfig
	suite.True(cfg.LongAllowed())
	suite.True(cfg.ShortAllowed())
	suite.Equal(1, cfg.EffectiveLeverage())

	cfg.AllowShort = Bool(false)
	suite.False(cfg.ShortAllowed())

	filled := RiskConfig{StopLossPct: 0.05}.WithDefaults()
	suite.Equal(0.05, filled.StopLossPct)
	suite.Equal(DefaultTakeProfitPct, filled.TakeProfitPct)
	suite.Equal(DefaultPositionRiskPct, filled.PositionRiskPct)
	suite.Equal(1, filled.Leverage)
}

func (suite *TypesTestSuite) TestIndicatorPeriodsWithDefaults() {
	periods := IndicatorPeriods{Fast: 3}.WithDefaults()
	suite.Equal(3, periods.Fast)
	suite.Equal(DefaultIndicatorPeriods().Slow, periods.Slow)
	suite.Equal(DefaultIndicatorPeriods().RSI, periods.RSI)
}

func (suite *TypesTestSuite) TestPrices() {
	suite.Equal(10.0, MarketSnapshot{Price: 10, MarkPrice: 11}.ReferencePrice())
	suite.Equal(11.0, MarketSnapshot{MarkPrice: 11}.ReferencePrice())

	suite.Equal(101.0, Order{Price: 100, AvgPrice: 101}.EntryPrice())
	suite.Equal(100.0, Order{Price: 100}.EntryPrice())

	suite.Equal(PositionTypeShort, SideOf(-1))
	suite.Equal(PositionTypeLong, SideOf(0.5))
}

func (suite *TypesTestSuite) TestManualStrategy() {
	cfg := ManualStrategy(Decision{Signal: SignalShort, Confidence: 0.7, Reason: "desk call"})
	suite.Equal(StrategyManual, cfg.Type)
	suite.Equal(SignalShort, cfg.Signal)
	suite.Equal(0.7, cfg.Confidence)
	suite.Equal("desk call", cfg.Reason)
}

func (suite *TypesTestSuite) TestCredentials() {
	suite.True(Credentials{}.IsZero())
	suite.False(Credentials{Passphrase: "p"}.IsZero())
	suite.Len(Providers(), 4)
}

func (suite *TypesTestSuite) TestNewPaperState() {
	state := NewPaperState(500)
	suite.Equal(500.0, state.Balance)
	suite.NotNil(state.Marks)
	suite.Empty(state.Positions)
}
