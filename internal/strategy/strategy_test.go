package strategy

import (
	"testing"

	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func (suite *StrategyTestSuite) TestSMACrossover() {
	cfg := types.StrategyConfig{Type: types.StrategySMACrossover}

	suite.Run("fast above slow is long", func() {
		d := Decide(types.Indicators{SMAFast: 105, SMASlow: 100, Momentum: 0}, cfg)
		suite.Equal(types.SignalLong, d.Signal)
		suite.InDelta(0.5, d.Confidence, 1e-9)
	})

	suite.Run("fast below slow is short with sigmoid of negated momentum", func() {
		d := Decide(types.Indicators{SMAFast: 95, SMASlow: 100, Momentum: -2}, cfg)
		suite.Equal(types.SignalShort, d.Signal)
		suite.InDelta(sigmoid(2), d.Confidence, 1e-9)
	})

	suite.Run("equal averages are flat", func() {
		d := Decide(types.Indicators{SMAFast: 100, SMASlow: 100}, cfg)
		suite.Equal(types.SignalFlat, d.Signal)
	})
}

func (suite *StrategyTestSuite) TestRSIMeanReversion() {
	suite.Run("oversold is long", func() {
		d := Decide(types.Indicators{RSI: 15}, types.StrategyConfig{Type: types.StrategyRSIMeanReversion})
		suite.Equal(types.SignalLong, d.Signal)
		suite.InDelta(0.5, d.Confidence, 1e-9)
	})

	suite.Run("overbought is short when permitted", func() {
		d := Decide(types.Indicators{RSI: 85}, types.StrategyConfig{Type: types.StrategyRSIMeanReversion, AllowShort: true})
		suite.Equal(types.SignalShort, d.Signal)
		suite.InDelta(0.5, d.Confidence, 1e-9)
	})

	suite.Run("overbought is flat when shorting is not permitted", func() {
		d := Decide(types.Indicators{RSI: 85}, types.StrategyConfig{Type: types.StrategyRSIMeanReversion})
		suite.Equal(types.SignalFlat, d.Signal)
	})

	suite.Run("custom bands", func() {
		cfg := types.StrategyConfig{Type: types.StrategyRSIMeanReversion, LowerBand: 40, UpperBand: 60, AllowShort: true}
		suite.Equal(types.SignalLong, Decide(types.Indicators{RSI: 35}, cfg).Signal)
		suite.Equal(types.SignalShort, Decide(types.Indicators{RSI: 65}, cfg).Signal)
		suite.Equal(types.SignalFlat, Decide(types.Indicators{RSI: 50}, cfg).Signal)
	})
}

func (suite *StrategyTestSuite) TestMomentumBreakout() {
	suite.Run("positive momentum is long", func() {
		d := Decide(types.Indicators{Momentum: 3}, types.StrategyConfig{Type: types.StrategyMomentumBreakout})
		suite.Equal(types.SignalLong, d.Signal)
		suite.InDelta(sigmoid(3), d.Confidence, 1e-9)
	})

	suite.Run("negative momentum is short when permitted", func() {
		d := Decide(types.Indicators{Momentum: -3}, types.StrategyConfig{Type: types.StrategyMomentumBreakout, AllowShort: true})
		suite.Equal(types.SignalShort, d.Signal)
		suite.InDelta(sigmoid(3), d.Confidence, 1e-9)
	})

	suite.Run("negative momentum is flat without shorting", func() {
		d := Decide(types.Indicators{Momentum: -3}, types.StrategyConfig{Type: types.StrategyMomentumBreakout})
		suite.Equal(types.SignalFlat, d.Signal)
	})
}

func (suite *StrategyTestSuite) TestManualIsVerbatim() {
	decision := types.Decision{Signal: types.SignalShort, Confidence: 0.42, Reason: "desk call"}

	d := Decide(types.Indicators{SMAFast: 200, SMASlow: 1}, types.ManualStrategy(decision))
	suite.Equal(decision, d)
	suite.False(NeedsIndicators(types.ManualStrategy(decision)))
	suite.True(NeedsIndicators(types.StrategyConfig{Type: types.StrategySMACrossover}))
}

func (suite *StrategyTestSuite) TestUnknownStrategyIsNeutral() {
	d := Decide(types.Indicators{SMAFast: 200, SMASlow: 1}, types.StrategyConfig{Type: "grid"})
	suite.Equal(types.SignalFlat, d.Signal)
	suite.Equal(0.5, d.Confidence)
	suite.Equal("Neutral", d.Reason)
}

func (suite *StrategyTestSuite) TestRegistry() {
	registry := NewBuiltinRegistry()
	suite.Equal([]types.StrategyType{
		types.StrategySMACrossover,
		types.StrategyRSIMeanReversion,
		types.StrategyMomentumBreakout,
		types.StrategyManual,
	}, registry.List())

	suite.Run("duplicate registration fails", func() {
		err := registry.Register(types.StrategySMACrossover, EvaluatorFunc(smaCrossover))
		suite.Error(err)
		suite.True(errors.HasCode(err, errors.ErrCodeStrategyExists))
	})

	suite.Run("custom strategy is dispatched", func() {
		always := EvaluatorFunc(func(_ types.Indicators, _ types.StrategyConfig) types.Decision {
			return types.Decision{Signal: types.SignalLong, Confidence: 1, Reason: "always"}
		})
		suite.NoError(registry.Register("always-long", always))

		d := registry.Decide(types.Indicators{}, types.StrategyConfig{Type: "always-long"})
		suite.Equal("always", d.Reason)
	})

	suite.Run("missing strategy", func() {
		_, err := registry.Get("missing")
		suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedStrategy))
	})

	suite.Run("empty name is rejected", func() {
		suite.Error(registry.Register("", EvaluatorFunc(manual)))
	})
}
