// Package strategy maps indicators and a strategy descriptor to a trade decision.
package strategy

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-orchestrator/internal/types"
)

// NeutralReason is the reason of the fallback decision for unknown strategies.
const NeutralReason = "Neutral"

// Evaluator turns indicators into a decision for one strategy type.
type Evaluator interface {
	Decide(ind types.Indicators, cfg types.StrategyConfig) types.Decision
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ind types.Indicators, cfg types.StrategyConfig) types.Decision

func (f EvaluatorFunc) Decide(ind types.Indicators, cfg types.StrategyConfig) types.Decision {
	return f(ind, cfg)
}

// Decide evaluates cfg against the default registry.
func Decide(ind types.Indicators, cfg types.StrategyConfig) types.Decision {
	return DefaultRegistry().Decide(ind, cfg)
}

// NeedsIndicators reports whether the strategy reads market data at all.
// The manual strategy carries its decision verbatim.
func NeedsIndicators(cfg types.StrategyConfig) bool {
	return cfg.Type != types.StrategyManual
}

// Neutral is the fallback decision.
func Neutral() types.Decision {
	return types.Decision{
		Signal:     types.SignalFlat,
		Confidence: 0.5,
		Reason:     NeutralReason,
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func smaCrossover(ind types.Indicators, _ types.StrategyConfig) types.Decision {
	switch {
	case ind.SMAFast > ind.SMASlow:
		return types.Decision{
			Signal:     types.SignalLong,
			Confidence: sigmoid(ind.Momentum),
			Reason:     fmt.Sprintf("fast SMA %.4f above slow SMA %.4f", ind.SMAFast, ind.SMASlow),
		}
	case ind.SMAFast < ind.SMASlow:
		return types.Decision{
			Signal:     types.SignalShort,
			Confidence: sigmoid(-ind.Momentum),
			Reason:     fmt.Sprintf("fast SMA %.4f below slow SMA %.4f", ind.SMAFast, ind.SMASlow),
		}
	default:
		return types.Decision{
			Signal:     types.SignalFlat,
			Confidence: 0.5,
			Reason:     "fast and slow SMA are equal",
		}
	}
}

func rsiMeanReversion(ind types.Indicators, cfg types.StrategyConfig) types.Decision {
	lower := cfg.LowerBand
	if lower <= 0 {
		lower = types.DefaultRSILowerBand
	}

	upper := cfg.UpperBand
	if upper <= 0 {
		upper = types.DefaultRSIUpperBand
	}

	if ind.RSI < lower {
		return types.Decision{
			Signal:     types.SignalLong,
			Confidence: 1 - ind.RSI/lower,
			Reason:     fmt.Sprintf("RSI %.2f below lower band %.2f", ind.RSI, lower),
		}
	}

	if ind.RSI > upper && cfg.AllowShort && upper < 100 {
		return types.Decision{
			Signal:     types.SignalShort,
			Confidence: (ind.RSI - upper) / (100 - upper),
			Reason:     fmt.Sprintf("RSI %.2f above upper band %.2f", ind.RSI, upper),
		}
	}

	return types.Decision{
		Signal:     types.SignalFlat,
		Confidence: 0.5,
		Reason:     fmt.Sprintf("RSI %.2f inside bands", ind.RSI),
	}
}

func momentumBreakout(ind types.Indicators, cfg types.StrategyConfig) types.Decision {
	confidence := sigmoid(math.Abs(ind.Momentum))

	if ind.Momentum > 0 {
		return types.Decision{
			Signal:     types.SignalLong,
			Confidence: confidence,
			Reason:     fmt.Sprintf("positive momentum %.4f", ind.Momentum),
		}
	}

	if ind.Momentum < 0 && cfg.AllowShort {
		return types.Decision{
			Signal:     types.SignalShort,
			Confidence: confidence,
			Reason:     fmt.Sprintf("negative momentum %.4f", ind.Momentum),
		}
	}

	return types.Decision{
		Signal:     types.SignalFlat,
		Confidence: 0.5,
		Reason:     fmt.Sprintf("no breakout, momentum %.4f", ind.Momentum),
	}
}

func manual(_ types.Indicators, cfg types.StrategyConfig) types.Decision {
	signal := cfg.Signal
	if signal == "" {
		signal = types.SignalFlat
	}

	return types.Decision{
		Signal:     signal,
		Confidence: cfg.Confidence,
		Reason:     cfg.Reason,
	}
}
