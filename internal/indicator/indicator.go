// Package indicator computes technical indicators over a closing-price series.
// Every function is pure: identical inputs always yield identical outputs.
package indicator

import "github.com/rxtech-lab/argo-orchestrator/internal/types"

// Closes extracts the close of every candle, oldest first.
func Closes(candles []types.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, candle := range candles {
		closes[i] = candle.Close
	}

	return closes
}

// Compute derives the full indicator set from a closing-price series.
// Zero periods fall back to types.DefaultIndicatorPeriods.
func Compute(closes []float64, periods types.IndicatorPeriods) types.Indicators {
	periods = periods.WithDefaults()

	return types.Indicators{
		Price:      last(closes),
		SMAFast:    SMA(closes, periods.Fast),
		SMASlow:    SMA(closes, periods.Slow),
		EMA:        EMA(closes, periods.EMA),
		RSI:        RSI(closes, periods.RSI),
		Volatility: Volatility(closes, periods.Volatility),
		Momentum:   Momentum(closes, periods.Momentum),
		Closes:     closes,
	}
}

// ComputeFromCandles is Compute over the closes of candles.
func ComputeFromCandles(candles []types.Candle, periods types.IndicatorPeriods) types.Indicators {
	return Compute(Closes(candles), periods)
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return values[len(values)-1]
}
