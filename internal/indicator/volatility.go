package indicator

import "math"

// Volatility is the population standard deviation of the last period values,
// or 0 when there is not enough history.
func Volatility(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}

	window := values[len(values)-period:]
	mean := SMA(window, period)

	variance := 0.0
	for _, v := range window {
		variance += (v - mean) * (v - mean)
	}

	return math.Sqrt(variance / float64(period))
}
