package indicator

// EMA is seeded with the first value and smoothed left to right over the
// whole series with k = 2 / (period + 1).
func EMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}

	if period <= 0 {
		return last(values)
	}

	k := 2.0 / float64(period+1)
	ema := values[0]

	for _, v := range values[1:] {
		ema = v*k + ema*(1-k)
	}

	return ema
}
