package indicator

// Momentum is the last value minus the value lookback steps earlier.
// The earlier index is clamped to the start of the series.
func Momentum(values []float64, lookback int) float64 {
	if len(values) == 0 {
		return 0
	}

	if lookback < 0 {
		lookback = 0
	}

	idx := max(len(values)-1-lookback, 0)

	return last(values) - values[idx]
}
