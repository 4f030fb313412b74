package indicator

// SMA returns the arithmetic mean of the last period values.
// With fewer than period values it returns the last value.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}

	if period <= 0 || len(values) < period {
		return last(values)
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}

	return sum / float64(period)
}
