package types

// IndicatorPeriods configures the lookback windows of the indicator engine.
// Zero values fall back to DefaultIndicatorPeriods.
type IndicatorPeriods struct {
	Fast       int `json:"fast" yaml:"fast" validate:"gte=0"`
	Slow       int `json:"slow" yaml:"slow" validate:"gte=0"`
	EMA        int `json:"ema" yaml:"ema" validate:"gte=0"`
	RSI        int `json:"rsi" yaml:"rsi" validate:"gte=0"`
	Volatility int `json:"volatility" yaml:"volatility" validate:"gte=0"`
	Momentum   int `json:"momentum" yaml:"momentum" validate:"gte=0"`
}

// DefaultIndicatorPeriods returns the periods used when none are configured.
func DefaultIndicatorPeriods() IndicatorPeriods {
	return IndicatorPeriods{
		Fast:       5,
		Slow:       20,
		EMA:        20,
		RSI:        14,
		Volatility: 20,
		Momentum:   10,
	}
}

// WithDefaults fills zero periods from DefaultIndicatorPeriods.
func (p IndicatorPeriods) WithDefaults() IndicatorPeriods {
	d := DefaultIndicatorPeriods()
	if p.Fast <= 0 {
		p.Fast = d.Fast
	}

	if p.Slow <= 0 {
		p.Slow = d.Slow
	}

	if p.EMA <= 0 {
		p.EMA = d.EMA
	}

	if p.RSI <= 0 {
		p.RSI = d.RSI
	}

	if p.Volatility <= 0 {
		p.Volatility = d.Volatility
	}

	if p.Momentum <= 0 {
		p.Momentum = d.Momentum
	}

	return p
}

// Indicators is derived from a closing-price series and recomputed every call.
type Indicators struct {
	Price      float64   `json:"price"`
	SMAFast    float64   `json:"smaFast"`
	SMASlow    float64   `json:"smaSlow"`
	EMA        float64   `json:"ema"`
	RSI        float64   `json:"rsi"`
	Volatility float64   `json:"volatility"`
	Momentum   float64   `json:"momentum"`
	Closes     []float64 `json:"closes,omitempty"`
}
