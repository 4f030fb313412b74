package types

// Signal is the direction of a trade decision.
type Signal string

const (
	SignalLong  Signal = "long"
	SignalShort Signal = "short"
	SignalFlat  Signal = "flat"
)

// Decision is produced by a strategy or supplied by the caller.
type Decision struct {
	Signal Signal `json:"signal" yaml:"signal" validate:"required,oneof=long short flat"`
	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence" validate:"gte=0,lte=1"`
	Reason     string  `json:"reason" yaml:"reason"`
}

// StrategyType names a decision strategy.
type StrategyType string

const (
	StrategySMACrossover     StrategyType = "sma-crossover"
	StrategyRSIMeanReversion StrategyType = "rsi-mean-reversion"
	StrategyMomentumBreakout StrategyType = "momentum-breakout"
	StrategyManual           StrategyType = "manual"
)

const (
	DefaultRSILowerBand = 30.0
	DefaultRSIUpperBand = 70.0
)

// StrategyConfig describes which strategy to run and its thresholds.
type StrategyConfig struct {
	Type    StrategyType     `json:"type" yaml:"type"`
	Periods IndicatorPeriods `json:"periods" yaml:"periods"`
	// LowerBand and UpperBand are RSI thresholds; zero means 30 / 70.
	LowerBand float64 `json:"lowerBand" yaml:"lowerBand" validate:"gte=0,lte=100"`
	UpperBand float64 `json:"upperBand" yaml:"upperBand" validate:"gte=0,lte=100"`
	// AllowShort permits short signals from the rsi and momentum strategies.
	AllowShort bool `json:"allowShort" yaml:"allowShort"`

	// Manual decision fields, used only when Type is manual.
	Signal     Signal  `json:"signal,omitempty" yaml:"signal,omitempty"`
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Reason     string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ManualStrategy wraps a pre-computed decision as a manual strategy descriptor.
func ManualStrategy(d Decision) StrategyConfig {
	return StrategyConfig{
		Type:       StrategyManual,
		Signal:     d.Signal,
		Confidence: d.Confidence,
		Reason:     d.Reason,
	}
}
