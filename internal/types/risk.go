package types

// RiskConfig is supplied by the caller and immutable for one invocation.
type RiskConfig struct {
	// MaxDailyLoss is a loss magnitude in quote currency; zero disables the guard.
	MaxDailyLoss float64 `json:"maxDailyLoss" yaml:"maxDailyLoss"`
	// MaxDrawdown is a drawdown magnitude as a fraction; zero disables the guard.
	MaxDrawdown     float64 `json:"maxDrawdown" yaml:"maxDrawdown"`
	MaxPositionSize float64 `json:"maxPositionSize" yaml:"maxPositionSize" validate:"gte=0"`
	// PositionRiskPct is the fraction of equity committed by risk-based sizing.
	PositionRiskPct float64 `json:"positionRiskPct" yaml:"positionRiskPct" validate:"gte=0"`
	SlippageBps     float64 `json:"slippageBps" yaml:"slippageBps" validate:"gte=0"`
	StopLossPct     float64 `json:"stopLossPct" yaml:"stopLossPct" validate:"gte=0"`
	TakeProfitPct   float64 `json:"takeProfitPct" yaml:"takeProfitPct" validate:"gte=0"`
	Leverage        int     `json:"leverage" yaml:"leverage" validate:"gte=0"`
	// AllowLong and AllowShort default to true when unset.
	AllowLong  *bool `json:"allowLong,omitempty" yaml:"allowLong,omitempty"`
	AllowShort *bool `json:"allowShort,omitempty" yaml:"allowShort,omitempty"`
}

// LongAllowed reports whether long entries are permitted.
func (c RiskConfig) LongAllowed() bool {
	return c.AllowLong == nil || *c.AllowLong
}

// ShortAllowed reports whether short entries are permitted.
func (c RiskConfig) ShortAllowed() bool {
	return c.AllowShort == nil || *c.AllowShort
}

// EffectiveLeverage returns the configured leverage, at least 1.
func (c RiskConfig) EffectiveLeverage() int {
	if c.Leverage < 1 {
		return 1
	}

	return c.Leverage
}

// RiskEvaluation is the verdict of the risk gate.
type RiskEvaluation struct {
	Allowed bool `json:"allowed"`
	// Reasons lists every violated constraint in rule order.
	Reasons []string `json:"reasons"`
}

// Performance carries the caller's running account metrics.
type Performance struct {
	// DailyLoss is signed: a loss is negative.
	DailyLoss float64 `json:"dailyLoss" yaml:"dailyLoss"`
	// Drawdown is a non-positive fraction of peak equity.
	Drawdown float64 `json:"drawdown" yaml:"drawdown"`
	Equity   float64 `json:"equity" yaml:"equity" validate:"gte=0"`
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Defaults applied to zero RiskConfig fields.
const (
	DefaultPositionRiskPct = 0.02
	DefaultStopLossPct     = 0.02
	DefaultTakeProfitPct   = 0.04
)

// WithDefaults fills zero sizing and target fields.
func (c RiskConfig) WithDefaults() RiskConfig {
	if c.PositionRiskPct <= 0 {
		c.PositionRiskPct = DefaultPositionRiskPct
	}

	if c.StopLossPct <= 0 {
		c.StopLossPct = DefaultStopLossPct
	}

	if c.TakeProfitPct <= 0 {
		c.TakeProfitPct = DefaultTakeProfitPct
	}

	if c.Leverage < 1 {
		c.Leverage = 1
	}

	return c
}
