package types

import "time"

// BacktestTrade is one simulated fill.
type BacktestTrade struct {
	Time     time.Time    `json:"time" yaml:"time"`
	Side     PurchaseType `json:"side" yaml:"side"`
	Price    float64      `json:"price" yaml:"price"`
	Quantity float64      `json:"quantity" yaml:"quantity"`
	// RealizedPnL is the P&L closed by this fill.
	RealizedPnL float64 `json:"realizedPnl" yaml:"realizedPnl"`
	// Balance is the simulated balance after the fill.
	Balance float64 `json:"balance" yaml:"balance"`
	// Position is the signed position quantity after the fill.
	Position   float64 `json:"position" yaml:"position"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Reason     string  `json:"reason" yaml:"reason"`
}

type BacktestStats struct {
	// TradeCount is the number of simulated fills.
	TradeCount     int     `json:"tradeCount" yaml:"tradeCount"`
	InitialCapital float64 `json:"initialCapital" yaml:"initialCapital"`
	FinalBalance   float64 `json:"finalBalance" yaml:"finalBalance"`
	// ROI is (final balance + open position mark-to-market - capital) / capital.
	ROI float64 `json:"roi" yaml:"roi"`
	// MaxDrawdown is the minimum of (balance - peak) / peak, a non-positive fraction.
	MaxDrawdown float64 `json:"maxDrawdown" yaml:"maxDrawdown"`
	// WinningTrades and LosingTrades count fills with positive / negative realized P&L.
	WinningTrades int     `json:"winningTrades" yaml:"winningTrades"`
	LosingTrades  int     `json:"losingTrades" yaml:"losingTrades"`
	RealizedPnL   float64 `json:"realizedPnl" yaml:"realizedPnl"`
	UnrealizedPnL float64 `json:"unrealizedPnl" yaml:"unrealizedPnl"`
}

type BacktestResult struct {
	Symbol        string          `json:"symbol" yaml:"symbol"`
	Strategy      StrategyType    `json:"strategy" yaml:"strategy"`
	Trades        []BacktestTrade `json:"trades" yaml:"trades"`
	Stats         BacktestStats   `json:"stats" yaml:"stats"`
	EquityCurve   []EquitySample  `json:"equityCurve" yaml:"equityCurve"`
	FinalPosition Position        `json:"finalPosition" yaml:"finalPosition"`
}
