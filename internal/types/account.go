package types

// AccountSnapshot represents the current account state including balance, equity, and P&L information.
type AccountSnapshot struct {
	Provider Provider `json:"provider"`
	Market   Market   `json:"market"`
	Symbol   string   `json:"symbol"`
	// Balance is the current cash or wallet balance (excluding unrealized P&L)
	Balance float64 `json:"balance"`
	// Equity is the total account value
	Equity float64 `json:"equity"`
	// AvailableBalance is the amount available for new orders
	AvailableBalance float64 `json:"availableBalance"`
	// UnrealizedPnL is the total unrealized profit/loss from open positions
	UnrealizedPnL float64            `json:"unrealizedPnl"`
	Positions     []PositionSnapshot `json:"positions"`
	// PaperState is only present for the simulator.
	PaperState *PaperState `json:"paperState,omitempty"`
}

// PositionSnapshot is a venue-reported open position.
type PositionSnapshot struct {
	Symbol string `json:"symbol"`
	// Quantity is signed: positive is long, negative is short.
	Quantity      float64      `json:"quantity"`
	EntryPrice    float64      `json:"entryPrice"`
	MarkPrice     float64      `json:"markPrice"`
	UnrealizedPnL float64      `json:"unrealizedPnl"`
	Leverage      float64      `json:"leverage,omitempty"`
	Side          PositionType `json:"side"`
}

// SideOf returns the position side implied by a signed quantity.
func SideOf(quantity float64) PositionType {
	if quantity < 0 {
		return PositionTypeShort
	}

	return PositionTypeLong
}
