package types

import "time"

// DefaultPaperBalance is the starting balance of a fresh paper account.
const DefaultPaperBalance = 10000.0

// Position is owned by the paper ledger and only mutated by its fill rule.
type Position struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	// Quantity is signed: positive is long, negative is short.
	Quantity   float64 `json:"quantity" yaml:"quantity"`
	EntryPrice float64 `json:"entryPrice" yaml:"entryPrice"`
}

// EquitySample is one point of the equity curve.
type EquitySample struct {
	Time    time.Time `json:"time" yaml:"time"`
	Balance float64   `json:"balance" yaml:"balance"`
	Equity  float64   `json:"equity" yaml:"equity"`
}

// PaperState is round-tripped by the caller: read in, mutated, returned.
// The core never stores it between invocations and performs no locking.
type PaperState struct {
	Balance     float64            `json:"balance" yaml:"balance"`
	Positions   []Position         `json:"positions" yaml:"positions"`
	Orders      []Order            `json:"orders" yaml:"orders"`
	EquityCurve []EquitySample     `json:"equityCurve" yaml:"equityCurve"`
	Marks       map[string]float64 `json:"marks" yaml:"marks"`
}

// NewPaperState returns an empty account with the given balance.
func NewPaperState(balance float64) *PaperState {
	return &PaperState{
		Balance:     balance,
		Positions:   []Position{},
		Orders:      []Order{},
		EquityCurve: []EquitySample{},
		Marks:       map[string]float64{},
	}
}
