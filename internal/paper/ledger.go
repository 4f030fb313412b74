// Package paper implements the deterministic paper-trading ledger.
//
// The ledger mutates a caller-owned types.PaperState in place and performs no
// locking. Callers serialise invocations against the same state.
package paper

import (
	"time"

	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/shopspring/decimal"
)

// Fill is one execution applied to a position.
type Fill struct {
	Symbol   string
	Side     types.PurchaseType
	Price    float64
	Quantity float64
	Time     time.Time
}

// FillResult describes the effect of a fill.
type FillResult struct {
	Position types.Position
	// RealizedPnL is the P&L of the closed overlap, zero when nothing closed.
	RealizedPnL float64
	// ClosedQuantity is the overlap closed at the old entry price.
	ClosedQuantity float64
	// OpenedQuantity is the quantity that opened or extended a position.
	OpenedQuantity float64
	Balance        float64
	Equity         float64
}

type Ledger struct {
	state *types.PaperState
}

// NewLedger wraps state. A nil state starts a fresh account with
// types.DefaultPaperBalance.
func NewLedger(state *types.PaperState) *Ledger {
	if state == nil {
		state = types.NewPaperState(types.DefaultPaperBalance)
	}

	if state.Marks == nil {
		state.Marks = map[string]float64{}
	}

	if state.Positions == nil {
		state.Positions = []types.Position{}
	}

	if state.Orders == nil {
		state.Orders = []types.Order{}
	}

	if state.EquityCurve == nil {
		state.EquityCurve = []types.EquitySample{}
	}

	return &Ledger{state: state}
}

// State returns the wrapped state.
func (l *Ledger) State() *types.PaperState {
	return l.state
}

// ProcessFill applies a fill to the symbol's position.
//
// A fill in the direction of the position (or onto a flat position) blends the
// entry price by quantity. An opposing fill closes the overlap at the current
// entry price and realizes (price - entry) * closed * sign(position); any
// remainder opens a new position at the fill price. Realized P&L is added to
// the balance, the symbol is marked at the fill price and one equity sample is
// appended.
func (l *Ledger) ProcessFill(fill Fill) (FillResult, error) {
	if fill.Symbol == "" {
		return FillResult{}, errors.New(errors.ErrCodeMissingSymbol, "fill symbol is required")
	}

	if fill.Side != types.PurchaseTypeBuy && fill.Side != types.PurchaseTypeSell {
		return FillResult{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported fill side: %s", fill.Side)
	}

	if fill.Quantity <= 0 {
		return FillResult{}, errors.Newf(errors.ErrCodeInvalidQuantity, "invalid quantity: %v", fill.Quantity)
	}

	if fill.Price <= 0 {
		return FillResult{}, errors.Newf(errors.ErrCodeInvalidParameter, "fill price must be positive, got %v", fill.Price)
	}

	idx := l.positionIndex(fill.Symbol)

	var position types.Position
	if idx >= 0 {
		position = l.state.Positions[idx]
	} else {
		position = types.Position{Symbol: fill.Symbol}
	}

	oldQty := decimal.NewFromFloat(position.Quantity)
	entry := decimal.NewFromFloat(position.EntryPrice)
	price := decimal.NewFromFloat(fill.Price)
	fillQty := decimal.NewFromFloat(fill.Quantity)
	fillSign := decimal.NewFromFloat(fill.Side.Sign())

	realized := decimal.Zero
	closed := decimal.Zero
	opened := decimal.Zero

	if oldQty.IsZero() || oldQty.Sign() == fillSign.Sign() {
		// blend
		total := oldQty.Abs().Add(fillQty)
		entry = oldQty.Abs().Mul(entry).Add(fillQty.Mul(price)).Div(total)
		oldQty = oldQty.Add(fillQty.Mul(fillSign))
		opened = fillQty
	} else {
		closed = decimal.Min(oldQty.Abs(), fillQty)
		oldSign := decimal.NewFromInt(int64(oldQty.Sign()))
		realized = price.Sub(entry).Mul(closed).Mul(oldSign)
		oldQty = oldQty.Sub(oldSign.Mul(closed))

		remainder := fillQty.Sub(closed)
		if remainder.IsPositive() {
			// flip through zero in one fill
			oldQty = remainder.Mul(fillSign)
			entry = price
			opened = remainder
		} else if oldQty.IsZero() {
			entry = price
		}
	}

	position.Quantity = oldQty.InexactFloat64()
	position.EntryPrice = entry.InexactFloat64()

	if oldQty.IsZero() {
		l.removePosition(idx)
	} else if idx >= 0 {
		l.state.Positions[idx] = position
	} else {
		l.state.Positions = append(l.state.Positions, position)
	}

	l.state.Balance = decimal.NewFromFloat(l.state.Balance).Add(realized).InexactFloat64()
	l.state.Marks[fill.Symbol] = fill.Price

	equity := l.Equity()
	l.state.EquityCurve = append(l.state.EquityCurve, types.EquitySample{
		Time:    fill.Time,
		Balance: l.state.Balance,
		Equity:  equity,
	})

	return FillResult{
		Position:       position,
		RealizedPnL:    realized.InexactFloat64(),
		ClosedQuantity: closed.InexactFloat64(),
		OpenedQuantity: opened.InexactFloat64(),
		Balance:        l.state.Balance,
		Equity:         equity,
	}, nil
}

// Position returns the open position of symbol, or a flat one.
func (l *Ledger) Position(symbol string) types.Position {
	if idx := l.positionIndex(symbol); idx >= 0 {
		return l.state.Positions[idx]
	}

	return types.Position{Symbol: symbol}
}

// Mark returns the last observed price of symbol.
func (l *Ledger) Mark(symbol string) (float64, bool) {
	mark, ok := l.state.Marks[symbol]

	return mark, ok
}

// SetMark records an observed price without trading.
func (l *Ledger) SetMark(symbol string, price float64) {
	if price > 0 {
		l.state.Marks[symbol] = price
	}
}

// Equity is balance + sum(quantity * mark). Positions without a mark are
// valued at their entry price.
func (l *Ledger) Equity() float64 {
	equity := decimal.NewFromFloat(l.state.Balance)

	for _, p := range l.state.Positions {
		equity = equity.Add(decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(l.markOrEntry(p))))
	}

	return equity.InexactFloat64()
}

// UnrealizedPnL is sum(quantity * (mark - entry)).
func (l *Ledger) UnrealizedPnL() float64 {
	total := decimal.Zero

	for _, p := range l.state.Positions {
		diff := decimal.NewFromFloat(l.markOrEntry(p)).Sub(decimal.NewFromFloat(p.EntryPrice))
		total = total.Add(decimal.NewFromFloat(p.Quantity).Mul(diff))
	}

	return total.InexactFloat64()
}

// Record appends an order record.
func (l *Ledger) Record(order types.Order) {
	l.state.Orders = append(l.state.Orders, order)
}

// FindOrder looks an order up by id or client id.
func (l *Ledger) FindOrder(orderID, clientOrderID string) (types.Order, bool) {
	for _, order := range l.state.Orders {
		if orderID != "" && order.ID == orderID {
			return order, true
		}

		if clientOrderID != "" && order.ClientOrderID == clientOrderID {
			return order, true
		}
	}

	return types.Order{}, false
}

func (l *Ledger) markOrEntry(p types.Position) float64 {
	if mark, ok := l.state.Marks[p.Symbol]; ok && mark > 0 {
		return mark
	}

	return p.EntryPrice
}

func (l *Ledger) positionIndex(symbol string) int {
	for i, p := range l.state.Positions {
		if p.Symbol == symbol {
			return i
		}
	}

	return -1
}

func (l *Ledger) removePosition(idx int) {
	if idx < 0 {
		return
	}

	l.state.Positions = append(l.state.Positions[:idx], l.state.Positions[idx+1:]...)
}
