// Package sizing resolves order quantities.
package sizing

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultQuantityPrecision is used when the caller does not configure one.
const DefaultQuantityPrecision = 3

// Input carries everything the sizer may need. Only the fields of the first
// applicable method are read.
type Input struct {
	// Quantity is an explicit base-asset size and wins over everything else.
	Quantity optional.Option[float64]
	// QuoteQuantity is a notional converted at ReferencePrice.
	QuoteQuantity   optional.Option[float64]
	ReferencePrice  float64
	Equity          float64
	PositionRiskPct float64
	Leverage        int
	// MaxPositionSize caps risk-based sizes; zero means uncapped.
	MaxPositionSize float64
	// Precision is the number of decimals kept. Negative values keep all of them.
	Precision int
}

// Resolve picks the size by priority: explicit quantity, then notional, then
// risk percentage of equity. The result is truncated, never rounded up.
func Resolve(in Input) (float64, error) {
	var quantity float64

	switch {
	case in.Quantity.IsSome():
		quantity = in.Quantity.Unwrap()
	case in.QuoteQuantity.IsSome():
		if in.ReferencePrice <= 0 {
			return 0, errors.New(errors.ErrCodeInvalidQuantity, "invalid quantity: reference price is not positive")
		}

		quantity = in.QuoteQuantity.Unwrap() / in.ReferencePrice
	default:
		if in.ReferencePrice <= 0 {
			return 0, errors.New(errors.ErrCodeInvalidQuantity, "invalid quantity: reference price is not positive")
		}

		quantity = RiskBased(in.Equity, in.PositionRiskPct, in.Leverage, in.ReferencePrice)
		if in.MaxPositionSize > 0 && quantity > in.MaxPositionSize {
			quantity = in.MaxPositionSize
		}
	}

	quantity = Quantize(quantity, in.Precision)
	if quantity <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidQuantity, "invalid quantity: %v", quantity)
	}

	return quantity, nil
}

// RiskBased is (equity * riskPct * leverage) / price. Leverage below 1 counts as 1.
func RiskBased(equity, riskPct float64, leverage int, price float64) float64 {
	if price <= 0 {
		return 0
	}

	if leverage < 1 {
		leverage = 1
	}

	return decimal.NewFromFloat(equity).
		Mul(decimal.NewFromFloat(riskPct)).
		Mul(decimal.NewFromInt(int64(leverage))).
		Div(decimal.NewFromFloat(price)).
		InexactFloat64()
}

// Quantize truncates toward zero at precision decimals.
func Quantize(quantity float64, precision int) float64 {
	if precision < 0 {
		return quantity
	}

	return decimal.NewFromFloat(quantity).Truncate(int32(precision)).InexactFloat64()
}

// Equity returns the sizing equity: the caller's reported equity when positive,
// otherwise the paper balance.
func Equity(perf types.Performance, state *types.PaperState) float64 {
	if perf.Equity > 0 {
		return perf.Equity
	}

	if state != nil {
		return state.Balance
	}

	return 0
}
