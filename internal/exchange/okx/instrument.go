package okx

import (
	"context"
	"net/url"

	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/shopspring/decimal"
)

type instrument struct {
	InstID string `json:"instId"`
	CtVal  string `json:"ctVal"`
	LotSz  string `json:"lotSz"`
}

// ContractSpec is the size of one swap contract in the base currency and
// the smallest contract increment.
type ContractSpec struct {
	Value   decimal.Decimal
	LotSize decimal.Decimal
}

// Contracts converts a base quantity into a contract count floored to the
// lot size.
func (c ContractSpec) Contracts(quantity float64) decimal.Decimal {
	contracts := decimal.NewFromFloat(quantity).Div(c.Value)
	if !c.LotSize.IsPositive() {
		return contracts.Floor()
	}

	return contracts.Div(c.LotSize).Floor().Mul(c.LotSize)
}

// Base converts a contract count into the base quantity.
func (c ContractSpec) Base(contracts decimal.Decimal) float64 {
	return contracts.Mul(c.Value).InexactFloat64()
}

// GetContractSpec reads ctVal and lotSz of a swap instrument.
func (e *Exchange) GetContractSpec(ctx context.Context, symbol string) (ContractSpec, error) {
	instID := e.instID(symbol)

	var rows []instrument

	query := url.Values{}
	query.Set("instType", "SWAP")
	query.Set("instId", instID)

	if err := e.client.Get(ctx, "/api/v5/public/instruments", query, false, &rows); err != nil {
		return ContractSpec{}, err
	}

	if len(rows) == 0 {
		return ContractSpec{}, errors.Newf(errors.ErrCodeDataNotFound, "okx instrument not found: %s", instID)
	}

	value, err := decimal.NewFromString(rows[0].CtVal)
	if err != nil || !value.IsPositive() {
		return ContractSpec{}, errors.Newf(errors.ErrCodeInvalidMarketData, "invalid okx contract value %q for %s", rows[0].CtVal, instID)
	}

	lot, err := decimal.NewFromString(rows[0].LotSz)
	if err != nil {
		lot = decimal.Zero
	}

	return ContractSpec{Value: value, LotSize: lot}, nil
}
