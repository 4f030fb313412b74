package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

type PurchaseType string

type OrderType string

type OrderStatus string

type PositionType string

type TimeInForce string

const (
	OrderStatusNew             OrderStatus = "NEW"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusRejected        OrderStatus = "REJECTED"
	OrderStatusExpired         OrderStatus = "EXPIRED"
)

const (
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
)

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

const (
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
)

// Sign returns +1 for BUY and -1 for SELL.
func (p PurchaseType) Sign() float64 {
	if p == PurchaseTypeSell {
		return -1
	}

	return 1
}

// SideForSignal maps long to BUY and short to SELL.
func SideForSignal(signal Signal) (PurchaseType, PositionType, bool) {
	switch signal {
	case SignalLong:
		return PurchaseTypeBuy, PositionTypeLong, true
	case SignalShort:
		return PurchaseTypeSell, PositionTypeShort, true
	default:
		return "", "", false
	}
}

// OrderRequest is built by the orchestrator and routed to a venue adapter.
type OrderRequest struct {
	Symbol   string       `json:"symbol" validate:"required"`
	Side     PurchaseType `json:"side" validate:"required,oneof=BUY SELL"`
	Type     OrderType    `json:"type" validate:"required,oneof=MARKET LIMIT"`
	Quantity float64      `json:"quantity" validate:"gt=0"`
	// QuoteQuantity is the notional the caller asked for, when sized that way.
	QuoteQuantity optional.Option[float64] `json:"quoteQuantity"`
	// Price is required for LIMIT orders.
	Price          optional.Option[float64] `json:"price"`
	Leverage       int                      `json:"leverage" validate:"gte=0"`
	PositionSide   PositionType             `json:"positionSide" validate:"omitempty,oneof=LONG SHORT"`
	ReduceOnly     bool                     `json:"reduceOnly"`
	TimeInForce    TimeInForce              `json:"timeInForce" validate:"omitempty,oneof=GTC IOC FOK"`
	ClientOrderID  string                   `json:"clientOrderId"`
	ReferencePrice float64                  `json:"referencePrice" validate:"gte=0"`
	StopLossPct    float64                  `json:"stopLossPct" validate:"gte=0"`
	TakeProfitPct  float64                  `json:"takeProfitPct" validate:"gte=0"`
}

// Validate validates the OrderRequest struct.
func (r *OrderRequest) Validate() error {
	validate := validator.New()

	if err := validate.Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid order request", err)
	}

	if r.Type == OrderTypeLimit && r.Price.TakeOr(0) <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "limit order requires a positive price")
	}

	return nil
}

// FillPrice is the price a simulator should fill at: the limit price when set,
// otherwise the reference price.
func (r *OrderRequest) FillPrice() float64 {
	if price := r.Price.TakeOr(0); price > 0 {
		return price
	}

	return r.ReferencePrice
}

// CancelRequest identifies an order to cancel by venue id or client id.
type CancelRequest struct {
	Symbol        string `json:"symbol" validate:"required"`
	OrderID       string `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
}

// Validate requires a symbol and one of the two identifiers.
func (r *CancelRequest) Validate() error {
	if r.Symbol == "" {
		return errors.New(errors.ErrCodeMissingSymbol, "symbol is required")
	}

	if r.OrderID == "" && r.ClientOrderID == "" {
		return errors.New(errors.ErrCodeMissingParameter, "orderId or clientOrderId is required")
	}

	return nil
}

// Order is a venue acknowledgement or a paper fill record.
type Order struct {
	ID               string       `json:"id" yaml:"id"`
	ClientOrderID    string       `json:"clientOrderId" yaml:"clientOrderId"`
	Symbol           string       `json:"symbol" yaml:"symbol"`
	Side             PurchaseType `json:"side" yaml:"side"`
	Type             OrderType    `json:"type" yaml:"type"`
	PositionSide     PositionType `json:"positionSide,omitempty" yaml:"positionSide,omitempty"`
	Quantity         float64      `json:"quantity" yaml:"quantity"`
	ExecutedQuantity float64      `json:"executedQuantity" yaml:"executedQuantity"`
	Price            float64      `json:"price" yaml:"price"`
	AvgPrice         float64      `json:"avgPrice" yaml:"avgPrice"`
	Status           OrderStatus  `json:"status" yaml:"status"`
	ReduceOnly       bool         `json:"reduceOnly" yaml:"reduceOnly"`
	Timestamp        time.Time    `json:"timestamp" yaml:"timestamp"`
	// RealizedPnL is only populated by the paper simulator.
	RealizedPnL float64 `json:"realizedPnl" yaml:"realizedPnl"`
}

// EntryPrice returns the best known execution price of the order.
func (o Order) EntryPrice() float64 {
	if o.AvgPrice > 0 {
		return o.AvgPrice
	}

	return o.Price
}

// OrderResult is returned by PlaceOrder and CancelOrder.
// PaperState is only present for the simulator.
type OrderResult struct {
	Order      Order       `json:"order"`
	PaperState *PaperState `json:"paperState,omitempty"`
}
