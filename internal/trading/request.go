package trading

import (
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// Action selects what Run does.
type Action string

const (
	ActionAnalyze  Action = "analyze"
	ActionExecute  Action = "execute"
	ActionStatus   Action = "status"
	ActionCancel   Action = "cancel"
	ActionBacktest Action = "backtest"
	ActionStream   Action = "stream"
)

// Actions lists every supported action.
func Actions() []Action {
	return []Action{ActionAnalyze, ActionExecute, ActionStatus, ActionCancel, ActionBacktest, ActionStream}
}

const (
	// DefaultBacktestLimit is the number of candles fetched for a backtest
	// when none are supplied.
	DefaultBacktestLimit = 500
	// DefaultStreamLimit and DefaultStreamDurationMs bound a stream request
	// that sets neither bound.
	DefaultStreamLimit      = 20
	DefaultStreamDurationMs = 10_000
)

// ExecutionConfig shapes the order built by execute and identifies the order
// targeted by cancel.
type ExecutionConfig struct {
	Type        types.OrderType   `json:"type" yaml:"type" validate:"omitempty,oneof=MARKET LIMIT" jsonschema:"title=Order Type,enum=MARKET,enum=LIMIT,default=MARKET"`
	ReduceOnly  bool              `json:"reduceOnly" yaml:"reduceOnly" jsonschema:"title=Reduce Only"`
	TimeInForce types.TimeInForce `json:"timeInForce" yaml:"timeInForce" validate:"omitempty,oneof=GTC IOC FOK" jsonschema:"title=Time In Force,enum=GTC,enum=IOC,enum=FOK"`
	// QuantityPrecision is the number of decimals kept; nil means 3.
	QuantityPrecision *int `json:"quantityPrecision,omitempty" yaml:"quantityPrecision,omitempty" validate:"omitempty,gte=0,lte=16" jsonschema:"title=Quantity Precision,minimum=0,maximum=16"`
	// Price is the limit price. A LIMIT order without one is priced from the
	// reference price and RiskConfig.SlippageBps.
	Price         optional.Option[float64] `json:"price" yaml:"price" jsonschema:"title=Limit Price"`
	OrderID       string                   `json:"orderId,omitempty" yaml:"orderId,omitempty" jsonschema:"title=Order ID"`
	ClientOrderID string                   `json:"clientOrderId,omitempty" yaml:"clientOrderId,omitempty" jsonschema:"title=Client Order ID"`
}

// BacktestConfig configures the backtest action.
type BacktestConfig struct {
	// Candles replaces the venue history when present.
	Candles []types.Candle `json:"candles,omitempty" yaml:"candles,omitempty" jsonschema:"title=Candles"`
	Capital float64        `json:"capital" yaml:"capital" validate:"gte=0" jsonschema:"title=Initial Capital,minimum=0,default=10000"`
	// Limit is the number of candles fetched from the venue.
	Limit int `json:"limit" yaml:"limit" validate:"gte=0" jsonschema:"title=Candle Limit,minimum=0,default=500"`
}

// Request is the single entry contract of the orchestrator.
type Request struct {
	Action   Action `json:"action" yaml:"action" validate:"required,oneof=analyze execute status cancel backtest stream" jsonschema:"title=Action,enum=analyze,enum=execute,enum=status,enum=cancel,enum=backtest,enum=stream"`
	Symbol   string `json:"symbol" yaml:"symbol" jsonschema:"title=Symbol,description=Venue symbol such as BTCUSDT"`
	Interval string `json:"interval" yaml:"interval" jsonschema:"title=Interval,default=1h"`
	// Limit is the number of candles fetched for analysis.
	Limit    int                  `json:"limit" yaml:"limit" validate:"gte=0" jsonschema:"title=Candle Limit,minimum=0,default=100"`
	Strategy types.StrategyConfig `json:"strategy" yaml:"strategy" jsonschema:"title=Strategy"`
	// Decision bypasses the indicators when present.
	Decision      *types.Decision          `json:"decision,omitempty" yaml:"decision,omitempty" jsonschema:"title=Decision"`
	Quantity      optional.Option[float64] `json:"quantity" yaml:"quantity" jsonschema:"title=Quantity,description=Explicit base-asset quantity"`
	QuoteQuantity optional.Option[float64] `json:"quoteQuantity" yaml:"quoteQuantity" jsonschema:"title=Quote Quantity,description=Notional converted at the reference price"`
	Execution     ExecutionConfig          `json:"execution" yaml:"execution" jsonschema:"title=Execution"`
	Risk          types.RiskConfig         `json:"risk" yaml:"risk" jsonschema:"title=Risk"`
	Performance   types.Performance        `json:"performance" yaml:"performance" jsonschema:"title=Performance"`
	Exchange      types.ExchangeConfig     `json:"exchange" yaml:"exchange" validate:"-" jsonschema:"title=Exchange"`
	PaperState    *types.PaperState        `json:"paperState,omitempty" yaml:"paperState,omitempty" jsonschema:"title=Paper State"`
	Backtest      BacktestConfig           `json:"backtest" yaml:"backtest" jsonschema:"title=Backtest"`
	Stream        types.StreamOptions      `json:"stream" yaml:"stream" jsonschema:"title=Stream"`
}

// Validate checks the request shape. Action-specific requirements such as
// credentials are checked by Run.
func (r *Request) Validate() error {
	if r.Action == "" {
		return errors.New(errors.ErrCodeMissingParameter, "action is required")
	}

	validate := validator.New()
	if err := validate.Var(string(r.Action), "oneof=analyze execute status cancel backtest stream"); err != nil {
		return errors.Newf(errors.ErrCodeUnsupportedAction, "unsupported action: %s", r.Action)
	}

	if r.Symbol == "" {
		return errors.New(errors.ErrCodeMissingSymbol, "symbol is required")
	}

	if r.Exchange.Provider == "" && r.Action != ActionBacktest {
		return errors.New(errors.ErrCodeUnsupportedProvider, "exchange provider is required")
	}

	if err := validate.Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid request", err)
	}

	if r.Quantity.IsSome() && r.Quantity.Unwrap() <= 0 {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "invalid quantity: %v", r.Quantity.Unwrap())
	}

	if r.QuoteQuantity.IsSome() && r.QuoteQuantity.Unwrap() <= 0 {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "invalid quote quantity: %v", r.QuoteQuantity.Unwrap())
	}

	return nil
}

// streamOptions applies the default bounds when the caller set neither.
func (r *Request) streamOptions() types.StreamOptions {
	opts := r.Stream
	if opts.Limit <= 0 && opts.DurationMs <= 0 {
		opts.Limit = DefaultStreamLimit
		opts.DurationMs = DefaultStreamDurationMs
	}

	return opts
}

func (r *Request) orderType() types.OrderType {
	if r.Execution.Type == "" {
		return types.OrderTypeMarket
	}

	return r.Execution.Type
}
