// Package trading is the execution orchestrator: one stateless Run call per
// action, routing to the venue selected by the request.
package trading

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rxtech-lab/argo-orchestrator/internal/backtest"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/stream"
	"github.com/rxtech-lab/argo-orchestrator/internal/strategy"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"go.uber.org/zap"
)

// Factory builds the venue adapter of a request.
type Factory func(cfg types.ExchangeConfig, opts exchange.Options) (exchange.Exchange, error)

// Orchestrator runs requests. It holds no per-request state and is safe for
// concurrent use, except that callers must serialise requests sharing one
// PaperState.
type Orchestrator struct {
	factory     Factory
	registry    strategy.Registry
	collector   *stream.Collector
	logger      *logger.Logger
	now         func() time.Time
	httpTimeout time.Duration
	onProgress  backtest.OnProcessDataCallback
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithFactory replaces exchange.New.
func WithFactory(factory Factory) OrchestratorOption {
	return func(o *Orchestrator) {
		o.factory = factory
	}
}

// WithRegistry replaces the built-in strategy registry.
func WithRegistry(registry strategy.Registry) OrchestratorOption {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = log
	}
}

// WithClock sets the clock used for timestamps and paper fills.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithHTTPTimeout bounds every venue REST call.
func WithHTTPTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.httpTimeout = timeout
	}
}

// WithBacktestProgress reports backtest progress.
func WithBacktestProgress(cb backtest.OnProcessDataCallback) OrchestratorOption {
	return func(o *Orchestrator) {
		o.onProgress = cb
	}
}

// NewOrchestrator creates an Orchestrator over the registered venues.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		factory:     exchange.New,
		registry:    strategy.DefaultRegistry(),
		collector:   nil,
		logger:      nil,
		now:         time.Now,
		httpTimeout: exchange.DefaultHTTPTimeout,
		onProgress:  nil,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logger.NewNopLogger()
	}

	o.collector = stream.NewCollector(o.logger)

	return o
}

// Run executes one request. It never returns an error: every failure,
// including a panic, becomes a Result with Success false.
func (o *Orchestrator) Run(ctx context.Context, req Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("orchestrator panic",
				zap.String("action", string(req.Action)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)

			result = failure(req.Action, o.now(), errors.Newf(errors.ErrCodeInternal, "internal error: %v", r))
		}
	}()

	if err := req.Validate(); err != nil {
		return failure(req.Action, o.now(), err)
	}

	log := o.logger.With(
		zap.String("action", string(req.Action)),
		zap.String("symbol", req.Symbol),
		zap.String("provider", string(req.Exchange.Provider)),
	)
	log.Debug("running request")

	result, err := o.dispatch(ctx, req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))

		return failure(req.Action, o.now(), err)
	}

	result.Action = req.Action
	result.Success = true
	result.Timestamp = o.now()

	return result
}

func (o *Orchestrator) dispatch(ctx context.Context, req Request) (Result, error) {
	switch req.Action {
	case ActionAnalyze:
		return o.analyze(ctx, req)
	case ActionExecute:
		return o.execute(ctx, req)
	case ActionStatus:
		return o.status(ctx, req)
	case ActionCancel:
		return o.cancel(ctx, req)
	case ActionBacktest:
		return o.backtest(ctx, req)
	case ActionStream:
		return o.stream(ctx, req)
	default:
		return Result{}, errors.Newf(errors.ErrCodeUnsupportedAction, "unsupported action: %s", req.Action)
	}
}

// venue builds the adapter. Private actions on live venues need credentials.
func (o *Orchestrator) venue(req *Request, private bool) (exchange.Exchange, error) {
	cfg, err := exchange.ResolveMarket(req.Exchange)
	if err != nil {
		return nil, err
	}

	info, err := exchange.GetProviderInfo(string(cfg.Provider))
	if err != nil {
		return nil, err
	}

	if info.IsPaperTrading && req.PaperState == nil {
		req.PaperState = types.NewPaperState(types.DefaultPaperBalance)
	}

	if private {
		if err := exchange.ValidateCredentials(cfg); err != nil {
			return nil, err
		}
	}

	ex, err := o.factory(cfg, exchange.Options{
		Logger:      o.logger,
		PaperState:  req.PaperState,
		HTTPTimeout: o.httpTimeout,
		Now:         o.now,
	})
	if err != nil {
		return nil, err
	}

	if ex == nil {
		return nil, errors.New(errors.ErrCodeInternal, fmt.Sprintf("provider %s built no adapter", cfg.Provider))
	}

	return ex, nil
}

func (o *Orchestrator) status(ctx context.Context, req Request) (Result, error) {
	ex, err := o.venue(&req, true)
	if err != nil {
		return Result{}, err
	}

	snapshot, err := ex.GetAccountSnapshot(ctx, req.Symbol)
	if err != nil {
		return Result{}, err
	}

	return Result{Status: &snapshot}, nil
}

func (o *Orchestrator) cancel(ctx context.Context, req Request) (Result, error) {
	cancelReq := types.CancelRequest{
		Symbol:        req.Symbol,
		OrderID:       req.Execution.OrderID,
		ClientOrderID: req.Execution.ClientOrderID,
	}

	if err := cancelReq.Validate(); err != nil {
		return Result{}, err
	}

	ex, err := o.venue(&req, true)
	if err != nil {
		return Result{}, err
	}

	cancelled, err := ex.CancelOrder(ctx, cancelReq)
	if err != nil {
		return Result{}, err
	}

	o.logger.Info("order cancelled",
		zap.String("symbol", req.Symbol),
		zap.String("orderId", cancelled.Order.ID),
		zap.String("status", string(cancelled.Order.Status)),
	)

	return Result{Cancel: &cancelled}, nil
}

func (o *Orchestrator) backtest(ctx context.Context, req Request) (Result, error) {
	candles := req.Backtest.Candles

	if len(candles) == 0 {
		if req.Exchange.Provider == "" {
			return Result{}, errors.New(errors.ErrCodeUnsupportedProvider, "exchange provider is required to fetch backtest candles")
		}

		ex, err := o.venue(&req, false)
		if err != nil {
			return Result{}, err
		}

		limit := req.Backtest.Limit
		if limit <= 0 {
			limit = DefaultBacktestLimit
		}

		candles, err = ex.GetHistoricalCandles(ctx, req.Symbol, req.Interval, limit)
		if err != nil {
			return Result{}, err
		}
	}

	result, err := backtest.Run(ctx, candles, backtest.Config{
		Symbol:        req.Symbol,
		Strategy:      req.Strategy,
		Risk:          req.Risk,
		Capital:       req.Backtest.Capital,
		Precision:     req.Execution.QuantityPrecision,
		Registry:      o.registry,
		Logger:        o.logger,
		OnProcessData: o.onProgress,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Backtest: &result}, nil
}

func (o *Orchestrator) stream(ctx context.Context, req Request) (Result, error) {
	ex, err := o.venue(&req, false)
	if err != nil {
		return Result{}, err
	}

	streamer, ok := exchange.AsStreamer(ex)
	if !ok {
		return Result{}, errors.Newf(errors.ErrCodeStreamingUnsupported, "provider %s does not support streaming", req.Exchange.Provider)
	}

	collected, err := o.collector.Collect(ctx, streamer, req.Symbol, req.streamOptions())
	if err != nil {
		return Result{}, err
	}

	return Result{Stream: &collected}, nil
}
