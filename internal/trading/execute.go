package trading

import (
	"context"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/indicator"
	"github.com/rxtech-lab/argo-orchestrator/internal/risk"
	"github.com/rxtech-lab/argo-orchestrator/internal/sizing"
	"github.com/rxtech-lab/argo-orchestrator/internal/strategy"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// pricePrecision bounds the decimals of a derived limit price.
const pricePrecision = 8

func (o *Orchestrator) analyze(ctx context.Context, req Request) (Result, error) {
	ex, err := o.venue(&req, false)
	if err != nil {
		return Result{}, err
	}

	analysis, err := o.runAnalysis(ctx, ex, req)
	if err != nil {
		return Result{}, err
	}

	return Result{Analysis: &analysis}, nil
}

// fetchMarket loads the snapshot and, when the venue has one, the funding
// rate concurrently. Both must succeed before anything is computed.
func (o *Orchestrator) fetchMarket(ctx context.Context, ex exchange.Exchange, req Request) (types.MarketSnapshot, error) {
	var (
		snapshot types.MarketSnapshot
		funding  optional.Option[float64]
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snapshot, err = ex.GetMarketSnapshot(gctx, req.Symbol, req.Interval, req.Limit)

		return err
	})

	if rater, ok := exchange.AsFundingRater(ex); ok {
		g.Go(func() error {
			rate, err := rater.GetFundingRate(gctx, req.Symbol)
			if err != nil {
				return err
			}

			funding = optional.Some(rate)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.MarketSnapshot{}, err
	}

	if funding.IsSome() {
		snapshot.FundingRate = funding
	}

	return snapshot, nil
}

func (o *Orchestrator) runAnalysis(ctx context.Context, ex exchange.Exchange, req Request) (Analysis, error) {
	snapshot, err := o.fetchMarket(ctx, ex, req)
	if err != nil {
		return Analysis{}, err
	}

	cfg := req.Strategy
	cfg.AllowShort = cfg.AllowShort || req.Risk.ShortAllowed()

	analysis := newAnalysis(req.Symbol, snapshot)

	if strategy.NeedsIndicators(cfg) {
		if len(snapshot.Candles) == 0 {
			return Analysis{}, errors.NewInsufficientDataErrorf(1, 0, req.Symbol, "no candles returned for %s", req.Symbol)
		}

		ind := indicator.ComputeFromCandles(snapshot.Candles, cfg.Periods)
		analysis.Decision = o.registry.Decide(ind, cfg)
		ind.Closes = nil
		analysis.Indicators = &ind
	} else {
		analysis.Decision = o.registry.Decide(types.Indicators{}, cfg)
	}

	analysis.Risk = risk.Evaluate(analysis.Decision, req.Risk, req.Performance)

	return analysis, nil
}

func newAnalysis(symbol string, snapshot types.MarketSnapshot) Analysis {
	return Analysis{
		Symbol:      symbol,
		Price:       snapshot.Price,
		MarkPrice:   snapshot.MarkPrice,
		FundingRate: snapshot.FundingRate,
		CandleCount: len(snapshot.Candles),
		Indicators:  nil,
		Decision:    types.Decision{},
		Risk:        types.RiskEvaluation{},
	}
}

// execute runs the trade pipeline: decide, gate, size, route, report.
func (o *Orchestrator) execute(ctx context.Context, req Request) (Result, error) {
	ex, err := o.venue(&req, true)
	if err != nil {
		return Result{}, err
	}

	var (
		analysis Analysis
		refPrice float64
	)

	if req.Decision != nil {
		decision := o.registry.Decide(types.Indicators{}, types.ManualStrategy(*req.Decision))
		analysis = Analysis{Symbol: req.Symbol, Decision: decision}
		analysis.Risk = risk.Evaluate(decision, req.Risk, req.Performance)

		if decision.Signal == types.SignalFlat {
			return skipped(analysis, req.PaperState), nil
		}

		if !analysis.Risk.Allowed {
			return blocked(analysis, req.PaperState), nil
		}

		snapshot, err := ex.GetMarketSnapshot(ctx, req.Symbol, req.Interval, 1)
		if err != nil {
			return Result{}, err
		}

		decided := analysis
		analysis = newAnalysis(req.Symbol, snapshot)
		analysis.Decision = decided.Decision
		analysis.Risk = decided.Risk
		refPrice = snapshot.ReferencePrice()
	} else {
		analysis, err = o.runAnalysis(ctx, ex, req)
		if err != nil {
			return Result{}, err
		}

		if analysis.Decision.Signal == types.SignalFlat {
			return skipped(analysis, req.PaperState), nil
		}

		if !analysis.Risk.Allowed {
			return blocked(analysis, req.PaperState), nil
		}

		refPrice = analysis.Price
		if refPrice <= 0 {
			refPrice = analysis.MarkPrice
		}
	}

	side, positionSide, ok := types.SideForSignal(analysis.Decision.Signal)
	if !ok {
		return Result{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported signal: %s", analysis.Decision.Signal)
	}

	riskCfg := req.Risk.WithDefaults()

	if (side == types.PurchaseTypeBuy && !req.Risk.LongAllowed()) ||
		(side == types.PurchaseTypeSell && !req.Risk.ShortAllowed()) {
		return Result{}, errors.Newf(errors.ErrCodeSideNotAllowed, "%s orders are not allowed by the risk configuration", side)
	}

	orderReq, err := o.buildOrder(req, riskCfg, side, positionSide, refPrice)
	if err != nil {
		return Result{}, err
	}

	placed, err := ex.PlaceOrder(ctx, orderReq)
	if err != nil {
		return Result{}, err
	}

	o.logger.Info("order routed",
		zap.String("symbol", orderReq.Symbol),
		zap.String("side", string(orderReq.Side)),
		zap.String("type", string(orderReq.Type)),
		zap.Float64("quantity", orderReq.Quantity),
		zap.String("orderId", placed.Order.ID),
		zap.String("status", string(placed.Order.Status)),
	)

	execution := &Execution{
		Status:     ExecutionStatusExecuted,
		Reasons:    nil,
		Analysis:   analysis,
		Order:      &placed.Order,
		Account:    nil,
		Targets:    nil,
		PaperState: placed.PaperState,
	}

	account, err := ex.GetAccountSnapshot(ctx, req.Symbol)
	if err != nil {
		o.logger.Warn("order routed but account snapshot failed", zap.Error(err))
	} else {
		execution.Account = &account
		if account.PaperState != nil {
			execution.PaperState = account.PaperState
		}
	}

	entry := placed.Order.EntryPrice()
	if entry <= 0 {
		entry = refPrice
	}

	targets := ComputeTargets(side, entry, riskCfg.StopLossPct, riskCfg.TakeProfitPct)
	execution.Targets = &targets

	return Result{Execution: execution}, nil
}

func (o *Orchestrator) buildOrder(req Request, riskCfg types.RiskConfig, side types.PurchaseType, positionSide types.PositionType, refPrice float64) (types.OrderRequest, error) {
	precision := sizing.DefaultQuantityPrecision
	if req.Execution.QuantityPrecision != nil {
		precision = *req.Execution.QuantityPrecision
	}

	quantity, err := sizing.Resolve(sizing.Input{
		Quantity:        req.Quantity,
		QuoteQuantity:   req.QuoteQuantity,
		ReferencePrice:  refPrice,
		Equity:          sizing.Equity(req.Performance, req.PaperState),
		PositionRiskPct: riskCfg.PositionRiskPct,
		Leverage:        riskCfg.Leverage,
		MaxPositionSize: riskCfg.MaxPositionSize,
		Precision:       precision,
	})
	if err != nil {
		return types.OrderRequest{}, err
	}

	orderType := req.orderType()

	price := req.Execution.Price
	if orderType == types.OrderTypeLimit && price.IsNone() {
		if refPrice <= 0 {
			return types.OrderRequest{}, errors.New(errors.ErrCodeInvalidMarketData, "no reference price to derive a limit price")
		}

		price = optional.Some(SlippagePrice(side, refPrice, riskCfg.SlippageBps))
	}

	if orderType == types.OrderTypeMarket {
		price = optional.None[float64]()
	}

	clientOrderID := req.Execution.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	orderReq := types.OrderRequest{
		Symbol:         req.Symbol,
		Side:           side,
		Type:           orderType,
		Quantity:       quantity,
		QuoteQuantity:  req.QuoteQuantity,
		Price:          price,
		Leverage:       req.Risk.Leverage,
		PositionSide:   positionSide,
		ReduceOnly:     req.Execution.ReduceOnly,
		TimeInForce:    req.Execution.TimeInForce,
		ClientOrderID:  clientOrderID,
		ReferencePrice: refPrice,
		StopLossPct:    riskCfg.StopLossPct,
		TakeProfitPct:  riskCfg.TakeProfitPct,
	}

	if err := orderReq.Validate(); err != nil {
		return types.OrderRequest{}, err
	}

	return orderReq, nil
}

// SlippagePrice bounds a limit price: above the reference for buys, below it
// for sells.
func SlippagePrice(side types.PurchaseType, refPrice, slippageBps float64) float64 {
	offset := decimal.NewFromFloat(slippageBps).Div(decimal.NewFromInt(10000))
	factor := decimal.NewFromInt(1).Add(offset.Mul(decimal.NewFromFloat(side.Sign())))

	return decimal.NewFromFloat(refPrice).Mul(factor).Round(pricePrecision).InexactFloat64()
}

// ComputeTargets places the stop below and the take-profit above the entry of
// a long, and the reverse for a short.
func ComputeTargets(side types.PurchaseType, entry, stopPct, takePct float64) Targets {
	sign := decimal.NewFromFloat(side.Sign())
	one := decimal.NewFromInt(1)
	price := decimal.NewFromFloat(entry)

	targets := Targets{
		EntryPrice: entry,
		StopLoss:   price.Mul(one.Sub(sign.Mul(decimal.NewFromFloat(stopPct)))).InexactFloat64(),
		TakeProfit: price.Mul(one.Add(sign.Mul(decimal.NewFromFloat(takePct)))).InexactFloat64(),
		RiskReward: 0,
	}

	if stopPct > 0 {
		targets.RiskReward = decimal.NewFromFloat(takePct).Div(decimal.NewFromFloat(stopPct)).InexactFloat64()
	}

	return targets
}

func skipped(analysis Analysis, state *types.PaperState) Result {
	return Result{Execution: &Execution{
		Status:     ExecutionStatusSkipped,
		Reasons:    []string{analysis.Decision.Reason},
		Analysis:   analysis,
		PaperState: state,
	}}
}

func blocked(analysis Analysis, state *types.PaperState) Result {
	return Result{Execution: &Execution{
		Status:     ExecutionStatusBlocked,
		Reasons:    analysis.Risk.Reasons,
		Analysis:   analysis,
		PaperState: state,
	}}
}
