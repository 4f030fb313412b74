// Package backtest replays historical candles through the indicator and
// strategy engines and simulates fills with the paper ledger's accounting.
package backtest

import (
	"context"

	"github.com/rxtech-lab/argo-orchestrator/internal/indicator"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/paper"
	"github.com/rxtech-lab/argo-orchestrator/internal/sizing"
	"github.com/rxtech-lab/argo-orchestrator/internal/strategy"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// MinCandles is the warm-up window; the first decision is taken at this index.
	MinCandles = 20
	// DefaultCapital is the starting balance when none is configured.
	DefaultCapital = 10000.0
)

// OnProcessDataCallback is called after each simulated bar.
// Returning an error aborts the run.
type OnProcessDataCallback func(current int, total int) error

type Config struct {
	Symbol   string
	Strategy types.StrategyConfig
	Risk     types.RiskConfig
	Capital  float64
	// Precision is the quantity precision; nil means sizing.DefaultQuantityPrecision.
	Precision *int
	Registry  strategy.Registry
	Logger    *logger.Logger
	// OnProcessData is optional.
	OnProcessData OnProcessDataCallback
}

// Run simulates the strategy bar by bar. For every index i from MinCandles on,
// indicators and the decision see only candles[0..i]. A long or short signal
// against a flat or opposite position trades the new risk-based size plus the
// size of the position it reverses; flat and same-direction signals hold.
//
// Trades are sized against the simulated balance at that bar, not the
// mark-to-market equity of the open position.
func Run(ctx context.Context, candles []types.Candle, cfg Config) (types.BacktestResult, error) {
	if len(candles) < MinCandles {
		return types.BacktestResult{}, errors.NewInsufficientDataErrorf(
			MinCandles, len(candles), cfg.Symbol,
			"backtest requires at least %d candles, got %d", MinCandles, len(candles),
		)
	}

	if cfg.Symbol == "" {
		return types.BacktestResult{}, errors.New(errors.ErrCodeMissingSymbol, "symbol is required")
	}

	capital := cfg.Capital
	if capital <= 0 {
		capital = DefaultCapital
	}

	precision := sizing.DefaultQuantityPrecision
	if cfg.Precision != nil {
		precision = *cfg.Precision
	}

	registry := cfg.Registry
	if registry == nil {
		registry = strategy.DefaultRegistry()
	}

	log := cfg.Logger.Named("backtest")
	riskCfg := cfg.Risk.WithDefaults()
	strategyCfg := cfg.Strategy
	strategyCfg.AllowShort = strategyCfg.AllowShort || riskCfg.ShortAllowed()

	symbol := cfg.Symbol
	ledger := paper.NewLedger(types.NewPaperState(capital))
	state := ledger.State()

	trades := []types.BacktestTrade{}
	peak := capital
	maxDrawdown := 0.0
	winning := 0
	losing := 0
	total := len(candles) - MinCandles

	for i := MinCandles; i < len(candles); i++ {
		if err := ctx.Err(); err != nil {
			return types.BacktestResult{}, errors.Wrap(errors.ErrCodeInternal, "backtest cancelled", err)
		}

		candle := candles[i]
		ind := indicator.ComputeFromCandles(candles[:i+1], strategyCfg.Periods)
		decision := registry.Decide(ind, strategyCfg)

		ledger.SetMark(symbol, candle.Close)

		if trade, ok := step(ledger, symbol, candle, decision, riskCfg, precision, log); ok {
			trades = append(trades, trade)

			switch {
			case trade.RealizedPnL > 0:
				winning++
			case trade.RealizedPnL < 0:
				losing++
			}
		}

		if state.Balance > peak {
			peak = state.Balance
		}

		if peak > 0 {
			if drawdown := (state.Balance - peak) / peak; drawdown < maxDrawdown {
				maxDrawdown = drawdown
			}
		}

		if cfg.OnProcessData != nil {
			if err := cfg.OnProcessData(i-MinCandles+1, total); err != nil {
				return types.BacktestResult{}, err
			}
		}
	}

	position := ledger.Position(symbol)
	lastClose := candles[len(candles)-1].Close
	unrealized := decimal.NewFromFloat(position.Quantity).
		Mul(decimal.NewFromFloat(lastClose).Sub(decimal.NewFromFloat(position.EntryPrice)))
	capitalDec := decimal.NewFromFloat(capital)
	finalBalance := decimal.NewFromFloat(state.Balance)
	roi := finalBalance.Add(unrealized).Sub(capitalDec).Div(capitalDec)

	log.Debug("backtest finished",
		zap.String("symbol", symbol),
		zap.Int("trades", len(trades)),
		zap.Float64("final_balance", state.Balance),
		zap.Float64("roi", roi.InexactFloat64()),
	)

	return types.BacktestResult{
		Symbol:   symbol,
		Strategy: strategyCfg.Type,
		Trades:   trades,
		Stats: types.BacktestStats{
			TradeCount:     len(trades),
			InitialCapital: capital,
			FinalBalance:   state.Balance,
			ROI:            roi.InexactFloat64(),
			MaxDrawdown:    maxDrawdown,
			WinningTrades:  winning,
			LosingTrades:   losing,
			RealizedPnL:    finalBalance.Sub(capitalDec).InexactFloat64(),
			UnrealizedPnL:  unrealized.InexactFloat64(),
		},
		EquityCurve:   state.EquityCurve,
		FinalPosition: position,
	}, nil
}

// step trades one bar when the decision calls for it.
func step(
	ledger *paper.Ledger,
	symbol string,
	candle types.Candle,
	decision types.Decision,
	riskCfg types.RiskConfig,
	precision int,
	log *logger.Logger,
) (types.BacktestTrade, bool) {
	side, _, ok := types.SideForSignal(decision.Signal)
	if !ok {
		return types.BacktestTrade{}, false
	}

	if (side == types.PurchaseTypeBuy && !riskCfg.LongAllowed()) ||
		(side == types.PurchaseTypeSell && !riskCfg.ShortAllowed()) {
		return types.BacktestTrade{}, false
	}

	current := ledger.Position(symbol).Quantity
	if current != 0 && (current > 0) == (side == types.PurchaseTypeBuy) {
		return types.BacktestTrade{}, false
	}

	size, err := sizing.Resolve(sizing.Input{
		ReferencePrice:  candle.Close,
		Equity:          ledger.State().Balance,
		PositionRiskPct: riskCfg.PositionRiskPct,
		Leverage:        riskCfg.EffectiveLeverage(),
		MaxPositionSize: riskCfg.MaxPositionSize,
		Precision:       precision,
	})
	if err != nil {
		log.Debug("skipping bar", zap.Time("time", candle.OpenTime), zap.Error(err))

		return types.BacktestTrade{}, false
	}

	quantity := decimal.NewFromFloat(size).Add(decimal.NewFromFloat(current).Abs()).InexactFloat64()

	result, err := ledger.ProcessFill(paper.Fill{
		Symbol:   symbol,
		Side:     side,
		Price:    candle.Close,
		Quantity: quantity,
		Time:     candle.OpenTime,
	})
	if err != nil {
		log.Debug("fill rejected", zap.Time("time", candle.OpenTime), zap.Error(err))

		return types.BacktestTrade{}, false
	}

	return types.BacktestTrade{
		Time:        candle.OpenTime,
		Side:        side,
		Price:       candle.Close,
		Quantity:    quantity,
		RealizedPnL: result.RealizedPnL,
		Balance:     result.Balance,
		Position:    result.Position.Quantity,
		Confidence:  decision.Confidence,
		Reason:      decision.Reason,
	}, true
}
