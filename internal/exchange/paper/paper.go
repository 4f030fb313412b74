// Package paper is the simulated venue. Orders fill immediately at the limit
// price or the reference price against the paper ledger; market data comes
// from a real venue's public endpoints.
package paper

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	ledger "github.com/rxtech-lab/argo-orchestrator/internal/paper"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultDataProvider feeds prices to the simulator.
	DefaultDataProvider = types.ProviderBinance
	// DefaultDataMarket is the market of DefaultDataProvider.
	DefaultDataMarket = types.MarketFutures
)

func init() {
	exchange.Register(types.ProviderPaper, exchange.ProviderInfo{
		Name:               string(types.ProviderPaper),
		DisplayName:        "Paper",
		Description:        "Deterministic simulator filling at the reference price",
		Markets:            []types.Market{types.MarketFutures, types.MarketSpot, types.MarketSwap},
		IsPaperTrading:     true,
		SupportsStreaming:  false,
		RequiresPassphrase: false,
	}, New)
}

// New builds the simulator over the public data of cfg.DataProvider.
func New(cfg types.ExchangeConfig, opts exchange.Options) (exchange.Exchange, error) {
	dataCfg := types.ExchangeConfig{
		Provider:    cfg.DataProvider,
		Market:      cfg.DataMarket,
		Credentials: types.Credentials{},
		Testnet:     cfg.Testnet,
	}

	if dataCfg.Provider == "" {
		dataCfg.Provider = DefaultDataProvider
		if dataCfg.Market == "" {
			dataCfg.Market = DefaultDataMarket
		}
	}

	if dataCfg.Provider == types.ProviderPaper {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "paper data provider cannot be paper")
	}

	data, err := exchange.New(dataCfg, opts)
	if err != nil {
		return nil, err
	}

	return NewExchange(cfg, data, opts), nil
}

// Exchange is the simulated venue.
type Exchange struct {
	market types.Market
	data   exchange.MarketData
	ledger *ledger.Ledger
	now    func() time.Time
	logger *logger.Logger
}

// NewExchange wraps opts.PaperState, or a fresh account when it is nil.
func NewExchange(cfg types.ExchangeConfig, data exchange.MarketData, opts exchange.Options) *Exchange {
	return &Exchange{
		market: cfg.Market,
		data:   data,
		ledger: ledger.NewLedger(opts.PaperState),
		now:    opts.Clock(),
		logger: opts.Logger.Named("paper"),
	}
}

// State returns the simulator state the caller round-trips.
func (e *Exchange) State() *types.PaperState {
	return e.ledger.State()
}

// GetMarketSnapshot delegates to the data venue.
func (e *Exchange) GetMarketSnapshot(ctx context.Context, symbol string, interval string, limit int) (types.MarketSnapshot, error) {
	return e.data.GetMarketSnapshot(ctx, symbol, interval, limit)
}

// GetHistoricalCandles delegates to the data venue.
func (e *Exchange) GetHistoricalCandles(ctx context.Context, symbol string, interval string, limit int) ([]types.Candle, error) {
	return e.data.GetHistoricalCandles(ctx, symbol, interval, limit)
}

// PlaceOrder fills the whole quantity at once. A reduce-only order is capped
// at the opposing position and rejected when there is none.
func (e *Exchange) PlaceOrder(_ context.Context, req types.OrderRequest) (types.OrderResult, error) {
	if err := req.Validate(); err != nil {
		return types.OrderResult{}, err
	}

	symbol := strings.ToUpper(req.Symbol)

	price := req.FillPrice()
	if price <= 0 {
		return types.OrderResult{}, errors.Newf(errors.ErrCodeInvalidMarketData, "no price to fill %s", symbol)
	}

	quantity := req.Quantity

	if req.ReduceOnly {
		position := e.ledger.Position(symbol)
		if position.Quantity == 0 || math.Signbit(position.Quantity) == (req.Side.Sign() < 0) {
			return types.OrderResult{}, errors.Newf(errors.ErrCodeOrderFailed, "reduce-only %s order would open a position in %s", req.Side, symbol)
		}

		quantity = math.Min(quantity, math.Abs(position.Quantity))
	}

	now := e.now()

	fill, err := e.ledger.ProcessFill(ledger.Fill{
		Symbol:   symbol,
		Side:     req.Side,
		Price:    price,
		Quantity: quantity,
		Time:     now,
	})
	if err != nil {
		return types.OrderResult{}, err
	}

	clientOrderID := req.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	order := types.Order{
		ID:               uuid.NewString(),
		ClientOrderID:    clientOrderID,
		Symbol:           symbol,
		Side:             req.Side,
		Type:             req.Type,
		PositionSide:     req.PositionSide,
		Quantity:         quantity,
		ExecutedQuantity: quantity,
		Price:            price,
		AvgPrice:         price,
		Status:           types.OrderStatusFilled,
		ReduceOnly:       req.ReduceOnly,
		Timestamp:        now,
		RealizedPnL:      fill.RealizedPnL,
	}

	e.ledger.Record(order)

	e.logger.Info("paper fill",
		zap.String("symbol", symbol),
		zap.String("side", string(req.Side)),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
		zap.Float64("realizedPnl", fill.RealizedPnL),
		zap.Float64("balance", fill.Balance),
	)

	return types.OrderResult{Order: order, PaperState: e.ledger.State()}, nil
}

// GetAccountSnapshot re-marks symbol at the latest price when the data venue
// answers and reports every open position.
func (e *Exchange) GetAccountSnapshot(ctx context.Context, symbol string) (types.AccountSnapshot, error) {
	symbol = strings.ToUpper(symbol)

	if symbol != "" && e.data != nil {
		snapshot, err := e.data.GetMarketSnapshot(ctx, symbol, "", 1)
		if err != nil {
			e.logger.Warn("keeping stored mark", zap.String("symbol", symbol), zap.Error(err))
		} else if price := snapshot.ReferencePrice(); price > 0 {
			e.ledger.SetMark(symbol, price)
		}
	}

	state := e.ledger.State()
	positions := make([]types.PositionSnapshot, 0, len(state.Positions))

	for _, p := range state.Positions {
		mark, ok := e.ledger.Mark(p.Symbol)
		if !ok {
			mark = p.EntryPrice
		}

		positions = append(positions, types.PositionSnapshot{
			Symbol:        p.Symbol,
			Quantity:      p.Quantity,
			EntryPrice:    p.EntryPrice,
			MarkPrice:     mark,
			UnrealizedPnL: (mark - p.EntryPrice) * p.Quantity,
			Leverage:      1,
			Side:          types.SideOf(p.Quantity),
		})
	}

	return types.AccountSnapshot{
		Provider:         types.ProviderPaper,
		Market:           e.market,
		Symbol:           symbol,
		Balance:          state.Balance,
		Equity:           e.ledger.Equity(),
		AvailableBalance: state.Balance,
		UnrealizedPnL:    e.ledger.UnrealizedPnL(),
		Positions:        positions,
		PaperState:       state,
	}, nil
}

// CancelOrder reports a known order unchanged: paper orders are already
// filled when PlaceOrder returns.
func (e *Exchange) CancelOrder(_ context.Context, req types.CancelRequest) (types.OrderResult, error) {
	if err := req.Validate(); err != nil {
		return types.OrderResult{}, err
	}

	order, ok := e.ledger.FindOrder(req.OrderID, req.ClientOrderID)
	if !ok {
		return types.OrderResult{}, errors.Newf(errors.ErrCodeOrderNotFound, "paper order not found: %s%s", req.OrderID, req.ClientOrderID)
	}

	return types.OrderResult{Order: order, PaperState: e.ledger.State()}, nil
}
