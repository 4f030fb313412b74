package trading

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// ExecutionStatus is the terminal state of execute.
type ExecutionStatus string

const (
	ExecutionStatusExecuted ExecutionStatus = "executed"
	// ExecutionStatusBlocked means the risk gate refused the trade.
	ExecutionStatusBlocked ExecutionStatus = "blocked"
	// ExecutionStatusSkipped means the decision was flat.
	ExecutionStatusSkipped ExecutionStatus = "skipped"
)

// Analysis is the side-effect free part of analyze and execute.
type Analysis struct {
	Symbol      string                   `json:"symbol"`
	Price       float64                  `json:"price"`
	MarkPrice   float64                  `json:"markPrice"`
	FundingRate optional.Option[float64] `json:"fundingRate"`
	CandleCount int                      `json:"candleCount"`
	// Indicators is nil when the decision was supplied by the caller.
	Indicators *types.Indicators     `json:"indicators,omitempty"`
	Decision   types.Decision        `json:"decision"`
	Risk       types.RiskEvaluation `json:"risk"`
}

// Targets are the protective prices derived from the entry price.
type Targets struct {
	EntryPrice float64 `json:"entryPrice"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
	RiskReward float64 `json:"riskReward"`
}

// Execution is the outcome of execute.
type Execution struct {
	Status   ExecutionStatus `json:"status"`
	Reasons  []string        `json:"reasons,omitempty"`
	Analysis Analysis        `json:"analysis"`
	Order    *types.Order    `json:"order,omitempty"`
	// Account is the snapshot taken after the order was routed.
	Account    *types.AccountSnapshot `json:"account,omitempty"`
	Targets    *Targets               `json:"targets,omitempty"`
	PaperState *types.PaperState      `json:"paperState,omitempty"`
}

// Result is keyed by Action: exactly one payload field is set on success.
type Result struct {
	Action    Action           `json:"action"`
	Success   bool             `json:"success"`
	Timestamp time.Time        `json:"timestamp"`
	Message   string           `json:"message,omitempty"`
	ErrorCode errors.ErrorCode `json:"errorCode,omitempty"`

	Analysis  *Analysis             `json:"analysis,omitempty"`
	Execution *Execution            `json:"execution,omitempty"`
	Status    *types.AccountSnapshot `json:"status,omitempty"`
	Cancel    *types.OrderResult    `json:"cancel,omitempty"`
	Backtest  *types.BacktestResult `json:"backtest,omitempty"`
	Stream    *types.StreamResult   `json:"stream,omitempty"`
}

// PaperState returns the simulator state carried by the result, if any.
func (r Result) PaperState() *types.PaperState {
	switch {
	case r.Execution != nil && r.Execution.PaperState != nil:
		return r.Execution.PaperState
	case r.Status != nil && r.Status.PaperState != nil:
		return r.Status.PaperState
	case r.Cancel != nil && r.Cancel.PaperState != nil:
		return r.Cancel.PaperState
	default:
		return nil
	}
}

func failure(action Action, at time.Time, err error) Result {
	return Result{
		Action:    action,
		Success:   false,
		Timestamp: at,
		Message:   err.Error(),
		ErrorCode: errors.GetCode(err),
	}
}
