// Package risk gates decisions on loss limits and side permissions.
package risk

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-orchestrator/internal/types"
)

// Evaluate checks every rule independently and collects all violations in
// rule order. A zero MaxDailyLoss or MaxDrawdown disables that guard.
func Evaluate(decision types.Decision, cfg types.RiskConfig, perf types.Performance) types.RiskEvaluation {
	reasons := []string{}

	if cfg.MaxDailyLoss != 0 {
		limit := math.Abs(cfg.MaxDailyLoss)
		if perf.DailyLoss <= -limit {
			reasons = append(reasons, fmt.Sprintf("daily loss %.2f exceeds limit %.2f", perf.DailyLoss, limit))
		}
	}

	if cfg.MaxDrawdown != 0 {
		limit := math.Abs(cfg.MaxDrawdown)
		if math.Abs(perf.Drawdown) >= limit {
			reasons = append(reasons, fmt.Sprintf("drawdown %.4f exceeds limit %.4f", perf.Drawdown, limit))
		}
	}

	if decision.Signal == types.SignalShort && !cfg.ShortAllowed() {
		reasons = append(reasons, "short positions are not allowed")
	}

	if decision.Signal == types.SignalLong && !cfg.LongAllowed() {
		reasons = append(reasons, "long positions are not allowed")
	}

	return types.RiskEvaluation{
		Allowed: len(reasons) == 0,
		Reasons: reasons,
	}
}
