// Package all registers every built-in venue with the exchange factory.
package all

import (
	_ "github.com/rxtech-lab/argo-orchestrator/internal/exchange/aster"
	_ "github.com/rxtech-lab/argo-orchestrator/internal/exchange/binance"
	_ "github.com/rxtech-lab/argo-orchestrator/internal/exchange/okx"
	_ "github.com/rxtech-lab/argo-orchestrator/internal/exchange/paper"
)
