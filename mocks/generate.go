package mocks

//go:generate mockgen -destination=./mock_exchange.go -package=mocks github.com/rxtech-lab/argo-orchestrator/internal/exchange Exchange,FundingRater,MarketData,Streamer
//go:generate mockgen -destination=./mock_registry.go -package=mocks github.com/rxtech-lab/argo-orchestrator/internal/strategy Registry
