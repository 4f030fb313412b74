package strategy

import (
	"sync"

	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// Registry manages the available strategies.
type Registry interface {
	Register(name types.StrategyType, evaluator Evaluator) error
	Get(name types.StrategyType) (Evaluator, error)
	List() []types.StrategyType
	// Decide runs the evaluator registered for cfg.Type, or returns Neutral.
	Decide(ind types.Indicators, cfg types.StrategyConfig) types.Decision
}

// RegistryV1 is a concurrency-safe Registry.
type RegistryV1 struct {
	evaluators map[types.StrategyType]Evaluator
	order      []types.StrategyType
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *RegistryV1 {
	return &RegistryV1{
		evaluators: make(map[types.StrategyType]Evaluator),
		order:      []types.StrategyType{},
		mu:         sync.RWMutex{},
	}
}

// NewBuiltinRegistry creates a registry holding the built-in strategies.
func NewBuiltinRegistry() *RegistryV1 {
	r := NewRegistry()
	r.mustRegister(types.StrategySMACrossover, EvaluatorFunc(smaCrossover))
	r.mustRegister(types.StrategyRSIMeanReversion, EvaluatorFunc(rsiMeanReversion))
	r.mustRegister(types.StrategyMomentumBreakout, EvaluatorFunc(momentumBreakout))
	r.mustRegister(types.StrategyManual, EvaluatorFunc(manual))

	return r
}

var (
	defaultRegistry     *RegistryV1
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry of built-in strategies.
func DefaultRegistry() *RegistryV1 {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewBuiltinRegistry()
	})

	return defaultRegistry
}

// Register adds a strategy. Names are unique.
func (r *RegistryV1) Register(name types.StrategyType, evaluator Evaluator) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy name is required")
	}

	if evaluator == nil {
		return errors.Newf(errors.ErrCodeInvalidParameter, "strategy %s has no evaluator", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evaluators[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyExists, "strategy %s already registered", name)
	}

	r.evaluators[name] = evaluator
	r.order = append(r.order, name)

	return nil
}

func (r *RegistryV1) mustRegister(name types.StrategyType, evaluator Evaluator) {
	if err := r.Register(name, evaluator); err != nil {
		panic(err)
	}
}

// Get retrieves a strategy by name.
func (r *RegistryV1) Get(name types.StrategyType) (Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evaluator, exists := r.evaluators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "strategy %s not found", name)
	}

	return evaluator, nil
}

// List returns the registered names in registration order.
func (r *RegistryV1) List() []types.StrategyType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.StrategyType, len(r.order))
	copy(names, r.order)

	return names
}

// Decide runs the evaluator registered for cfg.Type.
// Unknown strategy types fall back to Neutral rather than failing.
func (r *RegistryV1) Decide(ind types.Indicators, cfg types.StrategyConfig) types.Decision {
	evaluator, err := r.Get(cfg.Type)
	if err != nil {
		return Neutral()
	}

	return evaluator.Decide(ind, cfg)
}
