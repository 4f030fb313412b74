package exchange

import (
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// Factory builds an adapter for one provider.
type Factory func(cfg types.ExchangeConfig, opts Options) (Exchange, error)

// ProviderInfo describes a registered venue.
type ProviderInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	// Markets lists the supported markets; the first one is the default.
	Markets            []types.Market `json:"markets"`
	IsPaperTrading     bool           `json:"isPaperTrading"`
	SupportsStreaming  bool           `json:"supportsStreaming"`
	RequiresPassphrase bool           `json:"requiresPassphrase"`
}

type registration struct {
	info    ProviderInfo
	factory Factory
}

var (
	registryMu sync.RWMutex
	registry   = map[types.Provider]registration{}
)

// Register makes a provider available to New. It panics on duplicates, like
// database/sql.Register.
func Register(provider types.Provider, info ProviderInfo, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("exchange: Register factory is nil")
	}

	if _, dup := registry[provider]; dup {
		panic("exchange: Register called twice for provider " + string(provider))
	}

	if info.Name == "" {
		info.Name = string(provider)
	}

	registry[provider] = registration{info: info, factory: factory}
}

// SupportedProviders returns the registered provider names, sorted.
func SupportedProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	providers := make([]string, 0, len(registry))
	for provider := range registry {
		providers = append(providers, string(provider))
	}

	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a registered provider.
func GetProviderInfo(provider string) (ProviderInfo, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	reg, exists := registry[types.Provider(provider)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeUnsupportedProvider, "unsupported provider: %s", provider)
	}

	return reg.info, nil
}

// ResolveMarket validates cfg.Market against the provider, defaulting it to
// the provider's first market.
func ResolveMarket(cfg types.ExchangeConfig) (types.ExchangeConfig, error) {
	info, err := GetProviderInfo(string(cfg.Provider))
	if err != nil {
		return cfg, err
	}

	if cfg.Market == "" {
		if len(info.Markets) > 0 {
			cfg.Market = info.Markets[0]
		}

		return cfg, nil
	}

	if !slices.Contains(info.Markets, cfg.Market) {
		return cfg, errors.Newf(errors.ErrCodeUnsupportedMarket, "provider %s does not support market %s", cfg.Provider, cfg.Market)
	}

	return cfg, nil
}

// New builds the adapter selected by cfg.Provider and cfg.Market.
// Credentials are not checked here; see ValidateCredentials.
func New(cfg types.ExchangeConfig, opts Options) (Exchange, error) {
	if cfg.Provider == "" {
		return nil, errors.New(errors.ErrCodeUnsupportedProvider, "exchange provider is required")
	}

	cfg, err := ResolveMarket(cfg)
	if err != nil {
		return nil, err
	}

	registryMu.RLock()
	reg := registry[cfg.Provider]
	registryMu.RUnlock()

	return reg.factory(cfg, opts)
}

// ValidateCredentials checks the credentials needed for private calls.
// The paper venue needs none.
func ValidateCredentials(cfg types.ExchangeConfig) error {
	info, err := GetProviderInfo(string(cfg.Provider))
	if err != nil {
		return err
	}

	if info.IsPaperTrading {
		return nil
	}

	validate := validator.New()
	if err := validate.Struct(cfg.Credentials); err != nil {
		return errors.Wrapf(errors.ErrCodeMissingCredentials, err, "missing %s credentials", cfg.Provider)
	}

	if info.RequiresPassphrase && cfg.Credentials.Passphrase == "" {
		return errors.Newf(errors.ErrCodeMissingCredentials, "missing %s credentials: passphrase is required", cfg.Provider)
	}

	return nil
}
