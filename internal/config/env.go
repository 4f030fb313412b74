// Package config loads request documents, paper state files and venue
// credentials for the command line and HTTP front ends.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	argoErrors "github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// Env is the process environment of the orchestrator.
type Env struct {
	Binance struct {
		APIKey    string `envconfig:"BINANCE_API_KEY"`
		SecretKey string `envconfig:"BINANCE_SECRET_KEY"`
	}

	Aster struct {
		APIKey    string `envconfig:"ASTER_API_KEY"`
		SecretKey string `envconfig:"ASTER_SECRET_KEY"`
	}

	OKX struct {
		APIKey     string `envconfig:"OKX_API_KEY"`
		SecretKey  string `envconfig:"OKX_SECRET_KEY"`
		Passphrase string `envconfig:"OKX_PASSPHRASE"`
	}

	App struct {
		LogLevel    string        `envconfig:"ARGO_LOG_LEVEL" default:"info"`
		HTTPTimeout time.Duration `envconfig:"ARGO_HTTP_TIMEOUT" default:"10s"`
		ListenAddr  string        `envconfig:"ARGO_LISTEN_ADDR" default:":8080"`
	}
}

// LoadEnv reads the given .env files, then the environment. Missing .env
// files are ignored; variables already set win over file values.
func LoadEnv(files ...string) (*Env, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, argoErrors.Wrapf(argoErrors.ErrCodeInvalidConfiguration, err, "failed to load %s", file)
		}
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, argoErrors.Wrap(argoErrors.ErrCodeInvalidConfiguration, "failed to process environment", err)
	}

	return &env, nil
}

// Credentials returns the credentials configured for provider.
func (e *Env) Credentials(provider types.Provider) types.Credentials {
	switch provider {
	case types.ProviderBinance:
		return types.Credentials{APIKey: e.Binance.APIKey, SecretKey: e.Binance.SecretKey}
	case types.ProviderAster:
		return types.Credentials{APIKey: e.Aster.APIKey, SecretKey: e.Aster.SecretKey}
	case types.ProviderOKX:
		return types.Credentials{APIKey: e.OKX.APIKey, SecretKey: e.OKX.SecretKey, Passphrase: e.OKX.Passphrase}
	default:
		return types.Credentials{}
	}
}

// ApplyCredentials fills cfg.Credentials from the environment when the
// request carries none.
func (e *Env) ApplyCredentials(cfg types.ExchangeConfig) types.ExchangeConfig {
	if e == nil || !cfg.Credentials.IsZero() {
		return cfg
	}

	cfg.Credentials = e.Credentials(cfg.Provider)

	return cfg
}
