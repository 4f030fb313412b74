package types

// Provider names a trading venue.
type Provider string

// Market names a venue product line.
type Market string

const (
	ProviderBinance Provider = "binance"
	ProviderAster   Provider = "aster"
	ProviderOKX     Provider = "okx"
	ProviderPaper   Provider = "paper"
)

// Providers lists the built-in venues.
func Providers() []Provider {
	return []Provider{ProviderBinance, ProviderAster, ProviderOKX, ProviderPaper}
}

const (
	MarketFutures Market = "futures"
	MarketSpot    Market = "spot"
	MarketSwap    Market = "swap"
)

// Credentials authenticate private venue calls.
type Credentials struct {
	APIKey    string `json:"apiKey" yaml:"apiKey" validate:"required"`
	SecretKey string `json:"secretKey" yaml:"secretKey" validate:"required"`
	// Passphrase is required by OKX only.
	Passphrase string `json:"passphrase,omitempty" yaml:"passphrase,omitempty"`
}

// IsZero reports whether no credential was supplied.
func (c Credentials) IsZero() bool {
	return c.APIKey == "" && c.SecretKey == "" && c.Passphrase == ""
}

// ExchangeConfig selects and configures a venue adapter.
type ExchangeConfig struct {
	Provider    Provider    `json:"provider" yaml:"provider" validate:"required"`
	Market      Market      `json:"market" yaml:"market"`
	Credentials Credentials `json:"credentials" yaml:"credentials" validate:"-"`
	Testnet     bool        `json:"testnet" yaml:"testnet"`
	// HedgeMode sends positionSide on futures orders.
	HedgeMode bool `json:"hedgeMode,omitempty" yaml:"hedgeMode,omitempty"`
	// BaseURL overrides the venue REST endpoint.
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	// DataProvider and DataMarket select the public market data feed of the
	// paper simulator. They default to binance futures.
	DataProvider Provider `json:"dataProvider,omitempty" yaml:"dataProvider,omitempty"`
	DataMarket   Market   `json:"dataMarket,omitempty" yaml:"dataMarket,omitempty"`
}
