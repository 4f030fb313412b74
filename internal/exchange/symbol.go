package exchange

import "strings"

// knownQuotes is ordered so longer suffixes match first.
var knownQuotes = []string{"FDUSD", "USDT", "USDC", "BUSD", "TUSD", "BTC", "ETH", "BNB"}

// SplitSymbol splits a concatenated symbol such as BTCUSDT into base and
// quote. Dashed symbols such as BTC-USDT-SWAP are accepted too. Unknown
// quotes default to USDT.
func SplitSymbol(symbol string) (base string, quote string) {
	symbol = strings.ToUpper(symbol)

	if parts := strings.Split(symbol, "-"); len(parts) >= 2 {
		return parts[0], parts[1]
	}

	for _, q := range knownQuotes {
		if strings.HasSuffix(symbol, q) && len(symbol) > len(q) {
			return strings.TrimSuffix(symbol, q), q
		}
	}

	return symbol, "USDT"
}
