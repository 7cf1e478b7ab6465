package core

import "strings"

// SymbolType classifies a ticker by asset class.
type SymbolType string

const (
	SymbolStock     SymbolType = "stock"
	SymbolCrypto    SymbolType = "crypto"
	SymbolForex     SymbolType = "forex"
	SymbolCommodity SymbolType = "commodity"
)

// ClassifySymbol maps a Yahoo-style ticker to its asset class.
// Crypto pairs end in -USD, forex pairs in =X, futures in =F;
// everything else is treated as a stock.
func ClassifySymbol(symbol string) SymbolType {
	switch {
	case strings.HasSuffix(symbol, "-USD"):
		return SymbolCrypto
	case strings.HasSuffix(symbol, "=X"):
		return SymbolForex
	case strings.HasSuffix(symbol, "=F"):
		return SymbolCommodity
	default:
		return SymbolStock
	}
}

// Symbol universes scanned by the dashboard.
var (
	NasdaqTop10 = []string{
		"NVDA", "AMZN", "MSFT", "PLTR", "AAPL",
		"GOOGL", "TSLA", "AMD", "SMCI", "UBER",
	}

	CryptoTop10 = []string{
		"BTC-USD", "ETH-USD", "BNB-USD", "SOL-USD", "XRP-USD",
		"DOGE-USD", "ADA-USD", "AVAX-USD", "SHIB-USD", "DOT-USD",
	}

	CurrencyTop10 = []string{
		"EURUSD=X", "USDJPY=X", "GBPUSD=X", "AUDUSD=X", "USDCAD=X",
		"USDCHF=X", "NZDUSD=X", "EURJPY=X", "EURGBP=X", "EURCHF=X",
	}

	CommodityTop10 = []string{
		"GC=F", "SI=F", "CL=F", "BZ=F", "NG=F",
		"HG=F", "PL=F", "PA=F", "ZC=F", "ZS=F",
	}
)

// Universe resolves a universe alias to its symbol list. The alias "all"
// concatenates the four universes in stock, crypto, currency, commodity
// order. Unknown aliases return nil.
func Universe(name string) []string {
	switch strings.ToLower(name) {
	case "nasdaq", "stocks":
		return append([]string(nil), NasdaqTop10...)
	case "crypto":
		return append([]string(nil), CryptoTop10...)
	case "currency", "forex":
		return append([]string(nil), CurrencyTop10...)
	case "commodity", "commodities":
		return append([]string(nil), CommodityTop10...)
	case "all":
		all := make([]string, 0, len(NasdaqTop10)+len(CryptoTop10)+len(CurrencyTop10)+len(CommodityTop10))
		all = append(all, NasdaqTop10...)
		all = append(all, CryptoTop10...)
		all = append(all, CurrencyTop10...)
		all = append(all, CommodityTop10...)
		return all
	default:
		return nil
	}
}

// ValidSymbol reports whether s looks like a well-formed ticker: non-empty,
// at most 20 characters, uppercase letters, digits and the separators
// Yahoo tickers use.
func ValidSymbol(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '=' || r == '.' || r == '^':
		default:
			return false
		}
	}
	return true
}
