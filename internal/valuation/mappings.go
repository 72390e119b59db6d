package valuation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Mappings holds the hand-maintained asset identity tables. Keys are
// lower-cased asset names; an asset whose name is missing from the relevant
// table can never be priced by that feed.
type Mappings struct {
	// Crypto maps an asset name to a CoinGecko coin id.
	Crypto map[string]string `json:"crypto"`
	// Stocks maps a stock or ETF name to an exchange ticker.
	Stocks map[string]string `json:"stocks"`
}

// DefaultMappings returns the built-in identity tables.
func DefaultMappings() Mappings {
	return Mappings{
		Crypto: map[string]string{
			"btc":   "bitcoin",
			"eth":   "ethereum",
			"xrp":   "ripple",
			"sol":   "solana",
			"doge":  "dogecoin",
			"trump": "maga",
		},
		Stocks: map[string]string{
			// Stocks
			"pateleng":    "PATELENG.NS",
			"tata steel":  "TATASTEEL.NS",
			"tata motors": "TATAMOTORS.NS",
			// ETFs
			"juniorbees":                  "JUNIORBEES.NS",
			"hdfcsml250":                  "HDFCSML250.NS",
			"motilal-nasdaq 100":          "MON100.NS",
			"cpse etf":                    "CPSEETF.NS",
			"nippon etf nifty midcap 150": "MID150BEES.NS",
			"silverbees":                  "SILVERBEES.NS",
			"mahaktech":                   "MAHKTECH.NS",
			"sensexetf":                   "SENSEXETF.NS",
			"nippon india etf gold bees":  "GOLDBEES.NS",
			"mirae asset nyse fang+etf":   "MAFANG.NS",
			"niftybees":                   "NIFTYBEES.NS",
		},
	}
}

// LoadMappings reads identity tables from a JSON file of the form
// {"crypto": {...}, "stocks": {...}}. An empty path returns the defaults.
// Keys are lower-cased on load.
func LoadMappings(path string) (Mappings, error) {
	if path == "" {
		return DefaultMappings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Mappings{}, fmt.Errorf("reading asset mappings: %w", err)
	}

	var m Mappings
	if err := json.Unmarshal(data, &m); err != nil {
		return Mappings{}, fmt.Errorf("decoding asset mappings %s: %w", path, err)
	}

	return Mappings{Crypto: lowerKeys(m.Crypto), Stocks: lowerKeys(m.Stocks)}, nil
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}
