package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultFMPBaseURL is the public Financial Modeling Prep v3 API.
const DefaultFMPBaseURL = "https://financialmodelingprep.com/api/v3"

// fmpQuote is a single element of the FMP quote response array.
type fmpQuote struct {
	Symbol string              `json:"symbol"`
	Price  decimal.NullDecimal `json:"price"`
}

// FMPFeed fetches stock and ETF prices from Financial Modeling Prep.
type FMPFeed struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewFMPFeed creates an FMP feed. Without an API key the feed is disabled.
func NewFMPFeed(httpClient *http.Client, baseURL, apiKey string) *FMPFeed {
	if baseURL == "" {
		baseURL = DefaultFMPBaseURL
	}
	return &FMPFeed{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Name returns the feed's display name.
func (f *FMPFeed) Name() string { return "FMP" }

// Enabled reports whether an API key is configured.
func (f *FMPFeed) Enabled() bool { return f.apiKey != "" }

// FetchStocks requests GET {base}/quote/A,B?apikey=KEY and converts the
// returned [{symbol, price}] array into a map. Entries without a price are
// left out.
func (f *FMPFeed) FetchStocks(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	if !f.Enabled() {
		return nil, ErrNotConfigured
	}
	if len(tickers) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	escaped := make([]string, len(tickers))
	for i, t := range tickers {
		escaped[i] = url.PathEscape(t)
	}
	q := url.Values{}
	q.Set("apikey", f.apiKey)

	resp, err := get(ctx, f.httpClient, f.Name(), f.baseURL+"/quote/"+strings.Join(escaped, ",")+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var quotes []fmpQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", f.Name(), err)
	}

	prices := make(map[string]decimal.Decimal, len(quotes))
	for _, q := range quotes {
		if q.Symbol == "" || !q.Price.Valid {
			continue
		}
		prices[q.Symbol] = q.Price.Decimal
	}
	return prices, nil
}
