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

// DefaultCoinGeckoBaseURL is the public CoinGecko v3 API.
const DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoFeed fetches crypto prices from the CoinGecko simple price endpoint.
type CoinGeckoFeed struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewCoinGeckoFeed creates a CoinGecko feed. An empty baseURL selects the
// public API.
func NewCoinGeckoFeed(httpClient *http.Client, baseURL string) *CoinGeckoFeed {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoBaseURL
	}
	return &CoinGeckoFeed{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the feed's display name.
func (f *CoinGeckoFeed) Name() string { return "CoinGecko" }

// FetchCrypto requests GET {base}/simple/price?ids=a,b&vs_currencies=inr and
// returns the response as-is: {"bitcoin": {"inr": 6000000}}.
func (f *CoinGeckoFeed) FetchCrypto(ctx context.Context, ids []string, currency string) (map[string]map[string]decimal.Decimal, error) {
	if len(ids) == 0 {
		return map[string]map[string]decimal.Decimal{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", currency)

	resp, err := get(ctx, f.httpClient, f.Name(), f.baseURL+"/simple/price?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var prices map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", f.Name(), err)
	}
	if prices == nil {
		prices = map[string]map[string]decimal.Decimal{}
	}
	return prices, nil
}
