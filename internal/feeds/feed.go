// Package feeds fetches live quotes from the external crypto and stock/ETF
// price APIs.
//
// Feed clients return errors. The Fetcher is the layer that swallows them:
// a failed feed is logged and reported as an empty quote set so valuation
// always proceeds.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrNotConfigured is returned by a feed that cannot be called, such as the
// stock feed without an API key.
var ErrNotConfigured = errors.New("feed not configured")

// CryptoFeed returns quotes keyed by feed coin id, then by vs-currency.
type CryptoFeed interface {
	// Name returns the feed's display name (e.g., "CoinGecko").
	Name() string

	// FetchCrypto requests the given coin ids quoted in currency.
	FetchCrypto(ctx context.Context, ids []string, currency string) (map[string]map[string]decimal.Decimal, error)
}

// StockFeed returns the last price keyed by exchange ticker.
type StockFeed interface {
	// Name returns the feed's display name.
	Name() string

	// Enabled reports whether the feed can be called at all. A disabled
	// feed is skipped without an error.
	Enabled() bool

	// FetchStocks requests the given tickers.
	FetchStocks(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
}

// StatusError is returned when a feed answers with a non-200 status.
type StatusError struct {
	Feed       string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Feed, e.StatusCode)
}

// get issues a GET request and returns the response when the status is 200.
// The caller closes the body.
func get(ctx context.Context, client *http.Client, feed, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", feed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: http request: %w", feed, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &StatusError{Feed: feed, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
