package feeds

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type stubCrypto struct {
	calls  atomic.Int32
	gotIDs []string
	prices map[string]map[string]decimal.Decimal
	err    error
	delay  time.Duration
	mu     sync.Mutex
}

func (s *stubCrypto) Name() string { return "stub-crypto" }

func (s *stubCrypto) FetchCrypto(ctx context.Context, ids []string, _ string) (map[string]map[string]decimal.Decimal, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.gotIDs = append([]string(nil), ids...)
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.prices, nil
}

type stubStocks struct {
	calls   atomic.Int32
	enabled bool
	prices  map[string]decimal.Decimal
	err     error
}

func (s *stubStocks) Name() string  { return "stub-stocks" }
func (s *stubStocks) Enabled() bool { return s.enabled }

func (s *stubStocks) FetchStocks(_ context.Context, _ []string) (map[string]decimal.Decimal, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.prices, nil
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]decimal.Decimal
	getErr  error
}

func (c *mapCache) GetMany(_ context.Context, keys []string) (map[string]decimal.Decimal, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]decimal.Decimal{}
	for _, k := range keys {
		if v, ok := c.entries[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (c *mapCache) SetMany(_ context.Context, entries map[string]decimal.Decimal, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string]decimal.Decimal{}
	}
	for k, v := range entries {
		c.entries[k] = v
	}
	return nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestFetcher(crypto CryptoFeed, stocks StockFeed, opts ...Option) *Fetcher {
	opts = append([]Option{WithLogger(zap.NewNop().Sugar()), WithRatePerMinute(0)}, opts...)
	return NewFetcher(crypto, stocks, opts...)
}

func TestFetcher_Fetch_BothFeeds(t *testing.T) {
	crypto := &stubCrypto{prices: map[string]map[string]decimal.Decimal{"bitcoin": {"inr": d("6000000")}}}
	stocks := &stubStocks{enabled: true, prices: map[string]decimal.Decimal{"TATASTEEL.NS": d("150.25")}}
	f := newTestFetcher(crypto, stocks)

	q := f.Fetch(context.Background(), []string{"bitcoin"}, []string{"TATASTEEL.NS"})

	if !q.Crypto["bitcoin"]["inr"].Equal(d("6000000")) {
		t.Errorf("bitcoin: got %v", q.Crypto["bitcoin"])
	}
	if !q.Stocks["TATASTEEL.NS"].Equal(d("150.25")) {
		t.Errorf("TATASTEEL.NS: got %v", q.Stocks["TATASTEEL.NS"])
	}
}

func TestFetcher_Fetch_EmptyBatchesSkipFeeds(t *testing.T) {
	crypto := &stubCrypto{}
	stocks := &stubStocks{enabled: true}
	f := newTestFetcher(crypto, stocks)

	q := f.Fetch(context.Background(), nil, nil)

	if crypto.calls.Load() != 0 || stocks.calls.Load() != 0 {
		t.Errorf("expected no feed calls, got crypto=%d stocks=%d", crypto.calls.Load(), stocks.calls.Load())
	}
	if q.Crypto == nil || q.Stocks == nil {
		t.Error("expected non-nil empty maps")
	}
}

func TestFetcher_Fetch_FailureIsolated(t *testing.T) {
	t.Run("crypto_failure", func(t *testing.T) {
		crypto := &stubCrypto{err: errors.New("connection refused")}
		stocks := &stubStocks{enabled: true, prices: map[string]decimal.Decimal{"TATASTEEL.NS": d("150")}}
		f := newTestFetcher(crypto, stocks)

		q := f.Fetch(context.Background(), []string{"bitcoin"}, []string{"TATASTEEL.NS"})

		if len(q.Crypto) != 0 {
			t.Errorf("expected empty crypto quotes, got %v", q.Crypto)
		}
		if len(q.Stocks) != 1 {
			t.Errorf("expected stock quotes to survive, got %v", q.Stocks)
		}
	})

	t.Run("stock_failure", func(t *testing.T) {
		crypto := &stubCrypto{prices: map[string]map[string]decimal.Decimal{"bitcoin": {"inr": d("1")}}}
		stocks := &stubStocks{enabled: true, err: &StatusError{Feed: "FMP", StatusCode: 500}}
		f := newTestFetcher(crypto, stocks)

		q := f.Fetch(context.Background(), []string{"bitcoin"}, []string{"TATASTEEL.NS"})

		if len(q.Stocks) != 0 {
			t.Errorf("expected empty stock quotes, got %v", q.Stocks)
		}
		if len(q.Crypto) != 1 {
			t.Errorf("expected crypto quotes to survive, got %v", q.Crypto)
		}
	})
}

func TestFetcher_Fetch_DisabledStockFeed(t *testing.T) {
	stocks := &stubStocks{enabled: false}
	f := newTestFetcher(&stubCrypto{}, stocks)

	q := f.Fetch(context.Background(), nil, []string{"TATASTEEL.NS"})

	if stocks.calls.Load() != 0 {
		t.Error("expected disabled feed not to be called")
	}
	if len(q.Stocks) != 0 {
		t.Errorf("expected no stock quotes, got %v", q.Stocks)
	}
}

func TestFetcher_Fetch_Timeout(t *testing.T) {
	crypto := &stubCrypto{delay: time.Second, prices: map[string]map[string]decimal.Decimal{"bitcoin": {"inr": d("1")}}}
	stocks := &stubStocks{enabled: true, prices: map[string]decimal.Decimal{"X.NS": d("2")}}
	f := newTestFetcher(crypto, stocks, WithTimeout(20*time.Millisecond))

	start := time.Now()
	q := f.Fetch(context.Background(), []string{"bitcoin"}, []string{"X.NS"})

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("expected timeout to bound the call, took %s", elapsed)
	}
	if len(q.Crypto) != 0 {
		t.Errorf("expected timed-out feed to be empty, got %v", q.Crypto)
	}
	if !q.Stocks["X.NS"].Equal(d("2")) {
		t.Errorf("expected stock quotes, got %v", q.Stocks)
	}
}

func TestFetcher_Fetch_Cache(t *testing.T) {
	cache := &mapCache{entries: map[string]decimal.Decimal{
		CryptoKey("bitcoin"):     d("5900000"),
		StockKey("TATASTEEL.NS"): d("149"),
	}}
	crypto := &stubCrypto{prices: map[string]map[string]decimal.Decimal{"ethereum": {"inr": d("250000")}}}
	stocks := &stubStocks{enabled: true}
	f := newTestFetcher(crypto, stocks, WithCache(cache, time.Minute))

	q := f.Fetch(context.Background(), []string{"bitcoin", "ethereum"}, []string{"TATASTEEL.NS"})

	if !q.Crypto["bitcoin"]["inr"].Equal(d("5900000")) {
		t.Errorf("expected cached bitcoin quote, got %v", q.Crypto["bitcoin"])
	}
	if !q.Crypto["ethereum"]["inr"].Equal(d("250000")) {
		t.Errorf("expected fetched ethereum quote, got %v", q.Crypto["ethereum"])
	}
	if len(crypto.gotIDs) != 1 || crypto.gotIDs[0] != "ethereum" {
		t.Errorf("expected only the missing id to be requested, got %v", crypto.gotIDs)
	}
	if stocks.calls.Load() != 0 {
		t.Error("expected fully cached stock batch to skip the feed")
	}
	if _, ok := cache.entries[CryptoKey("ethereum")]; !ok {
		t.Error("expected fetched quote to be cached")
	}
}

func TestFetcher_Fetch_CacheErrorIsMiss(t *testing.T) {
	cache := &mapCache{getErr: errors.New("redis down")}
	crypto := &stubCrypto{prices: map[string]map[string]decimal.Decimal{"bitcoin": {"inr": d("1")}}}
	f := newTestFetcher(crypto, &stubStocks{}, WithCache(cache, time.Minute))

	q := f.Fetch(context.Background(), []string{"bitcoin"}, nil)

	if crypto.calls.Load() != 1 {
		t.Errorf("expected feed to be called on cache failure, got %d calls", crypto.calls.Load())
	}
	if !q.Crypto["bitcoin"]["inr"].Equal(d("1")) {
		t.Errorf("got %v", q.Crypto)
	}
}
