package feeds

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"invtracker/internal/logger"
	"invtracker/internal/valuation"
)

const (
	// DefaultTimeout bounds each individual feed call.
	DefaultTimeout = 5 * time.Second
	// DefaultRatePerMinute matches the CoinGecko free tier.
	DefaultRatePerMinute = 30
	// DefaultCacheTTL is how long a fetched quote is served from the cache.
	DefaultCacheTTL = 60 * time.Second
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRatePerMinute throttles outbound calls to each feed. Zero or a
// negative value disables throttling.
func WithRatePerMinute(n int) Option {
	return func(f *Fetcher) {
		f.cryptoLimiter = newLimiter(n)
		f.stockLimiter = newLimiter(n)
	}
}

// WithCache serves quotes from c and stores freshly fetched ones for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		if ttl > 0 {
			f.cacheTTL = ttl
		}
	}
}

// WithLogger replaces the package logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Fetcher) { f.log = l }
}

// Fetcher queries both feeds for one valuation request. It never fails:
// any feed error is logged and that feed contributes no quotes.
type Fetcher struct {
	crypto        CryptoFeed
	stocks        StockFeed
	cache         Cache
	cacheTTL      time.Duration
	timeout       time.Duration
	cryptoLimiter *rate.Limiter
	stockLimiter  *rate.Limiter
	log           *zap.SugaredLogger
}

// NewFetcher creates a Fetcher over the two feeds.
func NewFetcher(crypto CryptoFeed, stocks StockFeed, opts ...Option) *Fetcher {
	f := &Fetcher{
		crypto:        crypto,
		stocks:        stocks,
		cacheTTL:      DefaultCacheTTL,
		timeout:       DefaultTimeout,
		cryptoLimiter: newLimiter(DefaultRatePerMinute),
		stockLimiter:  newLimiter(DefaultRatePerMinute),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = logger.Named("feeds")
	}
	return f
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// Fetch requests the coin ids and tickers from their feeds concurrently.
// Empty batches issue no request.
func (f *Fetcher) Fetch(ctx context.Context, cryptoIDs, tickers []string) valuation.Quotes {
	quotes := valuation.EmptyQuotes()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		quotes.Crypto = f.fetchCrypto(ctx, cryptoIDs)
	}()
	go func() {
		defer wg.Done()
		quotes.Stocks = f.fetchStocks(ctx, tickers)
	}()
	wg.Wait()

	return quotes
}

func (f *Fetcher) fetchCrypto(ctx context.Context, ids []string) map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal, len(ids))
	if len(ids) == 0 || f.crypto == nil {
		return out
	}

	for id, price := range f.cached(ctx, ids, CryptoKey) {
		out[id] = map[string]decimal.Decimal{valuation.QuoteCurrency: price}
	}
	missing := missingKeys(ids, func(id string) bool { _, ok := out[id]; return ok })
	if len(missing) == 0 {
		return out
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.cryptoLimiter.Wait(callCtx); err != nil {
		f.log.Warnw("crypto feed throttled, skipping", "feed", f.crypto.Name(), "error", err)
		return out
	}

	fetched, err := f.crypto.FetchCrypto(callCtx, missing, valuation.QuoteCurrency)
	if err != nil {
		f.log.Errorw("crypto feed failed", "feed", f.crypto.Name(), "ids", missing, "error", err)
		return out
	}

	toCache := make(map[string]decimal.Decimal, len(fetched))
	for id, byCurrency := range fetched {
		out[id] = byCurrency
		if p, ok := byCurrency[valuation.QuoteCurrency]; ok {
			toCache[CryptoKey(id)] = p
		}
	}
	f.store(ctx, toCache)
	return out
}

func (f *Fetcher) fetchStocks(ctx context.Context, tickers []string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(tickers))
	if len(tickers) == 0 || f.stocks == nil {
		return out
	}
	if !f.stocks.Enabled() {
		f.log.Infow("stock feed not configured, skipping", "feed", f.stocks.Name())
		return out
	}

	for ticker, price := range f.cached(ctx, tickers, StockKey) {
		out[ticker] = price
	}
	missing := missingKeys(tickers, func(t string) bool { _, ok := out[t]; return ok })
	if len(missing) == 0 {
		return out
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.stockLimiter.Wait(callCtx); err != nil {
		f.log.Warnw("stock feed throttled, skipping", "feed", f.stocks.Name(), "error", err)
		return out
	}

	fetched, err := f.stocks.FetchStocks(callCtx, missing)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return out
		}
		f.log.Errorw("stock feed failed", "feed", f.stocks.Name(), "tickers", missing, "error", err)
		return out
	}

	toCache := make(map[string]decimal.Decimal, len(fetched))
	for ticker, p := range fetched {
		out[ticker] = p
		toCache[StockKey(ticker)] = p
	}
	f.store(ctx, toCache)
	return out
}

// cached returns the cached quotes among names, keyed by name. Cache
// failures count as misses.
func (f *Fetcher) cached(ctx context.Context, names []string, key func(string) string) map[string]decimal.Decimal {
	if f.cache == nil {
		return nil
	}

	keys := make([]string, len(names))
	byKey := make(map[string]string, len(names))
	for i, n := range names {
		keys[i] = key(n)
		byKey[keys[i]] = n
	}

	hits, err := f.cache.GetMany(ctx, keys)
	if err != nil {
		f.log.Warnw("quote cache read failed", "error", err)
		return nil
	}

	out := make(map[string]decimal.Decimal, len(hits))
	for k, v := range hits {
		out[byKey[k]] = v
	}
	return out
}

func (f *Fetcher) store(ctx context.Context, entries map[string]decimal.Decimal) {
	if f.cache == nil || len(entries) == 0 {
		return
	}
	if err := f.cache.SetMany(ctx, entries, f.cacheTTL); err != nil {
		f.log.Warnw("quote cache write failed", "error", err)
	}
}

func missingKeys(names []string, have func(string) bool) []string {
	var missing []string
	for _, n := range names {
		if !have(n) {
			missing = append(missing, n)
		}
	}
	return missing
}
