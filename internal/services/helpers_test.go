package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invtracker/internal/repository"
	"invtracker/internal/testutil"
	"invtracker/internal/valuation"
)

// stubFetcher returns fixed quotes and records the requested batches.
type stubFetcher struct {
	mu      sync.Mutex
	quotes  valuation.Quotes
	crypto  [][]string
	tickers [][]string
}

func (f *stubFetcher) Fetch(_ context.Context, cryptoIDs, tickers []string) valuation.Quotes {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.crypto = append(f.crypto, cryptoIDs)
	f.tickers = append(f.tickers, tickers)
	return f.quotes
}

func testQuotes() valuation.Quotes {
	q := valuation.EmptyQuotes()
	q.Crypto["bitcoin"] = map[string]decimal.Decimal{"inr": decimal.RequireFromString("6000000")}
	q.Stocks["TATASTEEL.NS"] = decimal.RequireFromString("150.25")
	return q
}

type serviceEnv struct {
	db       *gorm.DB
	stores   *repository.Stores
	fetcher  *stubFetcher
	resolver *valuation.Resolver
}

func setupServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return &serviceEnv{
		db:       db,
		stores:   repository.NewGormStores(db),
		fetcher:  &stubFetcher{quotes: testQuotes()},
		resolver: valuation.NewResolver(valuation.DefaultMappings()),
	}
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse("2006-01-02 15:04", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
