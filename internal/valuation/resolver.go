// Package valuation resolves live prices for holdings and computes their
// current value, profit or loss, and the daily portfolio total.
//
// Everything in this package is pure: feed data arrives already fetched
// (possibly empty) and nothing here touches the network or a store.
package valuation

import (
	"sort"

	"github.com/shopspring/decimal"

	"invtracker/internal/models"
)

// QuoteCurrency is the vs-currency requested from the crypto feed.
const QuoteCurrency = "inr"

// Overrides maps a lower-cased asset name to a manual per-unit price.
type Overrides map[string]models.Amount

// Quotes is the fetched content of both price feeds for one request.
type Quotes struct {
	// Crypto maps a feed coin id to its price per vs-currency,
	// e.g. {"bitcoin": {"inr": 6000000}}.
	Crypto map[string]map[string]decimal.Decimal
	// Stocks maps an exchange ticker to its last price.
	Stocks map[string]decimal.Decimal
}

// EmptyQuotes returns Quotes with both feeds empty.
func EmptyQuotes() Quotes {
	return Quotes{
		Crypto: map[string]map[string]decimal.Decimal{},
		Stocks: map[string]decimal.Decimal{},
	}
}

// Resolver picks a single live price for a holding.
type Resolver struct {
	mappings Mappings
}

// NewResolver creates a Resolver using the given identity tables.
func NewResolver(m Mappings) *Resolver {
	return &Resolver{mappings: m}
}

// Resolve returns the live per-unit price of inv. The first matching rule wins:
//
//  1. Money holdings have no per-unit price: nil.
//  2. A manual override for the lower-cased name (malformed override: 0).
//  3. Crypto with a mapped coin id quoted in QuoteCurrency.
//  4. Stocks / ETF Groww with a mapped ticker present in the stock quotes.
//  5. Otherwise 0, meaning "no price found".
func (r *Resolver) Resolve(inv *models.Investment, overrides Overrides, quotes Quotes) *decimal.Decimal {
	if inv.Category == models.CategoryMoney {
		return nil
	}

	name := inv.LookupName()

	if override, ok := overrides[name]; ok {
		p := override.OrZero()
		return &p
	}

	if inv.Category == models.CategoryCrypto {
		if id, ok := r.mappings.Crypto[name]; ok {
			if byCurrency, ok := quotes.Crypto[id]; ok {
				if p, ok := byCurrency[QuoteCurrency]; ok {
					return &p
				}
			}
		}
	}

	if inv.Category.IsStockLike() {
		if ticker, ok := r.mappings.Stocks[name]; ok {
			if p, ok := quotes.Stocks[ticker]; ok {
				return &p
			}
		}
	}

	zero := decimal.Zero
	return &zero
}

// ResolveAll resolves a price for every holding, keyed by investment id.
func (r *Resolver) ResolveAll(investments []models.Investment, overrides Overrides, quotes Quotes) map[string]*decimal.Decimal {
	prices := make(map[string]*decimal.Decimal, len(investments))
	for i := range investments {
		prices[investments[i].ID] = r.Resolve(&investments[i], overrides, quotes)
	}
	return prices
}

// CryptoIDs returns the sorted, de-duplicated coin ids worth requesting for
// the given holdings: mapped Crypto holdings only.
func (r *Resolver) CryptoIDs(investments []models.Investment) []string {
	seen := make(map[string]struct{})
	for i := range investments {
		if investments[i].Category != models.CategoryCrypto {
			continue
		}
		if id, ok := r.mappings.Crypto[investments[i].LookupName()]; ok {
			seen[id] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// StockTickers returns the sorted, de-duplicated tickers worth requesting for
// the given holdings: mapped Stocks and ETF Groww holdings only.
func (r *Resolver) StockTickers(investments []models.Investment) []string {
	seen := make(map[string]struct{})
	for i := range investments {
		if !investments[i].Category.IsStockLike() {
			continue
		}
		if ticker, ok := r.mappings.Stocks[investments[i].LookupName()]; ok {
			seen[ticker] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
