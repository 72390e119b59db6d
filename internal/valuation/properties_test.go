package valuation

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"invtracker/internal/models"
)

// cents turns a generated integer into an amount with two decimal places.
func cents(n int64) decimal.Decimal {
	return decimal.New(n, -2)
}

func TestValuationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	r := NewResolver(DefaultMappings())

	properties.Property("money current value equals purchase price", prop.ForAll(
		func(total, price int64) bool {
			inv := models.Investment{
				Category:           models.CategoryMoney,
				Name:               "btc",
				TotalPurchasePrice: models.NewAmount(cents(total)),
			}
			p := r.Resolve(&inv, Overrides{"btc": models.NewAmount(cents(price))}, testQuotes())
			got := Valuate(&inv, p)
			return p == nil &&
				got.CurrentValue.Equal(cents(total)) &&
				got.ProfitOrLoss.IsZero() &&
				got.LivePricePerUnit == nil
		},
		gen.Int64Range(0, 1_000_000_000),
		gen.Int64Range(0, 1_000_000_000),
	))

	properties.Property("current value is rounded quantity times price", prop.ForAll(
		func(qty, price int64) bool {
			inv := models.Investment{
				Category: models.CategoryStocks,
				Quantity: models.NewAmount(decimal.New(qty, -3)),
			}
			p := cents(price)
			got := Valuate(&inv, &p)
			return got.CurrentValue.Equal(Round2(decimal.New(qty, -3).Mul(p)))
		},
		gen.Int64Range(0, 10_000_000),
		gen.Int64Range(0, 100_000_000),
	))

	properties.Property("profit or loss is current value minus purchase total", prop.ForAll(
		func(qty, price, total int64) bool {
			inv := models.Investment{
				Category:           models.CategoryCrypto,
				Quantity:           models.NewAmount(decimal.New(qty, -4)),
				TotalPurchasePrice: models.NewAmount(decimal.New(total, -3)),
			}
			p := cents(price)
			got := Valuate(&inv, &p)
			return got.ProfitOrLoss.Equal(got.CurrentValue.Sub(got.TotalPurchasePrice))
		},
		gen.Int64Range(0, 10_000_000),
		gen.Int64Range(0, 100_000_000),
		gen.Int64Range(0, 1_000_000_000),
	))

	properties.Property("override wins over feed quotes", prop.ForAll(
		func(override int64, stock bool) bool {
			inv := models.Investment{Category: models.CategoryCrypto, Name: "BTC"}
			if stock {
				inv = models.Investment{Category: models.CategoryStocks, Name: "Tata Steel"}
			}
			name := inv.LookupName()
			p := r.Resolve(&inv, Overrides{name: models.NewAmount(cents(override))}, testQuotes())
			return p != nil && p.Equal(cents(override))
		},
		gen.Int64Range(0, 1_000_000_000),
		gen.Bool(),
	))

	properties.Property("rounding is idempotent", prop.ForAll(
		func(n int64) bool {
			d := decimal.New(n, -5)
			once := Round2(d)
			return Round2(once).Equal(once)
		},
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
	))

	properties.Property("snapshot on the same day keeps one entry", prop.ForAll(
		func(first, second int64) bool {
			series := Upsert(nil, "2026-05-01", cents(first))
			series = Upsert(series, "2026-05-01", cents(second))
			return len(series) == 1 && series[0].Value.Equal(cents(second))
		},
		gen.Int64Range(0, 1_000_000_000),
		gen.Int64Range(0, 1_000_000_000),
	))

	properties.TestingRun(t)
}
