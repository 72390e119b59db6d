package valuation

import (
	"github.com/shopspring/decimal"

	"invtracker/internal/models"
)

// Result is the valuation of one holding. All amounts are rounded with Round2.
type Result struct {
	Quantity           decimal.Decimal
	TotalPurchasePrice decimal.Decimal
	// LivePricePerUnit is nil for Money holdings.
	LivePricePerUnit *decimal.Decimal
	CurrentValue     decimal.Decimal
	ProfitOrLoss     decimal.Decimal
}

// PurchaseTotal returns the total amount paid for the holding. Records that
// only carry a per-unit purchase price are normalized by multiplying with the
// quantity.
func PurchaseTotal(inv *models.Investment) decimal.Decimal {
	if inv.TotalPurchasePrice.Set {
		return inv.TotalPurchasePrice.OrZero()
	}
	if inv.PurchasePricePerUnit.Set {
		return inv.PurchasePricePerUnit.OrZero().Mul(inv.Quantity.OrZero())
	}
	return decimal.Zero
}

// Valuate computes the current value and profit or loss of inv given its
// resolved live price. Malformed numbers have already degraded to zero, so
// Valuate cannot fail.
func Valuate(inv *models.Investment, price *decimal.Decimal) Result {
	quantity := inv.Quantity.OrZero()
	total := Round2(PurchaseTotal(inv))

	if inv.Category == models.CategoryMoney {
		return Result{
			Quantity:           quantity,
			TotalPurchasePrice: total,
			CurrentValue:       total,
			ProfitOrLoss:       decimal.Zero,
		}
	}

	live := decimal.Zero
	if price != nil {
		live = *price
	}

	current := Round2(quantity.Mul(live))
	rounded := Round2(live)

	return Result{
		Quantity:           quantity,
		TotalPurchasePrice: total,
		LivePricePerUnit:   &rounded,
		CurrentValue:       current,
		// Both operands are already at two places, so the difference is exact.
		ProfitOrLoss: current.Sub(total),
	}
}
