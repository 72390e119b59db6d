package valuation

import (
	"testing"

	"github.com/shopspring/decimal"

	"invtracker/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(s string) models.Amount {
	return models.NewAmount(dec(s))
}

func assertDecimal(t *testing.T, field string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s: got %s, want %s", field, got, want)
	}
}
