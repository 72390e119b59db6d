package valuation

import "github.com/shopspring/decimal"

// roundingEpsilon is added (away from zero) before rounding so that values
// sitting a hair under a half cent because of binary floating-point input
// still round up.
var roundingEpsilon = decimal.New(1, -12)

// Round2 rounds d to two decimal places, half away from zero. It never uses
// banker's rounding: 1234.565 becomes 1234.57.
func Round2(d decimal.Decimal) decimal.Decimal {
	switch d.Sign() {
	case 1:
		d = d.Add(roundingEpsilon)
	case -1:
		d = d.Sub(roundingEpsilon)
	}
	return d.Round(2)
}
