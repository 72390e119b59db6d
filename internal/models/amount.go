package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a lenient decimal value. It records whether a value was present
// at all, so that legacy records can tell "no total purchase price" apart
// from "a total purchase price of zero".
//
// Present but malformed values (a non-numeric string, a bool, an object)
// decode as a set zero instead of failing the whole record.
type Amount struct {
	Decimal decimal.Decimal
	Set     bool
}

// NewAmount returns a set Amount holding d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d, Set: true}
}

// AmountFromFloat returns a set Amount holding f.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

// ParseAmount parses a numeric string. Malformed input yields a set zero.
func ParseAmount(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Set: true}
	}
	return NewAmount(d)
}

// OrZero returns the value, or zero when the amount is unset.
func (a Amount) OrZero() decimal.Decimal {
	if !a.Set {
		return decimal.Zero
	}
	return a.Decimal
}

// UnmarshalJSON accepts JSON numbers and numeric strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*a = Amount{Set: true}
		return nil
	}

	switch v := raw.(type) {
	case float64:
		// Re-parse the literal so large or long-fraction numbers keep their digits.
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			d = decimal.NewFromFloat(v)
		}
		*a = NewAmount(d)
	case string:
		*a = ParseAmount(v)
	default:
		*a = Amount{Set: true}
	}
	return nil
}

// MarshalJSON writes a bare JSON number, or null when unset.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return []byte(a.Decimal.String()), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(value any) error {
	if value == nil {
		*a = Amount{}
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scanning amount: %w", err)
	}
	*a = NewAmount(d)
	return nil
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	if !a.Set {
		return nil, nil
	}
	return a.Decimal.String(), nil
}
