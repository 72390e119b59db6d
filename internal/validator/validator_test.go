package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type sample struct {
	Category string `binding:"investment_category"`
	Date     string `binding:"omitempty,calendar_date"`
}

func TestRegister(t *testing.T) {
	Register()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("expected go-playground validator engine")
	}
	v.SetTagName("binding")

	tests := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"money", sample{Category: "Money"}, true},
		{"crypto", sample{Category: "Crypto"}, true},
		{"stocks", sample{Category: "Stocks"}, true},
		{"etf", sample{Category: "ETF Groww", Date: "2024-02-29"}, true},
		{"bank_rejected", sample{Category: "Bank"}, false},
		{"lowercase_rejected", sample{Category: "crypto"}, false},
		{"empty_category", sample{}, false},
		{"bad_date", sample{Category: "Money", Date: "2024-13-01"}, false},
		{"not_leap_year", sample{Category: "Money", Date: "2023-02-29"}, false},
		{"datetime_rejected", sample{Category: "Money", Date: "2024-01-01T00:00:00Z"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
