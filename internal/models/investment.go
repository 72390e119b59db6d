package models

import "strings"

// Category tags an investment with the pricing rules that apply to it.
type Category string

const (
	CategoryMoney    Category = "Money"
	CategoryCrypto   Category = "Crypto"
	CategoryStocks   Category = "Stocks"
	CategoryETFGroww Category = "ETF Groww"

	// CategoryBank is deprecated. Existing rows are removed by the
	// purge-bank maintenance command and new ones are rejected.
	CategoryBank Category = "Bank"
)

// DateLayout is the calendar-date format used for acquisition dates and
// snapshot dates.
const DateLayout = "2006-01-02"

// IsStockLike reports whether the category is priced from the stock/ETF feed.
func (c Category) IsStockLike() bool {
	return c == CategoryStocks || c == CategoryETFGroww
}

// Investment represents a single holding. Valuation fields are derived on
// every read and never stored.
type Investment struct {
	Base
	UserID   string   `gorm:"type:uuid;not null;index" json:"user_id"`
	Category Category `gorm:"not null" json:"category"`
	Name     string   `gorm:"not null" json:"name"`
	Quantity Amount   `gorm:"type:numeric" json:"quantity"`
	Date     string   `gorm:"type:varchar(10)" json:"date"`

	// TotalPurchasePrice is authoritative when set. Legacy records carry
	// PurchasePricePerUnit instead, which is multiplied by Quantity on read.
	TotalPurchasePrice   Amount `gorm:"type:numeric" json:"total_purchase_price"`
	PurchasePricePerUnit Amount `gorm:"type:numeric" json:"purchase_price_per_unit,omitempty"`
}

// LookupName returns the lower-cased name used against mapping tables and
// manual price overrides.
func (i *Investment) LookupName() string {
	return strings.ToLower(i.Name)
}
