package models

import (
	"time"

	"invtracker/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PortfolioSnapshot is the total portfolio value of one owner on one UTC
// calendar date. There is at most one row per (user, date); saving again on
// the same date overwrites Value.
type PortfolioSnapshot struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"-"`
	UserID     string          `gorm:"type:uuid;not null;uniqueIndex:uq_snapshots_user_date" json:"-"`
	Date       string          `gorm:"type:varchar(10);not null;uniqueIndex:uq_snapshots_user_date" json:"date"`
	Value      decimal.Decimal `gorm:"type:numeric;not null" json:"value"`
	RecordedAt time.Time       `gorm:"not null" json:"-"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PortfolioSnapshot) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
