package models

import "time"

// ManualPrice is a caller-set per-unit price for an asset name. It takes
// precedence over every feed for holdings with that name.
type ManualPrice struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name      string    `gorm:"primaryKey" json:"name"` // lower-cased
	Price     Amount    `gorm:"type:numeric" json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}
