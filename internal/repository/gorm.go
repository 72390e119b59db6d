package repository

import "gorm.io/gorm"

// NewGormStores creates the gorm backend over db.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Investments:  NewGormInvestmentRepository(db),
		ManualPrices: NewGormManualPriceRepository(db),
		Snapshots:    NewGormSnapshotRepository(db),
	}
}
