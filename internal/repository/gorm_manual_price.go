package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invtracker/internal/models"
)

// gormManualPriceRepository stores overrides in the manual_prices table.
type gormManualPriceRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewGormManualPriceRepository creates a gorm-backed ManualPriceRepository.
func NewGormManualPriceRepository(db *gorm.DB) ManualPriceRepository {
	return &gormManualPriceRepository{db: db}
}

func (r *gormManualPriceRepository) Get(ctx context.Context, ownerID string) (map[string]models.Amount, error) {
	return r.load(r.db.WithContext(ctx), ownerID)
}

func (r *gormManualPriceRepository) load(db *gorm.DB, ownerID string) (map[string]models.Amount, error) {
	var rows []models.ManualPrice
	if err := db.Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading manual prices: %w", err)
	}
	prices := make(map[string]models.Amount, len(rows))
	for _, row := range rows {
		prices[row.Name] = row.Price
	}
	return prices, nil
}

func (r *gormManualPriceRepository) Upsert(ctx context.Context, ownerID, name string, price models.Amount) (map[string]models.Amount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prices map[string]models.Amount
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.ManualPrice{
			UserID:    ownerID,
			Name:      strings.ToLower(name),
			Price:     price,
			UpdatedAt: time.Now().UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upserting manual price: %w", err)
		}

		var err error
		prices, err = r.load(tx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *gormManualPriceRepository) DeleteNames(ctx context.Context, ownerID string, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND name IN ?", ownerID, lowered).
		Delete(&models.ManualPrice{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting manual prices: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}
