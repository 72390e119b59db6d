package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invtracker/internal/models"
)

// gormSnapshotRepository stores the series in the portfolio_snapshots table.
type gormSnapshotRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewGormSnapshotRepository creates a gorm-backed SnapshotRepository.
func NewGormSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &gormSnapshotRepository{db: db}
}

func (r *gormSnapshotRepository) List(ctx context.Context, ownerID string) ([]models.PortfolioSnapshot, error) {
	var snapshots []models.PortfolioSnapshot
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("date ASC").
		Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *gormSnapshotRepository) UpsertForDate(ctx context.Context, ownerID, date string, value decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PortfolioSnapshot
		err := tx.Where("user_id = ? AND date = ?", ownerID, date).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"value":       value,
				"recorded_at": now,
			}).Error; err != nil {
				return fmt.Errorf("updating snapshot: %w", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			snapshot := models.PortfolioSnapshot{UserID: ownerID, Date: date, Value: value, RecordedAt: now}
			if err := tx.Create(&snapshot).Error; err != nil {
				return fmt.Errorf("creating snapshot: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("finding snapshot: %w", err)
		}
	})
}

func (r *gormSnapshotRepository) ReplaceSeries(ctx context.Context, ownerID string, series []models.PortfolioSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", ownerID).Delete(&models.PortfolioSnapshot{}).Error; err != nil {
			return fmt.Errorf("clearing snapshots: %w", err)
		}
		if len(series) == 0 {
			return nil
		}

		rows := make([]models.PortfolioSnapshot, len(series))
		for i, s := range series {
			rows[i] = models.PortfolioSnapshot{UserID: ownerID, Date: s.Date, Value: s.Value, RecordedAt: now}
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("writing snapshots: %w", err)
		}
		return nil
	})
}
