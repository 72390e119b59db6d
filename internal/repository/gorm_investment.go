package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invtracker/internal/models"
	"invtracker/internal/uuid"
)

// gormInvestmentRepository stores holdings in the investments table.
type gormInvestmentRepository struct {
	db *gorm.DB
	mu sync.Mutex // write queue
}

// NewGormInvestmentRepository creates a gorm-backed InvestmentRepository.
func NewGormInvestmentRepository(db *gorm.DB) InvestmentRepository {
	return &gormInvestmentRepository{db: db}
}

func (r *gormInvestmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Investment, error) {
	var investments []models.Investment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&investments).Error; err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	return investments, nil
}

func (r *gormInvestmentRepository) ListOwners(ctx context.Context) ([]string, error) {
	var owners []string
	if err := r.db.WithContext(ctx).
		Model(&models.Investment{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &owners).Error; err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}
	return owners, nil
}

func (r *gormInvestmentRepository) Create(ctx context.Context, inv *models.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if inv.Category == models.CategoryMoney {
			var count int64
			if err := tx.Model(&models.Investment{}).
				Where("user_id = ? AND category = ? AND LOWER(name) = ?", inv.UserID, models.CategoryMoney, strings.ToLower(inv.Name)).
				Count(&count).Error; err != nil {
				return fmt.Errorf("checking money holding: %w", err)
			}
			if count > 0 {
				return ErrDuplicateMoneyHolding
			}
		}
		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("creating investment: %w", err)
		}
		return nil
	})
}

func (r *gormInvestmentRepository) UpdateMoneyByName(ctx context.Context, ownerID, name string, value decimal.Decimal) (*models.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var inv models.Investment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND category = ? AND LOWER(name) = ?", ownerID, models.CategoryMoney, strings.ToLower(name)).
			Order("created_at ASC").
			First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("finding money holding: %w", err)
		}

		inv.TotalPurchasePrice = models.NewAmount(value)
		if err := tx.Model(&inv).Update("total_purchase_price", inv.TotalPurchasePrice).Error; err != nil {
			return fmt.Errorf("updating money holding: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *gormInvestmentRepository) DeleteByID(ctx context.Context, ownerID, id string) error {
	// Ids are UUID columns; anything else cannot match a row.
	if !uuid.IsValid(id) {
		return ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Investment{})
	if result.Error != nil {
		return fmt.Errorf("deleting investment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormInvestmentRepository) DeleteByCategory(ctx context.Context, ownerID string, category models.Category) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", ownerID, category).
		Delete(&models.Investment{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting %s investments: %w", category, result.Error)
	}
	return int(result.RowsAffected), nil
}
