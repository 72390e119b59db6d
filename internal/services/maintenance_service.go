package services

import (
	"context"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/logger"
	"invtracker/internal/models"
	"invtracker/internal/repository"
)

// BankOverrideNames are the manual price keys left behind by the retired
// Bank category.
var BankOverrideNames = []string{"pnb", "psb", "indian", "union", "indian overseas", "cash"}

// maintenanceService runs one-off data clean-ups.
type maintenanceService struct {
	investments repository.InvestmentRepository
	prices      repository.ManualPriceRepository
}

// NewMaintenanceService creates a new MaintenanceServicer.
func NewMaintenanceService(stores *repository.Stores) MaintenanceServicer {
	return &maintenanceService{
		investments: stores.Investments,
		prices:      stores.ManualPrices,
	}
}

// PurgeBankData removes the user's Bank holdings and the bank override keys.
// Running it twice is harmless.
func (s *maintenanceService) PurgeBankData(ctx context.Context, userID string) (*PurgeResult, error) {
	removed, err := s.investments.DeleteByCategory(ctx, userID, models.CategoryBank)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	overrides, err := s.prices.DeleteNames(ctx, userID, BankOverrideNames)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("Purged bank data",
		"user_id", userID,
		"investments", removed,
		"manual_prices", overrides,
	)

	return &PurgeResult{Investments: removed, ManualPrices: overrides}, nil
}
