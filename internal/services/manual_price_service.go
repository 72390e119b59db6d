package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/models"
	"invtracker/internal/repository"
)

// manualPriceService handles manual price overrides.
type manualPriceService struct {
	prices repository.ManualPriceRepository
}

// NewManualPriceService creates a new ManualPriceServicer.
func NewManualPriceService(prices repository.ManualPriceRepository) ManualPriceServicer {
	return &manualPriceService{prices: prices}
}

// GetManualPrices returns the user's override table.
func (s *manualPriceService) GetManualPrices(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	table, err := s.prices.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return toDecimalTable(table), nil
}

// UpsertManualPrice sets the override for name and returns the full table.
func (s *manualPriceService) UpsertManualPrice(ctx context.Context, userID, name string, price decimal.Decimal) (map[string]decimal.Decimal, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must not be negative")
	}

	table, err := s.prices.Upsert(ctx, userID, name, models.NewAmount(price))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return toDecimalTable(table), nil
}

func toDecimalTable(table map[string]models.Amount) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(table))
	for name, price := range table {
		out[name] = price.OrZero()
	}
	return out
}
