package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/models"
	"invtracker/internal/repository"
	"invtracker/internal/valuation"
)

// investmentService handles holding-related business logic.
type investmentService struct {
	investments repository.InvestmentRepository
	pricer      *pricer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(stores *repository.Stores, fetcher QuoteFetcher, resolver *valuation.Resolver) InvestmentServicer {
	return &investmentService{
		investments: stores.Investments,
		pricer: &pricer{
			investments:  stores.Investments,
			manualPrices: stores.ManualPrices,
			fetcher:      fetcher,
			resolver:     resolver,
		},
	}
}

// ListInvestments returns every holding of the user with a fresh valuation.
func (s *investmentService) ListInvestments(ctx context.Context, userID string) ([]ValuedInvestment, error) {
	investments, prices, err := s.pricer.priceHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	valued := make([]ValuedInvestment, len(investments))
	for i := range investments {
		valued[i] = ValuedInvestment{
			Investment: investments[i],
			Valuation:  valuation.Valuate(&investments[i], prices[investments[i].ID]),
		}
	}
	return valued, nil
}

// AddInvestment validates and stores a new holding.
func (s *investmentService) AddInvestment(ctx context.Context, userID string, input AddInvestmentInput) (*models.Investment, error) {
	switch input.Category {
	case models.CategoryMoney, models.CategoryCrypto, models.CategoryStocks, models.CategoryETFGroww:
	default:
		return nil, apperrors.ErrInvalidCategory
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.Quantity.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must not be negative")
	}
	if input.TotalPurchasePrice.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total purchase price must not be negative")
	}
	if _, err := time.Parse(models.DateLayout, input.Date); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}

	inv := &models.Investment{
		UserID:             userID,
		Category:           input.Category,
		Name:               name,
		Quantity:           models.NewAmount(input.Quantity),
		Date:               input.Date,
		TotalPurchasePrice: models.NewAmount(input.TotalPurchasePrice),
	}
	if err := s.investments.Create(ctx, inv); err != nil {
		return nil, mapRepoError(err, apperrors.ErrInvestmentNotFound)
	}
	return inv, nil
}

// UpdateMoneyByName sets the value of a Money holding.
func (s *investmentService) UpdateMoneyByName(ctx context.Context, userID, name string, value decimal.Decimal) (*models.Investment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if value.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current value must not be negative")
	}

	inv, err := s.investments.UpdateMoneyByName(ctx, userID, name, value)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrInvestmentNotFound)
	}
	return inv, nil
}

// DeleteInvestment removes a holding by id.
func (s *investmentService) DeleteInvestment(ctx context.Context, userID, investmentID string) error {
	if err := s.investments.DeleteByID(ctx, userID, investmentID); err != nil {
		return mapRepoError(err, apperrors.ErrInvestmentNotFound)
	}
	return nil
}

// GetPortfolioSummary returns totals across all holdings and per category.
func (s *investmentService) GetPortfolioSummary(ctx context.Context, userID string) (*PortfolioSummary, error) {
	valued, err := s.ListInvestments(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		ByCategory: make(map[models.Category]CategorySummary),
	}

	for i := range valued {
		v := valued[i].Valuation
		summary.CurrentValue = summary.CurrentValue.Add(v.CurrentValue)
		summary.TotalPurchasePrice = summary.TotalPurchasePrice.Add(v.TotalPurchasePrice)

		cs := summary.ByCategory[valued[i].Category]
		cs.Count++
		cs.CurrentValue = cs.CurrentValue.Add(v.CurrentValue)
		cs.TotalPurchasePrice = cs.TotalPurchasePrice.Add(v.TotalPurchasePrice)
		cs.ProfitOrLoss = cs.CurrentValue.Sub(cs.TotalPurchasePrice)
		cs.Display = formatINR(cs.CurrentValue)
		summary.ByCategory[valued[i].Category] = cs
	}

	summary.CurrentValue = valuation.Round2(summary.CurrentValue)
	summary.TotalPurchasePrice = valuation.Round2(summary.TotalPurchasePrice)
	summary.ProfitOrLoss = summary.CurrentValue.Sub(summary.TotalPurchasePrice)
	if summary.TotalPurchasePrice.IsPositive() {
		pct := summary.ProfitOrLoss.Div(summary.TotalPurchasePrice).Mul(decimal.NewFromInt(100))
		summary.ProfitOrLossPct = valuation.Round2(pct).InexactFloat64()
	}
	summary.Display = formatINR(summary.CurrentValue)

	return summary, nil
}
