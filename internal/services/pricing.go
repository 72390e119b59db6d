package services

import (
	"context"
	"errors"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/models"
	"invtracker/internal/repository"
	"invtracker/internal/valuation"
)

// pricer loads an owner's holdings and overrides and resolves one live
// price per holding.
type pricer struct {
	investments  repository.InvestmentRepository
	manualPrices repository.ManualPriceRepository
	fetcher      QuoteFetcher
	resolver     *valuation.Resolver
}

// priceHoldings returns the owner's holdings and their resolved prices keyed
// by investment id. Feed outages only lower the price coverage.
func (p *pricer) priceHoldings(ctx context.Context, userID string) ([]models.Investment, map[string]*decimal.Decimal, error) {
	investments, err := p.investments.ListByOwner(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	overrides, err := p.manualPrices.Get(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Holdings with an override never consult the feeds.
	unpriced := make([]models.Investment, 0, len(investments))
	for i := range investments {
		if _, ok := overrides[investments[i].LookupName()]; !ok {
			unpriced = append(unpriced, investments[i])
		}
	}

	quotes := valuation.EmptyQuotes()
	if p.fetcher != nil {
		quotes = p.fetcher.Fetch(ctx, p.resolver.CryptoIDs(unpriced), p.resolver.StockTickers(unpriced))
	}

	return investments, p.resolver.ResolveAll(investments, valuation.Overrides(overrides), quotes), nil
}

// mapRepoError converts repository errors to AppErrors.
func mapRepoError(err error, notFound *apperrors.AppError) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrDuplicateMoneyHolding):
		return apperrors.ErrDuplicateMoneyHolding
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// formatINR renders a two-place rupee amount, e.g. ₹1,234.57.
func formatINR(d decimal.Decimal) string {
	return money.New(valuation.Round2(d).Shift(2).IntPart(), money.INR).Display()
}
