// Package repository persists investments, manual price overrides and the
// historical portfolio value series.
//
// Every store serializes its writes: a write's read-modify-write cycle
// completes before the next write to the same store begins. Reads never
// wait on each other. Two backends implement the interfaces, a gorm one
// (postgres or sqlite) and a flat JSON file one.
package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"invtracker/internal/models"
)

var (
	// ErrNotFound is returned when the addressed record does not exist for
	// the owner.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateMoneyHolding is returned when creating a Money holding
	// whose name (case-insensitive) the owner already holds.
	ErrDuplicateMoneyHolding = errors.New("duplicate money holding")
)

// InvestmentRepository stores holdings.
type InvestmentRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Investment, error)
	// ListOwners returns every owner id with at least one holding.
	ListOwners(ctx context.Context) ([]string, error)
	Create(ctx context.Context, inv *models.Investment) error
	// UpdateMoneyByName sets the value of the owner's Money holding with the
	// given name (case-insensitive).
	UpdateMoneyByName(ctx context.Context, ownerID, name string, value decimal.Decimal) (*models.Investment, error)
	DeleteByID(ctx context.Context, ownerID, id string) error
	DeleteByCategory(ctx context.Context, ownerID string, category models.Category) (int, error)
}

// ManualPriceRepository stores per-owner manual price overrides keyed by
// lower-cased asset name.
type ManualPriceRepository interface {
	Get(ctx context.Context, ownerID string) (map[string]models.Amount, error)
	// Upsert sets one override and returns the owner's full table.
	Upsert(ctx context.Context, ownerID, name string, price models.Amount) (map[string]models.Amount, error)
	DeleteNames(ctx context.Context, ownerID string, names []string) (int, error)
}

// SnapshotRepository stores the dated portfolio value series.
type SnapshotRepository interface {
	// List returns the owner's series ascending by date.
	List(ctx context.Context, ownerID string) ([]models.PortfolioSnapshot, error)
	UpsertForDate(ctx context.Context, ownerID, date string, value decimal.Decimal) error
	// ReplaceSeries swaps the owner's whole series for the given one.
	ReplaceSeries(ctx context.Context, ownerID string, series []models.PortfolioSnapshot) error
}

// Stores groups the three repositories of one backend.
type Stores struct {
	Investments  InvestmentRepository
	ManualPrices ManualPriceRepository
	Snapshots    SnapshotRepository
}
