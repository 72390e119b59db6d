package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"invtracker/internal/models"
	"invtracker/internal/valuation"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// QuoteFetcher fetches live quotes for a batch of coin ids and tickers.
// Implementations never fail; an unavailable feed yields no quotes.
type QuoteFetcher interface {
	Fetch(ctx context.Context, cryptoIDs, tickers []string) valuation.Quotes
}

// ValuedInvestment is a holding together with its freshly computed valuation.
type ValuedInvestment struct {
	models.Investment
	Valuation valuation.Result
}

// AddInvestmentInput holds the fields of a new holding.
type AddInvestmentInput struct {
	Category           models.Category
	Name               string
	Quantity           decimal.Decimal
	Date               string
	TotalPurchasePrice decimal.Decimal
}

// CategorySummary aggregates the holdings of one category.
type CategorySummary struct {
	Count              int             `json:"count"`
	CurrentValue       decimal.Decimal `json:"current_value"`
	TotalPurchasePrice decimal.Decimal `json:"total_purchase_price"`
	ProfitOrLoss       decimal.Decimal `json:"profit_or_loss"`
	Display            string          `json:"display"`
}

// PortfolioSummary contains aggregated valuation data across all holdings.
type PortfolioSummary struct {
	CurrentValue       decimal.Decimal                     `json:"current_value"`
	TotalPurchasePrice decimal.Decimal                     `json:"total_purchase_price"`
	ProfitOrLoss       decimal.Decimal                     `json:"profit_or_loss"`
	ProfitOrLossPct    float64                             `json:"profit_or_loss_pct"`
	Display            string                              `json:"display"`
	ByCategory         map[models.Category]CategorySummary `json:"by_category"`
}

// InvestmentServicer defines the contract for holding-related business logic.
type InvestmentServicer interface {
	ListInvestments(ctx context.Context, userID string) ([]ValuedInvestment, error)
	AddInvestment(ctx context.Context, userID string, input AddInvestmentInput) (*models.Investment, error)
	UpdateMoneyByName(ctx context.Context, userID, name string, value decimal.Decimal) (*models.Investment, error)
	DeleteInvestment(ctx context.Context, userID, investmentID string) error
	GetPortfolioSummary(ctx context.Context, userID string) (*PortfolioSummary, error)
}

// ManualPriceServicer defines the contract for manual price overrides.
type ManualPriceServicer interface {
	GetManualPrices(ctx context.Context, userID string) (map[string]decimal.Decimal, error)
	UpsertManualPrice(ctx context.Context, userID, name string, price decimal.Decimal) (map[string]decimal.Decimal, error)
}

// SnapshotServicer defines the contract for the historical value series.
type SnapshotServicer interface {
	// GetHistory returns the series ascending by date, optionally limited to
	// [from, to] (inclusive; empty means unbounded).
	GetHistory(ctx context.Context, userID, from, to string) ([]valuation.Point, error)
	SaveDailySnapshot(ctx context.Context, userID string) (*valuation.Point, error)
	SaveAllSnapshots(ctx context.Context) (int, error)
	Backfill(ctx context.Context, userID string, from time.Time) ([]valuation.Point, error)
}

// PurgeResult reports what a bank data purge removed.
type PurgeResult struct {
	Investments  int `json:"investments"`
	ManualPrices int `json:"manual_prices"`
}

// MaintenanceServicer defines the contract for one-off data maintenance.
type MaintenanceServicer interface {
	PurgeBankData(ctx context.Context, userID string) (*PurgeResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
