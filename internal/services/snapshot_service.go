package services

import (
	"context"
	"time"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/logger"
	"invtracker/internal/models"
	"invtracker/internal/repository"
	"invtracker/internal/valuation"
)

// EarliestBackfillDate is the oldest day a backfill may start from.
const EarliestBackfillDate = "2000-01-01"

var earliestBackfill, _ = time.Parse(models.DateLayout, EarliestBackfillDate)

// snapshotService maintains the historical portfolio value series.
type snapshotService struct {
	investments repository.InvestmentRepository
	snapshots   repository.SnapshotRepository
	pricer      *pricer
	now         func() time.Time
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(stores *repository.Stores, fetcher QuoteFetcher, resolver *valuation.Resolver) SnapshotServicer {
	return newSnapshotService(stores, fetcher, resolver, time.Now)
}

func newSnapshotService(stores *repository.Stores, fetcher QuoteFetcher, resolver *valuation.Resolver, now func() time.Time) *snapshotService {
	return &snapshotService{
		investments: stores.Investments,
		snapshots:   stores.Snapshots,
		pricer: &pricer{
			investments:  stores.Investments,
			manualPrices: stores.ManualPrices,
			fetcher:      fetcher,
			resolver:     resolver,
		},
		now: now,
	}
}

// GetHistory returns the user's series ascending by date. from and to are
// inclusive YYYY-MM-DD bounds; an empty bound is open.
func (s *snapshotService) GetHistory(ctx context.Context, userID, from, to string) ([]valuation.Point, error) {
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, bound); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "dates must be YYYY-MM-DD")
		}
	}

	rows, err := s.snapshots.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	series := make([]valuation.Point, 0, len(rows))
	for i := range rows {
		if from != "" && rows[i].Date < from {
			continue
		}
		if to != "" && rows[i].Date > to {
			continue
		}
		series = append(series, valuation.Point{Date: rows[i].Date, Value: rows[i].Value})
	}
	valuation.SortByDate(series)
	return series, nil
}

// SaveDailySnapshot values every holding of the user and records the total
// under today's date, replacing an earlier value for the same day.
func (s *snapshotService) SaveDailySnapshot(ctx context.Context, userID string) (*valuation.Point, error) {
	investments, prices, err := s.pricer.priceHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.snapshots.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	stored := make([]valuation.Point, len(rows))
	for i := range rows {
		stored[i] = valuation.Point{Date: rows[i].Date, Value: rows[i].Value}
	}

	point := valuation.Point{Date: valuation.Today(s.now())}
	series, total := valuation.Snapshot(investments, prices, stored, point.Date)
	point.Value = total
	if err := s.snapshots.UpsertForDate(ctx, userID, point.Date, point.Value); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	logger.Get().Debugw("Recorded daily snapshot",
		"user_id", userID,
		"date", point.Date,
		"entries", len(series),
	)
	return &point, nil
}

// SaveAllSnapshots saves today's snapshot for every owner with holdings.
// A failing owner is logged and skipped; the count covers saved owners only.
func (s *snapshotService) SaveAllSnapshots(ctx context.Context) (int, error) {
	owners, err := s.investments.ListOwners(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	count := 0
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return count, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		point, err := s.SaveDailySnapshot(ctx, owner)
		if err != nil {
			logger.Get().Errorw("Failed to save snapshot",
				"user_id", owner,
				"error", err,
			)
			continue
		}
		logger.Get().Debugw("Saved snapshot",
			"user_id", owner,
			"date", point.Date,
			"value", point.Value.String(),
		)
		count++
	}
	return count, nil
}

// Backfill rebuilds the user's series from from through today out of the
// purchase prices of the holdings, replacing the stored series.
func (s *snapshotService) Backfill(ctx context.Context, userID string, from time.Time) ([]valuation.Point, error) {
	today := s.now()
	if from.After(today) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from date is in the future")
	}
	if from.Before(earliestBackfill) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from date is before "+EarliestBackfillDate)
	}

	investments, err := s.investments.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	series := valuation.Backfill(investments, from, today)

	recordedAt := today.UTC()
	rows := make([]models.PortfolioSnapshot, len(series))
	for i, p := range series {
		rows[i] = models.PortfolioSnapshot{
			UserID:     userID,
			Date:       p.Date,
			Value:      p.Value,
			RecordedAt: recordedAt,
		}
	}
	if err := s.snapshots.ReplaceSeries(ctx, userID, rows); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("Backfilled portfolio history",
		"user_id", userID,
		"from", from.UTC().Format(models.DateLayout),
		"days", len(series),
	)
	return series, nil
}
