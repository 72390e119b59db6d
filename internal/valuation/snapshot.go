package valuation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"invtracker/internal/models"
)

// Point is one entry of the historical portfolio value series.
type Point struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Today returns the UTC calendar date of now as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.UTC().Format(models.DateLayout)
}

// Total sums the current value of every holding using the resolved prices
// (keyed by investment id) and rounds the result.
func Total(investments []models.Investment, prices map[string]*decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for i := range investments {
		sum = sum.Add(Valuate(&investments[i], prices[investments[i].ID]).CurrentValue)
	}
	return Round2(sum)
}

// Snapshot computes the portfolio total and records it in series under
// today. An existing entry for today has its value replaced in place;
// otherwise a new entry is appended. The order of other entries is kept.
// series is not modified; the updated copy is returned.
func Snapshot(investments []models.Investment, prices map[string]*decimal.Decimal, series []Point, today string) ([]Point, decimal.Decimal) {
	total := Total(investments, prices)
	return Upsert(series, today, total), total
}

// Upsert returns a copy of series with date set to value.
func Upsert(series []Point, date string, value decimal.Decimal) []Point {
	out := make([]Point, len(series), len(series)+1)
	copy(out, series)
	for i := range out {
		if out[i].Date == date {
			out[i].Value = value
			return out
		}
	}
	return append(out, Point{Date: date, Value: value})
}

// SortByDate orders series ascending by date. YYYY-MM-DD sorts lexically.
func SortByDate(series []Point) {
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
}

// Backfill rebuilds a daily series for [from, to] (UTC days, inclusive) in
// which each day's value is the total purchase price of the holdings acquired
// on or before that day. Holdings without a parseable acquisition date are
// left out.
func Backfill(investments []models.Investment, from, to time.Time) []Point {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return []Point{}
	}

	type acquired struct {
		on    time.Time
		total decimal.Decimal
	}
	holdings := make([]acquired, 0, len(investments))
	for i := range investments {
		on, err := time.Parse(models.DateLayout, investments[i].Date)
		if err != nil {
			continue
		}
		holdings = append(holdings, acquired{on: on, total: PurchaseTotal(&investments[i])})
	}

	days := int(to.Sub(from).Hours()/24) + 1
	series := make([]Point, 0, days)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		sum := decimal.Zero
		for _, h := range holdings {
			if !h.on.After(day) {
				sum = sum.Add(h.total)
			}
		}
		series = append(series, Point{Date: day.Format(models.DateLayout), Value: Round2(sum)})
	}
	return series
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
