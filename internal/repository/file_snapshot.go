package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"invtracker/internal/models"
	"invtracker/internal/valuation"
)

type fileSnapshot struct {
	Date  string        `json:"date"`
	Value models.Amount `json:"value"`
}

// snapshotFile is the layout of historical_portfolio_value.json:
// {"<owner id>": [{"date": "YYYY-MM-DD", "value": <total>}]} in write order.
// Older files hold the bare array; it decodes into the unowned bucket.
type snapshotFile map[string][]fileSnapshot

func (f *snapshotFile) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var entries []fileSnapshot
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		*f = snapshotFile{unowned: entries}
		return nil
	}
	var owned map[string][]fileSnapshot
	if err := json.Unmarshal(data, &owned); err != nil {
		return err
	}
	*f = owned
	return nil
}

func toPoints(entries []fileSnapshot) []valuation.Point {
	points := make([]valuation.Point, len(entries))
	for i, e := range entries {
		points[i] = valuation.Point{Date: e.Date, Value: e.Value.OrZero()}
	}
	return points
}

func fromPoints(points []valuation.Point) []fileSnapshot {
	entries := make([]fileSnapshot, len(points))
	for i, p := range points {
		entries[i] = fileSnapshot{Date: p.Date, Value: models.NewAmount(p.Value)}
	}
	return entries
}

type fileSnapshotRepository struct {
	path string
	opts fileOptions
	mu   sync.RWMutex
}

// NewFileSnapshotRepository creates a SnapshotRepository over the JSON file
// at path.
func NewFileSnapshotRepository(path string, opts ...FileOption) SnapshotRepository {
	return &fileSnapshotRepository{path: path, opts: buildFileOptions(opts)}
}

// series returns ownerID's entries in write order. For the legacy owner the
// unowned entries come first and the owner's own entries override them.
func (r *fileSnapshotRepository) series(file snapshotFile, ownerID string) []valuation.Point {
	if !r.opts.claims(ownerID) {
		return toPoints(file[ownerID])
	}
	points := toPoints(file[unowned])
	for _, p := range toPoints(file[ownerID]) {
		points = valuation.Upsert(points, p.Date, p.Value)
	}
	return points
}

func (r *fileSnapshotRepository) List(_ context.Context, ownerID string) ([]models.PortfolioSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var file snapshotFile
	if err := readForQuery(r.path, &file); err != nil {
		return nil, err
	}

	points := r.series(file, ownerID)
	valuation.SortByDate(points)
	snapshots := make([]models.PortfolioSnapshot, len(points))
	for i, p := range points {
		snapshots[i] = models.PortfolioSnapshot{UserID: ownerID, Date: p.Date, Value: p.Value}
	}
	return snapshots, nil
}

// UpsertForDate replaces the value of an existing entry in place or appends
// a new one. Entry order is left as written.
func (r *fileSnapshotRepository) UpsertForDate(_ context.Context, ownerID, date string, value decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var file snapshotFile
	if err := readJSON(r.path, &file); err != nil {
		return err
	}
	if file == nil {
		file = snapshotFile{}
	}

	points := valuation.Upsert(r.series(file, ownerID), date, value)
	file[ownerID] = fromPoints(points)
	if r.opts.claims(ownerID) {
		delete(file, unowned)
	}

	return writeJSON(r.path, file)
}

func (r *fileSnapshotRepository) ReplaceSeries(_ context.Context, ownerID string, series []models.PortfolioSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var file snapshotFile
	if err := readJSON(r.path, &file); err != nil {
		return err
	}
	if file == nil {
		file = snapshotFile{}
	}

	entries := make([]fileSnapshot, len(series))
	for i, s := range series {
		entries[i] = fileSnapshot{Date: s.Date, Value: models.NewAmount(s.Value)}
	}
	file[ownerID] = entries
	if r.opts.claims(ownerID) {
		delete(file, unowned)
	}

	return writeJSON(r.path, file)
}
