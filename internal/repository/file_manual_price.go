package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"

	"invtracker/internal/models"
)

// manualPriceFile is the layout of manual_asset_prices.json:
// {"<owner id>": {"<lower-cased name>": <price>}}. Older files hold a flat
// {"<name>": <price>} map; those entries decode into the unowned bucket.
type manualPriceFile map[string]map[string]models.Amount

func (f *manualPriceFile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = nil
		return nil
	}

	out := manualPriceFile{}
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) > 0 && value[0] == '{' {
			var prices map[string]models.Amount
			if err := json.Unmarshal(value, &prices); err != nil {
				return err
			}
			bucket := out.bucket(key)
			for name, price := range prices {
				bucket[name] = price
			}
			continue
		}
		var price models.Amount
		if err := json.Unmarshal(value, &price); err != nil {
			return err
		}
		out.bucket(unowned)[strings.ToLower(key)] = price
	}
	*f = out
	return nil
}

func (f manualPriceFile) bucket(ownerID string) map[string]models.Amount {
	if f[ownerID] == nil {
		f[ownerID] = map[string]models.Amount{}
	}
	return f[ownerID]
}

type fileManualPriceRepository struct {
	path string
	opts fileOptions
	mu   sync.RWMutex
}

// NewFileManualPriceRepository creates a ManualPriceRepository over the JSON
// file at path.
func NewFileManualPriceRepository(path string, opts ...FileOption) ManualPriceRepository {
	return &fileManualPriceRepository{path: path, opts: buildFileOptions(opts)}
}

func (r *fileManualPriceRepository) Get(_ context.Context, ownerID string) (map[string]models.Amount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var file manualPriceFile
	if err := readForQuery(r.path, &file); err != nil {
		return nil, err
	}

	prices := make(map[string]models.Amount)
	if r.opts.claims(ownerID) {
		for k, v := range file[unowned] {
			prices[k] = v
		}
	}
	for k, v := range file[ownerID] {
		prices[k] = v
	}
	return prices, nil
}

// claim moves the unowned entries under ownerID when ownerID is the legacy
// owner. The owner's own entries win. Reports whether the file changed.
func (r *fileManualPriceRepository) claim(file manualPriceFile, ownerID string) bool {
	legacy, ok := file[unowned]
	if !ok || !r.opts.claims(ownerID) {
		return false
	}
	bucket := file.bucket(ownerID)
	for k, v := range legacy {
		if _, exists := bucket[k]; !exists {
			bucket[k] = v
		}
	}
	delete(file, unowned)
	return true
}

func (r *fileManualPriceRepository) Upsert(_ context.Context, ownerID, name string, price models.Amount) (map[string]models.Amount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var file manualPriceFile
	if err := readJSON(r.path, &file); err != nil {
		return nil, err
	}
	if file == nil {
		file = manualPriceFile{}
	}
	r.claim(file, ownerID)
	file.bucket(ownerID)[strings.ToLower(name)] = price

	if err := writeJSON(r.path, file); err != nil {
		return nil, err
	}
	return copyPrices(file[ownerID]), nil
}

func (r *fileManualPriceRepository) DeleteNames(_ context.Context, ownerID string, names []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var file manualPriceFile
	if err := readJSON(r.path, &file); err != nil {
		return 0, err
	}
	claimed := r.claim(file, ownerID)

	prices := file[ownerID]
	removed := 0
	for _, n := range names {
		key := strings.ToLower(n)
		if _, ok := prices[key]; ok {
			delete(prices, key)
			removed++
		}
	}
	if removed == 0 && !claimed {
		return 0, nil
	}
	return removed, writeJSON(r.path, file)
}

func copyPrices(in map[string]models.Amount) map[string]models.Amount {
	out := make(map[string]models.Amount, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
