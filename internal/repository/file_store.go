package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"invtracker/internal/logger"
)

// File names inside the data directory.
const (
	InvestmentsFile  = "investments.json"
	ManualPricesFile = "manual_asset_prices.json"
	SnapshotsFile    = "historical_portfolio_value.json"
)

// ErrCorruptFile is returned when a store file exists but is not valid JSON
// of the expected shape.
var ErrCorruptFile = errors.New("corrupt store file")

// unowned is the bucket holding data from files written before they were
// keyed by owner: ownerless holdings, a flat {name: price} override map and a
// bare [{date, value}] snapshot array.
const unowned = ""

// FileOption configures the flat-file repositories.
type FileOption func(*fileOptions)

type fileOptions struct {
	legacyOwner string
}

// WithLegacyOwner hands unowned data to ownerID. Reads by that owner include
// it and the owner's first write moves it into the owner's own entries.
// Without this option unowned data is kept on rewrite but never returned.
func WithLegacyOwner(ownerID string) FileOption {
	return func(o *fileOptions) { o.legacyOwner = ownerID }
}

func buildFileOptions(opts []FileOption) fileOptions {
	var o fileOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// claims reports whether ownerID inherits the unowned bucket.
func (o fileOptions) claims(ownerID string) bool {
	return o.legacyOwner != "" && ownerID == o.legacyOwner
}

// NewFileStores creates the flat-file backend rooted at dir, creating the
// directory when missing.
func NewFileStores(dir string, opts ...FileOption) (*Stores, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Stores{
		Investments:  NewFileInvestmentRepository(filepath.Join(dir, InvestmentsFile), opts...),
		ManualPrices: NewFileManualPriceRepository(filepath.Join(dir, ManualPricesFile), opts...),
		Snapshots:    NewFileSnapshotRepository(filepath.Join(dir, SnapshotsFile), opts...),
	}, nil
}

// readJSON decodes the file at path into v. A missing or empty file leaves v
// untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptFile, filepath.Base(path), err)
	}
	return nil
}

// readForQuery is readJSON for read-only callers: a corrupt file is logged
// and reads as empty.
func readForQuery(path string, v any) error {
	err := readJSON(path, v)
	if errors.Is(err, ErrCorruptFile) {
		logger.Get().Warnw("store file unreadable, treating as empty", "path", path, "error", err)
		return nil
	}
	return err
}

// writeJSON replaces the file at path with v. The data goes to a temp file in
// the same directory which is then renamed over the target, so readers see
// either the old or the new content.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
