package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"invtracker/internal/models"
)

func TestFileInvestmentRepository_LegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), InvestmentsFile)
	legacy := `[
		{"id": 1, "ownerId": "owner-1", "category": "Stocks", "name": "Tata Steel", "quantity": "3", "date": "2023-05-01", "purchasePricePerUnit": 100},
		{"id": 2, "category": "Crypto", "name": "btc", "quantity": 0.1, "totalPurchasePrice": 300000},
		{"id": "abc", "ownerId": "owner-1", "category": "Crypto", "name": "eth", "quantity": "lots", "totalPurchasePrice": "2000"}
	]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileInvestmentRepository(path)
	ctx := context.Background()

	list, err := repo.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 owned records, got %d", len(list))
	}
	if list[0].ID != "1" || list[1].ID != "abc" {
		t.Errorf("expected ids 1 and abc, got %s and %s", list[0].ID, list[1].ID)
	}
	if list[0].TotalPurchasePrice.Set {
		t.Error("expected legacy record to have no total purchase price")
	}
	if !list[0].PurchasePricePerUnit.OrZero().Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected per-unit price 100, got %s", list[0].PurchasePricePerUnit.OrZero())
	}
	if !list[1].Quantity.Set || !list[1].Quantity.OrZero().IsZero() {
		t.Errorf("expected malformed quantity to read as zero, got %+v", list[1].Quantity)
	}

	// Deleting by the numeric id keeps the ownerless record in the file.
	if err := repo.DeleteByID(ctx, "owner-1", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var raw []map[string]any
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("rewritten file is not valid JSON: %v", err)
	}
	if len(raw) != 2 {
		t.Errorf("expected 2 records left in file, got %d", len(raw))
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SnapshotsFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileSnapshotRepository(path)
	ctx := context.Background()

	list, err := repo.List(ctx, "owner-1")
	if err != nil {
		t.Fatalf("expected corrupt file to read as empty, got %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty series, got %d", len(list))
	}

	err = repo.UpsertForDate(ctx, "owner-1", "2026-01-01", decimal.NewFromInt(1))
	if !errors.Is(err, ErrCorruptFile) {
		t.Fatalf("expected write to refuse a corrupt file, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Error("corrupt file must not be overwritten")
	}
}

func TestWriteJSON_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManualPricesFile)

	for i := 0; i < 3; i++ {
		if err := writeJSON(path, manualPriceFile{"o": {"btc": models.NewAmount(decimal.NewFromInt(int64(i)))}}); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != ManualPricesFile {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only the store file, got %v", names)
	}

	data, _ := os.ReadFile(path)
	var file manualPriceFile
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatal(err)
	}
	if !file["o"]["btc"].OrZero().Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected last write to win, got %s", file["o"]["btc"].OrZero())
	}
}

func TestFileSnapshotRepository_NumbersOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotsFile)
	repo := NewFileSnapshotRepository(path)

	if err := repo.UpsertForDate(context.Background(), "o", "2026-01-01", decimal.RequireFromString("61450.87")); err != nil {
		t.Fatal(err)
	}

	var raw map[string][]map[string]any
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if v, ok := raw["o"][0]["value"].(float64); !ok || v != 61450.87 {
		t.Errorf("expected numeric value on disk, got %#v", raw["o"][0]["value"])
	}
}

// writeLegacyFiles seeds dir with files in the layout written before stores
// were keyed by owner.
func writeLegacyFiles(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		InvestmentsFile:  `[{"id": 7, "category": "Crypto", "name": "btc", "quantity": 0.1, "totalPurchasePrice": 300000}]`,
		ManualPricesFile: `{"BTC": 5000000, "gold": "6100.5"}`,
		SnapshotsFile:    `[{"date": "2024-01-02", "value": 12}, {"date": "2024-01-01", "value": 10}]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFileStores_LegacyLayoutWithoutOwner(t *testing.T) {
	dir := t.TempDir()
	writeLegacyFiles(t, dir)
	stores, err := NewFileStores(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	prices, err := stores.ManualPrices.Get(ctx, "owner-1")
	if err != nil || len(prices) != 0 {
		t.Fatalf("expected no prices for a new owner, got %v, %v", prices, err)
	}

	if _, err := stores.ManualPrices.Upsert(ctx, "owner-1", "ETH", models.NewAmount(decimal.NewFromInt(200000))); err != nil {
		t.Fatalf("expected upsert over a flat price file to succeed, got %v", err)
	}
	if err := stores.Snapshots.UpsertForDate(ctx, "owner-1", "2026-01-01", decimal.NewFromInt(5)); err != nil {
		t.Fatalf("expected upsert over a bare snapshot array to succeed, got %v", err)
	}

	var file manualPriceFile
	if err := readJSON(filepath.Join(dir, ManualPricesFile), &file); err != nil {
		t.Fatal(err)
	}
	if !file[unowned]["btc"].OrZero().Equal(decimal.NewFromInt(5000000)) {
		t.Errorf("expected unowned prices to be kept, got %v", file[unowned])
	}
	if !file["owner-1"]["eth"].OrZero().Equal(decimal.NewFromInt(200000)) {
		t.Errorf("expected owner price to be written, got %v", file["owner-1"])
	}

	var series snapshotFile
	if err := readJSON(filepath.Join(dir, SnapshotsFile), &series); err != nil {
		t.Fatal(err)
	}
	if len(series[unowned]) != 2 || len(series["owner-1"]) != 1 {
		t.Errorf("expected unowned and owner series side by side, got %+v", series)
	}
}

func TestFileStores_LegacyOwnerClaimsOldData(t *testing.T) {
	dir := t.TempDir()
	writeLegacyFiles(t, dir)
	stores, err := NewFileStores(dir, WithLegacyOwner("owner-1"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("reads include unowned data", func(t *testing.T) {
		list, err := stores.Investments.ListByOwner(ctx, "owner-1")
		if err != nil || len(list) != 1 || list[0].ID != "7" || list[0].UserID != "owner-1" {
			t.Fatalf("expected the ownerless holding, got %+v, %v", list, err)
		}
		owners, _ := stores.Investments.ListOwners(ctx)
		if len(owners) != 1 || owners[0] != "owner-1" {
			t.Errorf("expected legacy owner listed, got %v", owners)
		}

		prices, _ := stores.ManualPrices.Get(ctx, "owner-1")
		if !prices["btc"].OrZero().Equal(decimal.NewFromInt(5000000)) || !prices["gold"].OrZero().Equal(decimal.RequireFromString("6100.5")) {
			t.Errorf("expected flat prices with lower-cased names, got %v", prices)
		}
		other, _ := stores.ManualPrices.Get(ctx, "owner-2")
		if len(other) != 0 {
			t.Errorf("expected other owners to see nothing, got %v", other)
		}

		series, _ := stores.Snapshots.List(ctx, "owner-1")
		if len(series) != 2 || series[0].Date != "2024-01-01" {
			t.Errorf("expected sorted legacy series, got %+v", series)
		}
	})

	t.Run("first write migrates", func(t *testing.T) {
		if _, err := stores.ManualPrices.Upsert(ctx, "owner-1", "eth", models.NewAmount(decimal.NewFromInt(200000))); err != nil {
			t.Fatal(err)
		}
		if err := stores.Snapshots.UpsertForDate(ctx, "owner-1", "2024-01-01", decimal.NewFromInt(11)); err != nil {
			t.Fatal(err)
		}
		if err := stores.Investments.DeleteByID(ctx, "owner-1", "7"); err != nil {
			t.Fatalf("expected the claimed holding to be deletable, got %v", err)
		}

		var prices manualPriceFile
		if err := readJSON(filepath.Join(dir, ManualPricesFile), &prices); err != nil {
			t.Fatal(err)
		}
		if _, ok := prices[unowned]; ok {
			t.Error("expected unowned prices to be moved")
		}
		if len(prices["owner-1"]) != 3 {
			t.Errorf("expected btc, gold and eth under the owner, got %v", prices["owner-1"])
		}

		var series map[string][]map[string]any
		data, _ := os.ReadFile(filepath.Join(dir, SnapshotsFile))
		if err := json.Unmarshal(data, &series); err != nil {
			t.Fatalf("expected keyed snapshot file after write: %v", err)
		}
		entries := series["owner-1"]
		if len(entries) != 2 || entries[1]["date"] != "2024-01-01" || entries[1]["value"] != float64(11) {
			t.Errorf("expected the legacy entry replaced in place, got %v", entries)
		}
	})
}
