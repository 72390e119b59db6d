package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"invtracker/internal/models"
	"invtracker/internal/uuid"
)

// recordID accepts both the numeric ids of old files and string ids.
type recordID string

func (id *recordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = recordID(n.String())
	return nil
}

// fileInvestment is one element of investments.json. Field names follow the
// file's historical camelCase layout.
type fileInvestment struct {
	ID                   recordID       `json:"id"`
	OwnerID              string         `json:"ownerId,omitempty"`
	Category             string         `json:"category"`
	Name                 string         `json:"name"`
	Quantity             models.Amount  `json:"quantity"`
	Date                 string         `json:"date"`
	TotalPurchasePrice   *models.Amount `json:"totalPurchasePrice,omitempty"`
	PurchasePricePerUnit *models.Amount `json:"purchasePricePerUnit,omitempty"`
	CreatedAt            *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt            *time.Time     `json:"updatedAt,omitempty"`
}

func (r *fileInvestment) toModel() models.Investment {
	inv := models.Investment{
		Base:     models.Base{ID: string(r.ID)},
		UserID:   r.OwnerID,
		Category: models.Category(r.Category),
		Name:     r.Name,
		Quantity: r.Quantity,
		Date:     r.Date,
	}
	if r.TotalPurchasePrice != nil {
		inv.TotalPurchasePrice = *r.TotalPurchasePrice
	}
	if r.PurchasePricePerUnit != nil {
		inv.PurchasePricePerUnit = *r.PurchasePricePerUnit
	}
	if r.CreatedAt != nil {
		inv.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		inv.UpdatedAt = *r.UpdatedAt
	}
	return inv
}

func fromModel(inv *models.Investment) fileInvestment {
	rec := fileInvestment{
		ID:       recordID(inv.ID),
		OwnerID:  inv.UserID,
		Category: string(inv.Category),
		Name:     inv.Name,
		Quantity: inv.Quantity,
		Date:     inv.Date,
	}
	if inv.TotalPurchasePrice.Set {
		total := inv.TotalPurchasePrice
		rec.TotalPurchasePrice = &total
	}
	if inv.PurchasePricePerUnit.Set {
		perUnit := inv.PurchasePricePerUnit
		rec.PurchasePricePerUnit = &perUnit
	}
	created, updated := inv.CreatedAt, inv.UpdatedAt
	rec.CreatedAt, rec.UpdatedAt = &created, &updated
	return rec
}

// fileInvestmentRepository keeps every owner's holdings in one JSON array.
// Records without an owner belong to the legacy owner when one is configured
// and are otherwise kept on rewrite but never listed.
type fileInvestmentRepository struct {
	path string
	opts fileOptions
	mu   sync.RWMutex
}

// NewFileInvestmentRepository creates an InvestmentRepository over the JSON
// file at path.
func NewFileInvestmentRepository(path string, opts ...FileOption) InvestmentRepository {
	return &fileInvestmentRepository{path: path, opts: buildFileOptions(opts)}
}

func (r *fileInvestmentRepository) owner(rec *fileInvestment) string {
	if rec.OwnerID == "" {
		return r.opts.legacyOwner
	}
	return rec.OwnerID
}

// claim stamps ownerless records with ownerID when ownerID is the legacy
// owner.
func (r *fileInvestmentRepository) claim(records []fileInvestment, ownerID string) {
	if !r.opts.claims(ownerID) {
		return
	}
	for i := range records {
		if records[i].OwnerID == "" {
			records[i].OwnerID = ownerID
		}
	}
}

func (r *fileInvestmentRepository) ListByOwner(_ context.Context, ownerID string) ([]models.Investment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []fileInvestment
	if err := readForQuery(r.path, &records); err != nil {
		return nil, err
	}

	investments := make([]models.Investment, 0, len(records))
	for i := range records {
		if ownerID != "" && r.owner(&records[i]) == ownerID {
			inv := records[i].toModel()
			inv.UserID = ownerID
			investments = append(investments, inv)
		}
	}
	return investments, nil
}

func (r *fileInvestmentRepository) ListOwners(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []fileInvestment
	if err := readForQuery(r.path, &records); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	owners := []string{}
	for i := range records {
		owner := r.owner(&records[i])
		if owner == "" {
			continue
		}
		if _, ok := seen[owner]; !ok {
			seen[owner] = struct{}{}
			owners = append(owners, owner)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

func (r *fileInvestmentRepository) Create(_ context.Context, inv *models.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []fileInvestment
	if err := readJSON(r.path, &records); err != nil {
		return err
	}
	r.claim(records, inv.UserID)

	if inv.Category == models.CategoryMoney {
		for _, rec := range records {
			if rec.OwnerID == inv.UserID && models.Category(rec.Category) == models.CategoryMoney && strings.EqualFold(rec.Name, inv.Name) {
				return ErrDuplicateMoneyHolding
			}
		}
	}

	if inv.ID == "" {
		inv.ID = uuid.New()
	}
	now := time.Now().UTC()
	inv.CreatedAt, inv.UpdatedAt = now, now

	return writeJSON(r.path, append(records, fromModel(inv)))
}

func (r *fileInvestmentRepository) UpdateMoneyByName(_ context.Context, ownerID, name string, value decimal.Decimal) (*models.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []fileInvestment
	if err := readJSON(r.path, &records); err != nil {
		return nil, err
	}
	r.claim(records, ownerID)

	for i := range records {
		rec := &records[i]
		if rec.OwnerID != ownerID || models.Category(rec.Category) != models.CategoryMoney || !strings.EqualFold(rec.Name, name) {
			continue
		}
		total := models.NewAmount(value)
		now := time.Now().UTC()
		rec.TotalPurchasePrice = &total
		rec.UpdatedAt = &now
		if err := writeJSON(r.path, records); err != nil {
			return nil, err
		}
		inv := rec.toModel()
		return &inv, nil
	}
	return nil, ErrNotFound
}

func (r *fileInvestmentRepository) DeleteByID(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []fileInvestment
	if err := readJSON(r.path, &records); err != nil {
		return err
	}
	r.claim(records, ownerID)

	kept := records[:0]
	found := false
	for _, rec := range records {
		if !found && rec.OwnerID == ownerID && string(rec.ID) == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return ErrNotFound
	}
	return writeJSON(r.path, kept)
}

func (r *fileInvestmentRepository) DeleteByCategory(_ context.Context, ownerID string, category models.Category) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []fileInvestment
	if err := readJSON(r.path, &records); err != nil {
		return 0, err
	}
	r.claim(records, ownerID)

	kept := records[:0]
	removed := 0
	for _, rec := range records {
		if rec.OwnerID == ownerID && models.Category(rec.Category) == category {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, writeJSON(r.path, kept)
}
