package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"invtracker/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestInvestment creates a holding with a total purchase price.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID string, category models.Category, name, quantity, total string) *models.Investment {
	t.Helper()

	inv := &models.Investment{
		UserID:             userID,
		Category:           category,
		Name:               name,
		Quantity:           models.ParseAmount(quantity),
		Date:               "2024-01-15",
		TotalPurchasePrice: models.ParseAmount(total),
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateTestMoneyHolding creates a Money holding worth value.
func CreateTestMoneyHolding(t *testing.T, db *gorm.DB, userID, name, value string) *models.Investment {
	t.Helper()
	return CreateTestInvestment(t, db, userID, models.CategoryMoney, name, "1", value)
}

// CreateTestManualPrice stores a manual price override.
func CreateTestManualPrice(t *testing.T, db *gorm.DB, userID, name, price string) *models.ManualPrice {
	t.Helper()

	mp := &models.ManualPrice{
		UserID: userID,
		Name:   name,
		Price:  models.ParseAmount(price),
	}
	if err := db.Create(mp).Error; err != nil {
		t.Fatalf("failed to create test manual price: %v", err)
	}
	return mp
}

// CreateTestSnapshot stores a portfolio value for the given date.
func CreateTestSnapshot(t *testing.T, db *gorm.DB, userID, date, value string) *models.PortfolioSnapshot {
	t.Helper()

	snap := &models.PortfolioSnapshot{
		UserID:     userID,
		Date:       date,
		Value:      decimal.RequireFromString(value),
		RecordedAt: time.Now().UTC(),
	}
	if err := db.Create(snap).Error; err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return snap
}
