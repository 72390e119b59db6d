// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"invtracker/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("investment_category", validateInvestmentCategory)
		_ = v.RegisterValidation("calendar_date", validateCalendarDate)
	}
}

// validateInvestmentCategory accepts the categories new holdings may use.
// Bank is retired and rejected.
func validateInvestmentCategory(fl validator.FieldLevel) bool {
	switch models.Category(fl.Field().String()) {
	case models.CategoryMoney, models.CategoryCrypto, models.CategoryStocks, models.CategoryETFGroww:
		return true
	}
	return false
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(models.DateLayout, fl.Field().String())
	return err == nil
}
