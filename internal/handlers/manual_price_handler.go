package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/services"
)

// ManualPriceHandler handles manual price override requests.
type ManualPriceHandler struct {
	manualPriceService services.ManualPriceServicer
	auditService       services.AuditServicer
}

// NewManualPriceHandler creates a new ManualPriceHandler.
func NewManualPriceHandler(manualPriceService services.ManualPriceServicer, auditService services.AuditServicer) *ManualPriceHandler {
	return &ManualPriceHandler{manualPriceService: manualPriceService, auditService: auditService}
}

// UpsertManualPriceRequest carries a per-unit price as a JSON number or a
// numeric string.
type UpsertManualPriceRequest struct {
	Price *decimal.Decimal `json:"price" binding:"required" swaggertype:"number"`
}

func toPriceTable(prices map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(prices))
	for name, price := range prices {
		out[name] = toFloat(price)
	}
	return out
}

// GetManualPrices handles listing the user's overrides.
// @Summary     List manual prices
// @Tags        manual-prices
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]map[string]number "Overrides by lower-cased name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /manual-asset-prices [get]
func (h *ManualPriceHandler) GetManualPrices(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	prices, err := h.manualPriceService.GetManualPrices(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"manual_prices": toPriceTable(prices)})
}

// UpsertManualPrice handles setting an override for one asset name.
// @Summary     Set manual price
// @Description Set the per-unit price used for holdings with this name, ahead of every feed
// @Tags        manual-prices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       name    path string                   true "Asset name (case-insensitive)"
// @Param       request body UpsertManualPriceRequest true "Price"
// @Success     200 {object} map[string]map[string]number "Full override table"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /manual-asset-prices/{name} [put]
func (h *ManualPriceHandler) UpsertManualPrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertManualPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be a number"))
		return
	}

	name := c.Param("name")
	prices, err := h.manualPriceService.UpsertManualPrice(c.Request.Context(), userID, name, *req.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPSERT_MANUAL_PRICE", "manual_price", name, c.ClientIP(),
		map[string]interface{}{"price": req.Price.String()})

	c.JSON(http.StatusOK, gin.H{"manual_prices": toPriceTable(prices)})
}
