package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/models"
	"invtracker/internal/services"
	"invtracker/internal/valuation"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, auditService: auditService}
}

// AddInvestmentRequest represents the request payload for adding a holding.
// Numbers may be sent as JSON numbers or numeric strings.
type AddInvestmentRequest struct {
	Category           models.Category  `json:"category" binding:"required,investment_category" swaggertype:"string" enums:"Money,Crypto,Stocks,ETF Groww"`
	Name               string           `json:"name" binding:"required,min=1,max=200"`
	Quantity           *decimal.Decimal `json:"quantity" binding:"required" swaggertype:"number"`
	Date               string           `json:"date" binding:"required,calendar_date" example:"2024-01-15"`
	TotalPurchasePrice *decimal.Decimal `json:"total_purchase_price" binding:"required" swaggertype:"number"`
}

// UpdateByNameRequest represents the request payload for setting the value of
// a Money holding.
type UpdateByNameRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	CurrentValue *decimal.Decimal `json:"current_value" binding:"required" swaggertype:"number"`
}

// HoldingResponse is a stored holding.
type HoldingResponse struct {
	ID                 string          `json:"id"`
	Category           models.Category `json:"category"`
	Name               string          `json:"name"`
	Quantity           float64         `json:"quantity"`
	Date               string          `json:"date"`
	TotalPurchasePrice float64         `json:"total_purchase_price"`
}

// ValuedInvestmentResponse is a holding with its current valuation.
type ValuedInvestmentResponse struct {
	HoldingResponse
	LivePricePerUnit *float64 `json:"live_price_per_unit"`
	CurrentValue     float64  `json:"current_value"`
	ProfitOrLoss     float64  `json:"profit_or_loss"`
}

// CategorySummaryResponse aggregates one category.
type CategorySummaryResponse struct {
	Count              int     `json:"count"`
	CurrentValue       float64 `json:"current_value"`
	TotalPurchasePrice float64 `json:"total_purchase_price"`
	ProfitOrLoss       float64 `json:"profit_or_loss"`
	Display            string  `json:"display"`
}

// PortfolioSummaryResponse contains totals across all holdings.
type PortfolioSummaryResponse struct {
	CurrentValue       float64                                     `json:"current_value"`
	TotalPurchasePrice float64                                     `json:"total_purchase_price"`
	ProfitOrLoss       float64                                     `json:"profit_or_loss"`
	ProfitOrLossPct    float64                                     `json:"profit_or_loss_pct"`
	Display            string                                      `json:"display"`
	ByCategory         map[models.Category]CategorySummaryResponse `json:"by_category"`
}

func toHoldingResponse(inv *models.Investment) HoldingResponse {
	return HoldingResponse{
		ID:                 inv.ID,
		Category:           inv.Category,
		Name:               inv.Name,
		Quantity:           toFloat(inv.Quantity.OrZero()),
		Date:               inv.Date,
		TotalPurchasePrice: toFloat(valuation.Round2(valuation.PurchaseTotal(inv))),
	}
}

func toValuedResponse(v *services.ValuedInvestment) ValuedInvestmentResponse {
	resp := ValuedInvestmentResponse{
		HoldingResponse: toHoldingResponse(&v.Investment),
		CurrentValue:    toFloat(v.Valuation.CurrentValue),
		ProfitOrLoss:    toFloat(v.Valuation.ProfitOrLoss),
	}
	resp.TotalPurchasePrice = toFloat(v.Valuation.TotalPurchasePrice)
	if v.Valuation.LivePricePerUnit != nil {
		price := toFloat(*v.Valuation.LivePricePerUnit)
		resp.LivePricePerUnit = &price
	}
	return resp
}

// ListInvestments handles listing the user's holdings with live valuations.
// @Summary     List investments
// @Description List all holdings of the user, each valued at its current live price
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]ValuedInvestmentResponse "Valued holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [get]
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	valued, err := h.investmentService.ListInvestments(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]ValuedInvestmentResponse, len(valued))
	for i := range valued {
		resp[i] = toValuedResponse(&valued[i])
	}
	c.JSON(http.StatusOK, gin.H{"investments": resp})
}

// AddInvestment handles adding a new holding.
// @Summary     Add investment
// @Description Add a new holding. Money names are unique per user.
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddInvestmentRequest true "Holding details"
// @Success     201 {object} map[string]HoldingResponse "Holding created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate Money holding"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) AddInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inv, err := h.investmentService.AddInvestment(c.Request.Context(), userID, services.AddInvestmentInput{
		Category:           req.Category,
		Name:               req.Name,
		Quantity:           *req.Quantity,
		Date:               req.Date,
		TotalPurchasePrice: *req.TotalPurchasePrice,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVESTMENT", "investment", inv.ID, c.ClientIP(),
		map[string]interface{}{"category": string(inv.Category), "name": inv.Name, "quantity": req.Quantity.String()})

	c.JSON(http.StatusCreated, gin.H{"investment": toHoldingResponse(inv)})
}

// UpdateByName handles setting the value of a Money holding.
// @Summary     Update Money holding
// @Description Set the current value of the Money holding with the given name (case-insensitive)
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateByNameRequest true "Name and new value"
// @Success     200 {object} map[string]HoldingResponse "Holding updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Money holding not found"
// @Router      /investments/update-by-name [post]
func (h *InvestmentHandler) UpdateByName(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateByNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inv, err := h.investmentService.UpdateMoneyByName(c.Request.Context(), userID, req.Name, *req.CurrentValue)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_MONEY_HOLDING", "investment", inv.ID, c.ClientIP(),
		map[string]interface{}{"name": inv.Name, "current_value": req.CurrentValue.String()})

	c.JSON(http.StatusOK, gin.H{"investment": toHoldingResponse(inv)})
}

// DeleteInvestment handles deleting a holding.
// @Summary     Delete investment
// @Tags        investments
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Blank ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.DeleteInvestment(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INVESTMENT", "investment", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetPortfolioSummary handles the portfolio totals.
// @Summary     Portfolio summary
// @Description Totals across all holdings with a per-category breakdown, formatted in INR
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} PortfolioSummaryResponse "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/summary [get]
func (h *InvestmentHandler) GetPortfolioSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.investmentService.GetPortfolioSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := PortfolioSummaryResponse{
		CurrentValue:       toFloat(summary.CurrentValue),
		TotalPurchasePrice: toFloat(summary.TotalPurchasePrice),
		ProfitOrLoss:       toFloat(summary.ProfitOrLoss),
		ProfitOrLossPct:    summary.ProfitOrLossPct,
		Display:            summary.Display,
		ByCategory:         make(map[models.Category]CategorySummaryResponse, len(summary.ByCategory)),
	}
	for category, cs := range summary.ByCategory {
		resp.ByCategory[category] = CategorySummaryResponse{
			Count:              cs.Count,
			CurrentValue:       toFloat(cs.CurrentValue),
			TotalPurchasePrice: toFloat(cs.TotalPurchasePrice),
			ProfitOrLoss:       toFloat(cs.ProfitOrLoss),
			Display:            cs.Display,
		}
	}
	c.JSON(http.StatusOK, resp)
}
