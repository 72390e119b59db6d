package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/models"
	"invtracker/internal/services"
	"invtracker/internal/valuation"
)

// DefaultBackfillFrom is the first day rebuilt by a backfill without from_date.
const DefaultBackfillFrom = "2024-01-01"

// HistoryHandler handles the historical portfolio value series.
type HistoryHandler struct {
	snapshotService services.SnapshotServicer
	auditService    services.AuditServicer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(snapshotService services.SnapshotServicer, auditService services.AuditServicer) *HistoryHandler {
	return &HistoryHandler{snapshotService: snapshotService, auditService: auditService}
}

// PointResponse is one day of the series.
type PointResponse struct {
	Date  string  `json:"date" example:"2024-01-15"`
	Value float64 `json:"value"`
}

// BackfillRequest represents the optional backfill payload.
type BackfillRequest struct {
	FromDate string `json:"from_date" binding:"omitempty,calendar_date" example:"2024-01-01"`
}

func toPointResponses(series []valuation.Point) []PointResponse {
	out := make([]PointResponse, len(series))
	for i, p := range series {
		out[i] = PointResponse{Date: p.Date, Value: toFloat(p.Value)}
	}
	return out
}

// GetHistory handles reading the series.
// @Summary     Historical portfolio value
// @Description Daily portfolio totals ascending by date, optionally limited to an inclusive range
// @Tags        history
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "First date (YYYY-MM-DD)"
// @Param       to_date   query string false "Last date (YYYY-MM-DD)"
// @Success     200 {object} map[string][]PointResponse "Series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /historical-portfolio-value [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.snapshotService.GetHistory(c.Request.Context(), userID, c.Query("from_date"), c.Query("to_date"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": toPointResponses(series)})
}

// SaveDailySnapshot handles recording today's total.
// @Summary     Save daily snapshot
// @Description Value every holding and record the total under today's UTC date, replacing an earlier value for the same day
// @Tags        history
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} PointResponse "Recorded point"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /save-daily-snapshot [post]
func (h *HistoryHandler) SaveDailySnapshot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	point, err := h.snapshotService.SaveDailySnapshot(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SAVE_SNAPSHOT", "portfolio_snapshot", point.Date, c.ClientIP(),
		map[string]interface{}{"value": point.Value.String()})

	c.JSON(http.StatusOK, PointResponse{Date: point.Date, Value: toFloat(point.Value)})
}

// Backfill handles rebuilding the series from purchase prices.
// @Summary     Backfill history
// @Description Replace the series with one point per day from from_date (not before 2000-01-01) through today, valued at purchase price
// @Tags        history
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BackfillRequest false "Start date"
// @Success     200 {object} map[string]interface{} "Rebuilt series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /historical-portfolio-value/backfill [post]
func (h *HistoryHandler) Backfill(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BackfillRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}
	if req.FromDate == "" {
		req.FromDate = DefaultBackfillFrom
	}
	from, err := time.Parse(models.DateLayout, req.FromDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date must be YYYY-MM-DD"))
		return
	}

	series, err := h.snapshotService.Backfill(c.Request.Context(), userID, from)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "BACKFILL_HISTORY", "portfolio_snapshot", "", c.ClientIP(),
		map[string]interface{}{"from_date": req.FromDate, "days": len(series)})

	c.JSON(http.StatusOK, gin.H{"days": len(series), "history": toPointResponses(series)})
}

// SaveAllSnapshots handles the scheduled snapshot run for every owner.
// @Summary     Snapshot all portfolios
// @Description Save today's snapshot for every owner with holdings (pipeline endpoint)
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header   string         true "Pipeline API key"
// @Success     200       {object} map[string]int "Snapshots recorded count"
// @Failure     401       {object} ErrorResponse  "Invalid API key"
// @Failure     503       {object} ErrorResponse  "Pipeline not configured"
// @Router      /pipeline/snapshots [post]
func (h *HistoryHandler) SaveAllSnapshots(c *gin.Context) {
	count, err := h.snapshotService.SaveAllSnapshots(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots_recorded": count})
}
