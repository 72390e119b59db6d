package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "invtracker/internal/errors"
	"invtracker/internal/services"
	"invtracker/internal/valuation"
)

type mockSnapshotService struct {
	getHistoryFn        func(ctx context.Context, userID, from, to string) ([]valuation.Point, error)
	saveDailySnapshotFn func(ctx context.Context, userID string) (*valuation.Point, error)
	saveAllSnapshotsFn  func(ctx context.Context) (int, error)
	backfillFn          func(ctx context.Context, userID string, from time.Time) ([]valuation.Point, error)
}

func (m *mockSnapshotService) GetHistory(ctx context.Context, userID, from, to string) ([]valuation.Point, error) {
	if m.getHistoryFn != nil {
		return m.getHistoryFn(ctx, userID, from, to)
	}
	return []valuation.Point{}, nil
}

func (m *mockSnapshotService) SaveDailySnapshot(ctx context.Context, userID string) (*valuation.Point, error) {
	if m.saveDailySnapshotFn != nil {
		return m.saveDailySnapshotFn(ctx, userID)
	}
	return &valuation.Point{}, nil
}

func (m *mockSnapshotService) SaveAllSnapshots(ctx context.Context) (int, error) {
	if m.saveAllSnapshotsFn != nil {
		return m.saveAllSnapshotsFn(ctx)
	}
	return 0, nil
}

func (m *mockSnapshotService) Backfill(ctx context.Context, userID string, from time.Time) ([]valuation.Point, error) {
	if m.backfillFn != nil {
		return m.backfillFn(ctx, userID, from)
	}
	return []valuation.Point{}, nil
}

var _ services.SnapshotServicer = (*mockSnapshotService)(nil)

func setupHistoryRouter(handler *HistoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/historical-portfolio-value", handler.GetHistory)
	auth.POST("/historical-portfolio-value/backfill", handler.Backfill)
	auth.POST("/save-daily-snapshot", handler.SaveDailySnapshot)
	r.POST("/pipeline/snapshots", handler.SaveAllSnapshots)
	return r
}

func TestHistoryHandler_GetHistory(t *testing.T) {
	t.Run("returns 200 and passes range", func(t *testing.T) {
		var gotFrom, gotTo string
		svc := &mockSnapshotService{
			getHistoryFn: func(_ context.Context, _, from, to string) ([]valuation.Point, error) {
				gotFrom, gotTo = from, to
				return []valuation.Point{
					{Date: "2025-01-01", Value: dec("100")},
					{Date: "2025-01-02", Value: dec("151.01")},
				}, nil
			},
		}
		handler := NewHistoryHandler(svc, &mockAuditService{})
		r := setupHistoryRouter(handler)

		rec := doRequest(r, "GET", "/historical-portfolio-value?from_date=2025-01-01&to_date=2025-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotFrom != "2025-01-01" || gotTo != "2025-01-31" {
			t.Errorf("unexpected range passed: %s..%s", gotFrom, gotTo)
		}
		history := parseJSON(t, rec)["history"].([]interface{})
		if len(history) != 2 {
			t.Fatalf("expected 2 points, got %d", len(history))
		}
		last := history[1].(map[string]interface{})
		if last["date"] != "2025-01-02" || last["value"] != 151.01 {
			t.Errorf("unexpected point: %v", last)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		svc := &mockSnapshotService{
			getHistoryFn: func(_ context.Context, _, _, _ string) ([]valuation.Point, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "dates must be YYYY-MM-DD")
			},
		}
		handler := NewHistoryHandler(svc, &mockAuditService{})
		r := setupHistoryRouter(handler)

		rec := doRequest(r, "GET", "/historical-portfolio-value?from_date=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHistoryHandler_SaveDailySnapshot(t *testing.T) {
	svc := &mockSnapshotService{
		saveDailySnapshotFn: func(_ context.Context, userID string) (*valuation.Point, error) {
			if userID != testUserID {
				t.Errorf("expected user %s, got %s", testUserID, userID)
			}
			return &valuation.Point{Date: "2025-03-10", Value: dec("61450.87")}, nil
		},
	}
	audit := &mockAuditService{}
	handler := NewHistoryHandler(svc, audit)
	r := setupHistoryRouter(handler)

	rec := doRequest(r, "POST", "/save-daily-snapshot", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["date"] != "2025-03-10" || result["value"] != 61450.87 {
		t.Errorf("unexpected point: %v", result)
	}
	if a := audit.actions(); len(a) != 1 || a[0] != "SAVE_SNAPSHOT" {
		t.Errorf("expected SAVE_SNAPSHOT audit entry, got %v", a)
	}
}

func TestHistoryHandler_Backfill(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"default start without body", "", DefaultBackfillFrom},
		{"default start with empty object", `{}`, DefaultBackfillFrom},
		{"explicit start", `{"from_date":"2024-06-01"}`, "2024-06-01"},
	}
	for _, tt := range tests {
		t.Run("returns 200 with "+tt.name, func(t *testing.T) {
			var gotFrom time.Time
			svc := &mockSnapshotService{
				backfillFn: func(_ context.Context, _ string, from time.Time) ([]valuation.Point, error) {
					gotFrom = from
					return []valuation.Point{{Date: tt.want, Value: dec("0")}}, nil
				},
			}
			handler := NewHistoryHandler(svc, &mockAuditService{})
			r := setupHistoryRouter(handler)

			rec := doRequest(r, "POST", "/historical-portfolio-value/backfill", tt.body)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := gotFrom.Format("2006-01-02"); got != tt.want {
				t.Errorf("expected from %s, got %s", tt.want, got)
			}
			if parseJSON(t, rec)["days"] != 1.0 {
				t.Error("expected days = 1")
			}
		})
	}

	t.Run("returns 400 on bad from_date", func(t *testing.T) {
		handler := NewHistoryHandler(&mockSnapshotService{}, &mockAuditService{})
		r := setupHistoryRouter(handler)

		rec := doRequest(r, "POST", "/historical-portfolio-value/backfill", `{"from_date":"01-06-2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHistoryHandler_SaveAllSnapshots(t *testing.T) {
	svc := &mockSnapshotService{
		saveAllSnapshotsFn: func(_ context.Context) (int, error) { return 3, nil },
	}
	handler := NewHistoryHandler(svc, &mockAuditService{})
	r := setupHistoryRouter(handler)

	rec := doRequest(r, "POST", "/pipeline/snapshots", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["snapshots_recorded"] != 3.0 {
		t.Errorf("expected 3 snapshots recorded, got %v", rec.Body.String())
	}
}
