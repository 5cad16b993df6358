package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/validator"
	"github.com/pratik-mahalle/creditwatch/internal/services"
	"github.com/pratik-mahalle/creditwatch/internal/testutil"
)

func newAlertFixture(t *testing.T) (*AlertHandler, *services.AlertStore) {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	store := services.NewAlertStore(
		testutil.NewMockAlertRepository(),
		&testutil.MockPreferenceRepository{},
		&testutil.MockNotifier{},
		testutil.NewFixedClock(),
		&testutil.SequenceIDs{},
		log,
	)
	return NewAlertHandler(store, log, validator.New()), store
}

func seedAlerts(t *testing.T, store *services.AlertStore) []*alert.Alert {
	t.Helper()
	created, err := store.Ingest(context.Background(), []alert.Trigger{
		{Type: alert.TypeCreditLimit, Severity: alert.SeverityCritical, EntityID: "acme", EntityName: "Acme Corp", Title: "Credit limit utilization breach"},
		{Type: alert.TypeDelinquency, Severity: alert.SeverityMedium, EntityID: "globex", EntityName: "Globex", Title: "Payment delinquency"},
	})
	if err != nil {
		t.Fatalf("seed ingest failed: %v", err)
	}
	return created
}

// withURLParam injects a chi route parameter into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAlertHandler_List(t *testing.T) {
	handler, store := newAlertFixture(t)
	seedAlerts(t, store)

	tests := []struct {
		name           string
		queryParams    string
		expectedStatus int
		expectedCount  int
	}{
		{"list all alerts", "", http.StatusOK, 2},
		{"filter by severity", "?severity=critical", http.StatusOK, 1},
		{"filter by type", "?type=delinquency", http.StatusOK, 1},
		{"filter by entity", "?entity_id=acme", http.StatusOK, 1},
		{"combined filters exclude", "?severity=critical&entity_id=globex", http.StatusOK, 0},
		{"pagination clamps", "?page=2&page_size=1", http.StatusOK, 1},
		{"unknown severity rejected", "?severity=bogus", http.StatusBadRequest, 0},
		{"unknown type rejected", "?type=bogus", http.StatusBadRequest, 0},
		{"bad from timestamp rejected", "?from=not-a-time", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts"+tt.queryParams, nil)
			rr := httptest.NewRecorder()

			handler.List(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if rr.Code != http.StatusOK {
				return
			}

			var response struct {
				Success bool `json:"success"`
				Data    struct {
					Data []json.RawMessage `json:"data"`
				} `json:"data"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !response.Success {
				t.Error("success = false")
			}
			if len(response.Data.Data) != tt.expectedCount {
				t.Errorf("returned %d alerts, want %d", len(response.Data.Data), tt.expectedCount)
			}
		})
	}
}

func TestAlertHandler_GetMarksRead(t *testing.T) {
	handler, store := newAlertFixture(t)
	created := seedAlerts(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/"+created[0].ID, nil)
	req = withURLParam(req, "id", created[0].ID)
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var response struct {
		Data struct {
			Status string `json:"status"`
			ReadAt *string `json:"readAt"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.Status != "read" {
		t.Errorf("status = %s, want read", response.Data.Status)
	}
	if response.Data.ReadAt == nil {
		t.Error("readAt missing after view")
	}
}

func TestAlertHandler_GetNotFound(t *testing.T) {
	handler, _ := newAlertFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/missing", nil)
	req = withURLParam(req, "id", "missing")
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAlertHandler_Resolve(t *testing.T) {
	handler, store := newAlertFixture(t)
	created := seedAlerts(t, store)

	body := bytes.NewBufferString(`{"resolution":"limit increase approved"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+created[0].ID+"/resolve", body)
	req = withURLParam(req, "id", created[0].ID)
	rr := httptest.NewRecorder()

	handler.Resolve(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	a, err := store.Get(context.Background(), created[0].ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if a.Status != alert.StatusResolved {
		t.Errorf("status = %s, want resolved", a.Status)
	}
	if a.Metadata.Resolution != "limit increase approved" {
		t.Errorf("resolution = %q", a.Metadata.Resolution)
	}
}

func TestAlertHandler_ResolveWithoutBody(t *testing.T) {
	handler, store := newAlertFixture(t)
	created := seedAlerts(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+created[0].ID+"/resolve", nil)
	req = withURLParam(req, "id", created[0].ID)
	rr := httptest.NewRecorder()

	handler.Resolve(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
}

func TestAlertHandler_DismissAndDelete(t *testing.T) {
	handler, store := newAlertFixture(t)
	created := seedAlerts(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+created[0].ID+"/dismiss", nil)
	req = withURLParam(req, "id", created[0].ID)
	rr := httptest.NewRecorder()
	handler.Dismiss(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("dismiss status = %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/alerts/"+created[1].ID, nil)
	req = withURLParam(req, "id", created[1].ID)
	rr = httptest.NewRecorder()
	handler.Delete(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rr.Code, rr.Body.String())
	}

	remaining, _ := store.Query(context.Background(), alert.Filter{})
	if len(remaining) != 1 {
		t.Errorf("stored %d alerts, want 1", len(remaining))
	}
}

func TestAlertHandler_MarkAllReadAndSummary(t *testing.T) {
	handler, store := newAlertFixture(t)
	seedAlerts(t, store)

	rr := httptest.NewRecorder()
	handler.MarkAllRead(rr, httptest.NewRequest(http.MethodPost, "/api/v1/alerts/read-all", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("read-all status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.Summary(rr, httptest.NewRequest(http.MethodGet, "/api/v1/alerts/summary", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rr.Code)
	}

	var response struct {
		Data struct {
			Total          int `json:"total"`
			Unread         int `json:"unread"`
			CriticalUnread int `json:"criticalUnread"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.Total != 2 {
		t.Errorf("total = %d, want 2", response.Data.Total)
	}
	if response.Data.Unread != 0 {
		t.Errorf("unread = %d, want 0", response.Data.Unread)
	}
}
