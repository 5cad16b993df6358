package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/validator"
	"github.com/pratik-mahalle/creditwatch/internal/services"
	"github.com/pratik-mahalle/creditwatch/internal/testutil"
)

func newNotificationFixture(t *testing.T) *NotificationHandler {
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
	return NewNotificationHandler(store, log, validator.New())
}

func TestNotificationHandler_GetPreferences(t *testing.T) {
	handler := newNotificationFixture(t)

	rr := httptest.NewRecorder()
	handler.GetPreferences(rr, httptest.NewRequest(http.MethodGet, "/api/v1/notifications/preferences", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var response struct {
		Data struct {
			EnableSound   bool `json:"enableSound"`
			EnableDesktop bool `json:"enableDesktop"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Data.EnableSound || !response.Data.EnableDesktop {
		t.Errorf("defaults = %+v", response.Data)
	}
}

func TestNotificationHandler_UpdatePreferences(t *testing.T) {
	handler := newNotificationFixture(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"valid update", `{"enableDesktop":true,"mutedTypes":["concentration"]}`, http.StatusOK},
		{"unknown muted type rejected", `{"mutedTypes":["bogus"]}`, http.StatusBadRequest},
		{"malformed body rejected", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/notifications/preferences",
				bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.UpdatePreferences(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}
