package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pratik-mahalle/creditwatch/internal/config"
	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/domain/notification"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func testAlert(severity alert.Severity) *alert.Alert {
	return &alert.Alert{
		ID:         "a-1",
		Type:       alert.TypeCreditLimit,
		Severity:   severity,
		Status:     alert.StatusUnread,
		Title:      "Credit limit utilization breach",
		Message:    "Acme Corp is using 97.0% of its approved credit limit",
		EntityName: "Acme Corp",
		CreatedAt:  time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_DesktopWebhook(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := New(config.NotificationConfig{DesktopWebhookURL: srv.URL}, testLogger())
	prefs := notification.Preferences{EnableDesktop: true, EnableSound: true}

	if err := d.Notify(context.Background(), testAlert(alert.SeverityCritical), prefs); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if received["title"] != "Credit limit utilization breach" {
		t.Errorf("title = %v", received["title"])
	}
	if received["severity"] != "critical" {
		t.Errorf("severity = %v", received["severity"])
	}
	if received["sound"] != true {
		t.Error("critical alert with sound enabled should request the audible cue")
	}
}

func TestDispatcher_SoundOnlyForCritical(t *testing.T) {
	tests := []struct {
		name      string
		severity  alert.Severity
		sound     bool
		wantSound bool
	}{
		{"critical with sound on", alert.SeverityCritical, true, true},
		{"critical with sound off", alert.SeverityCritical, false, false},
		{"high with sound on", alert.SeverityHigh, true, false},
		{"low with sound on", alert.SeverityLow, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received map[string]interface{}
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&received)
			}))
			defer srv.Close()

			d := New(config.NotificationConfig{DesktopWebhookURL: srv.URL}, testLogger())
			prefs := notification.Preferences{EnableDesktop: true, EnableSound: tt.sound}

			if err := d.Notify(context.Background(), testAlert(tt.severity), prefs); err != nil {
				t.Fatalf("Notify() error = %v", err)
			}
			if received["sound"] != tt.wantSound {
				t.Errorf("sound = %v, want %v", received["sound"], tt.wantSound)
			}
		})
	}
}

func TestDispatcher_DisabledChannelsSkipped(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	d := New(config.NotificationConfig{DesktopWebhookURL: srv.URL}, testLogger())
	prefs := notification.Preferences{} // everything off

	if err := d.Notify(context.Background(), testAlert(alert.SeverityCritical), prefs); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("webhook called %d times with desktop disabled, want 0", calls)
	}
}

func TestDispatcher_WebhookFailureReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := New(config.NotificationConfig{DesktopWebhookURL: srv.URL}, testLogger())
	prefs := notification.Preferences{EnableDesktop: true}

	if err := d.Notify(context.Background(), testAlert(alert.SeverityHigh), prefs); err == nil {
		t.Fatal("expected error for failing webhook")
	}
}

func TestDispatcher_ChannelsFailIndependently(t *testing.T) {
	// Desktop has no webhook configured and fails; email is configured
	// and must still go out.
	d := New(config.NotificationConfig{EmailTo: "risk@example.com"}, testLogger())
	prefs := notification.Preferences{EnableDesktop: true, EnableEmail: true}

	err := d.Notify(context.Background(), testAlert(alert.SeverityHigh), prefs)
	if err == nil {
		t.Fatal("expected aggregate error from failed desktop channel")
	}
}

func TestDispatcher_EmailWithoutRecipient(t *testing.T) {
	d := New(config.NotificationConfig{}, testLogger())
	prefs := notification.Preferences{EnableEmail: true}

	if err := d.Notify(context.Background(), testAlert(alert.SeverityHigh), prefs); err == nil {
		t.Fatal("expected error when email enabled without recipient")
	}
}
