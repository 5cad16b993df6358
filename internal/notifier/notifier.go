package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pratik-mahalle/creditwatch/internal/config"
	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/domain/notification"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/metrics"
)

// Dispatcher fans a newly created alert out to the enabled channels.
// Channels fail independently: a broken email relay must not suppress
// the desktop notification, and no channel failure ever reaches the
// store as anything but a logged warning.
type Dispatcher struct {
	cfg        config.NotificationConfig
	logger     *logger.Logger
	httpClient *http.Client
}

var _ alert.Notifier = (*Dispatcher)(nil)

// New creates a dispatcher.
func New(cfg config.NotificationConfig, log *logger.Logger) *Dispatcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		cfg:    cfg,
		logger: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify delivers the alert on every enabled channel. The returned
// error aggregates per-channel failures; channels that succeeded have
// already delivered.
func (d *Dispatcher) Notify(ctx context.Context, a *alert.Alert, prefs notification.Preferences) error {
	var failures []error

	if prefs.EnableDesktop {
		err := d.sendDesktop(ctx, a, prefs)
		d.record(notification.ChannelDesktop, a, err)
		if err != nil {
			failures = append(failures, fmt.Errorf("desktop: %w", err))
		}
	}
	if prefs.EnableEmail {
		err := d.sendEmail(ctx, a)
		d.record(notification.ChannelEmail, a, err)
		if err != nil {
			failures = append(failures, fmt.Errorf("email: %w", err))
		}
	}
	if prefs.EnableSMS {
		err := d.sendSMS(ctx, a)
		d.record(notification.ChannelSMS, a, err)
		if err != nil {
			failures = append(failures, fmt.Errorf("sms: %w", err))
		}
	}

	return errors.Join(failures...)
}

// sendDesktop posts the alert to the configured desktop notification
// webhook. Critical alerts additionally request an audible cue when
// sound is enabled.
func (d *Dispatcher) sendDesktop(ctx context.Context, a *alert.Alert, prefs notification.Preferences) error {
	if d.cfg.DesktopWebhookURL == "" {
		return fmt.Errorf("no desktop webhook URL configured")
	}

	sound := prefs.EnableSound && a.Severity == alert.SeverityCritical
	payload, err := json.Marshal(map[string]interface{}{
		"title":    a.Title,
		"message":  a.Message,
		"severity": a.Severity,
		"type":     a.Type,
		"entity":   a.EntityName,
		"sound":    sound,
		"color":    severityColor(a.Severity),
		"ts":       a.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal desktop payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.DesktopWebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post desktop notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("desktop webhook returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// sendEmail queues an email notification.
func (d *Dispatcher) sendEmail(ctx context.Context, a *alert.Alert) error {
	if d.cfg.EmailTo == "" {
		return fmt.Errorf("no email recipient configured")
	}

	// TODO: wire an SMTP relay; for now delivery stops at the queue log.
	d.logger.WithFields(map[string]interface{}{
		"alert_id": a.ID,
		"to":       d.cfg.EmailTo,
		"severity": a.Severity,
	}).Info("Email notification queued")
	return nil
}

// sendSMS queues an SMS notification.
func (d *Dispatcher) sendSMS(ctx context.Context, a *alert.Alert) error {
	if d.cfg.SMSRecipient == "" {
		return fmt.Errorf("no SMS recipient configured")
	}

	d.logger.WithFields(map[string]interface{}{
		"alert_id":  a.ID,
		"recipient": d.cfg.SMSRecipient,
		"severity":  a.Severity,
	}).Info("SMS notification queued")
	return nil
}

func (d *Dispatcher) record(channel notification.Channel, a *alert.Alert, err error) {
	if err != nil {
		metrics.RecordNotification(string(channel), "error")
		d.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
			"channel":  channel,
		}).WarnWithErr(err, "Notification channel failed")
		return
	}
	metrics.RecordNotification(string(channel), "ok")
}

func severityColor(s alert.Severity) string {
	switch s {
	case alert.SeverityCritical:
		return "#ff0000"
	case alert.SeverityHigh:
		return "#ff8c00"
	case alert.SeverityMedium:
		return "#ffcc00"
	default:
		return "#36a64f"
	}
}
