package client

import (
	"context"
	"net/http"
)

// NotificationService handles notification preference API calls
type NotificationService struct {
	client *Client
}

// GetPreferences retrieves the current notification preferences
func (s *NotificationService) GetPreferences(ctx context.Context) (*Preferences, error) {
	var prefs Preferences
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/notifications/preferences", nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences replaces the notification preferences
func (s *NotificationService) UpdatePreferences(ctx context.Context, prefs Preferences) (*Preferences, error) {
	var updated Preferences
	if err := s.client.doRequest(ctx, http.MethodPut, "/api/v1/notifications/preferences", prefs, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
