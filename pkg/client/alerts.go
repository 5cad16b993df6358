package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// AlertListOptions contains options for listing alerts
type AlertListOptions struct {
	ListOptions
	Types      []string
	Severities []string
	Statuses   []string
	EntityID   string
	From       string // RFC 3339
	To         string // RFC 3339
}

// AlertPage is one page of alerts plus pagination info
type AlertPage struct {
	Data []Alert `json:"data"`
	Pagination
}

// List retrieves alerts, newest first
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) (*AlertPage, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if len(opts.Types) > 0 {
			query.Set("type", strings.Join(opts.Types, ","))
		}
		if len(opts.Severities) > 0 {
			query.Set("severity", strings.Join(opts.Severities, ","))
		}
		if len(opts.Statuses) > 0 {
			query.Set("status", strings.Join(opts.Statuses, ","))
		}
		if opts.EntityID != "" {
			query.Set("entity_id", opts.EntityID)
		}
		if opts.From != "" {
			query.Set("from", opts.From)
		}
		if opts.To != "" {
			query.Set("to", opts.To)
		}
	}

	path := "/api/v1/alerts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page AlertPage
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get retrieves a single alert. Viewing an unread alert marks it read.
func (s *AlertService) Get(ctx context.Context, id string) (*Alert, error) {
	var a Alert
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/alerts/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Summary retrieves alert counts
func (s *AlertService) Summary(ctx context.Context) (*AlertSummary, error) {
	var sum AlertSummary
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/alerts/summary", nil, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// MarkRead marks an alert as read
func (s *AlertService) MarkRead(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1/alerts/%s/read", url.PathEscape(id)), nil, nil)
}

// MarkAllRead marks every unread alert as read
func (s *AlertService) MarkAllRead(ctx context.Context) error {
	return s.client.doRequest(ctx, http.MethodPost, "/api/v1/alerts/read-all", nil, nil)
}

// Dismiss dismisses an alert
func (s *AlertService) Dismiss(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1/alerts/%s/dismiss", url.PathEscape(id)), nil, nil)
}

// Resolve resolves an alert with an optional resolution note
func (s *AlertService) Resolve(ctx context.Context, id, resolution string) error {
	body := map[string]string{}
	if resolution != "" {
		body["resolution"] = resolution
	}
	return s.client.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1/alerts/%s/resolve", url.PathEscape(id)), body, nil)
}

// Delete permanently removes an alert
func (s *AlertService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodDelete, "/api/v1/alerts/"+url.PathEscape(id), nil, nil)
}

// ClearAll removes every alert
func (s *AlertService) ClearAll(ctx context.Context) error {
	return s.client.doRequest(ctx, http.MethodDelete, "/api/v1/alerts", nil, nil)
}
