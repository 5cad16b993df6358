package client

import "time"

// Alert represents an alert returned by the API
type Alert struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Severity    string                 `json:"severity"`
	Status      string                 `json:"status"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	EntityID    string                 `json:"entityId,omitempty"`
	EntityName  string                 `json:"entityName,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	ReadAt      *time.Time             `json:"readAt,omitempty"`
	DismissedAt *time.Time             `json:"dismissedAt,omitempty"`
	ResolvedAt  *time.Time             `json:"resolvedAt,omitempty"`
}

// AlertSummary holds alert counts
type AlertSummary struct {
	Total          int            `json:"total"`
	Unread         int            `json:"unread"`
	CriticalUnread int            `json:"criticalUnread"`
	BySeverity     map[string]int `json:"bySeverity,omitempty"`
	ByType         map[string]int `json:"byType,omitempty"`
}

// Preferences holds notification preferences
type Preferences struct {
	EnableSound   bool     `json:"enableSound"`
	EnableDesktop bool     `json:"enableDesktop"`
	EnableEmail   bool     `json:"enableEmail"`
	EnableSMS     bool     `json:"enableSms"`
	MutedTypes    []string `json:"mutedTypes,omitempty"`
}

// ScanResult summarizes a completed portfolio scan
type ScanResult struct {
	Entities   int     `json:"entities"`
	Triggers   int     `json:"triggers"`
	Alerts     []Alert `json:"alerts"`
	DurationMS int64   `json:"durationMs"`
}

// ListOptions contains common pagination options
type ListOptions struct {
	Page     int
	PageSize int
}

// Pagination describes the page returned by a list call
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}
