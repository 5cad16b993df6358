package dto

import (
	"time"

	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
)

// AlertDTO represents an alert in API responses
// Uses camelCase for frontend compatibility
type AlertDTO struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Severity    string          `json:"severity"`
	Status      string          `json:"status"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	EntityID    string          `json:"entityId,omitempty"`
	EntityName  string          `json:"entityName,omitempty"`
	Metadata    *alert.Metadata `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	ReadAt      *time.Time      `json:"readAt,omitempty"`
	DismissedAt *time.Time      `json:"dismissedAt,omitempty"`
	ResolvedAt  *time.Time      `json:"resolvedAt,omitempty"`
}

// NewAlertDTO maps a domain alert to its API representation.
func NewAlertDTO(a *alert.Alert) AlertDTO {
	d := AlertDTO{
		ID:          a.ID,
		Type:        string(a.Type),
		Severity:    string(a.Severity),
		Status:      string(a.Status),
		Title:       a.Title,
		Message:     a.Message,
		EntityID:    a.EntityID,
		EntityName:  a.EntityName,
		CreatedAt:   a.CreatedAt,
		ReadAt:      a.ReadAt,
		DismissedAt: a.DismissedAt,
		ResolvedAt:  a.ResolvedAt,
	}
	if !a.Metadata.Empty() {
		m := a.Metadata
		d.Metadata = &m
	}
	return d
}

// ResolveAlertRequest carries an optional resolution note.
type ResolveAlertRequest struct {
	Resolution string `json:"resolution,omitempty" validate:"max=1024"`
}

// AlertSummaryDTO represents alert summary statistics
type AlertSummaryDTO struct {
	Total          int            `json:"total"`
	Unread         int            `json:"unread"`
	CriticalUnread int            `json:"criticalUnread"`
	BySeverity     map[string]int `json:"bySeverity,omitempty"`
	ByType         map[string]int `json:"byType,omitempty"`
}
