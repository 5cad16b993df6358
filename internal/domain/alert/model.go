package alert

import "time"

// Type identifies the rule family that produced an alert.
type Type string

const (
	TypeCreditLimit   Type = "credit_limit"
	TypeRatingChange  Type = "rating_change"
	TypeDelinquency   Type = "delinquency"
	TypeConcentration Type = "concentration"
	TypeCovenant      Type = "covenant"
	TypeAnomaly       Type = "anomaly"
)

// IsValid reports whether t is a known alert type.
func (t Type) IsValid() bool {
	switch t {
	case TypeCreditLimit, TypeRatingChange, TypeDelinquency, TypeConcentration, TypeCovenant, TypeAnomaly:
		return true
	default:
		return false
	}
}

// Severity orders alerts for display and notification eligibility.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the ordering weight of a severity, critical highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Status is an alert lifecycle state. Transitions only move forward:
// unread -> read -> dismissed or resolved. Dismissed and resolved are
// also reachable directly from unread.
type Status string

const (
	StatusUnread    Status = "unread"
	StatusRead      Status = "read"
	StatusDismissed Status = "dismissed"
	StatusResolved  Status = "resolved"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDismissed || s == StatusResolved
}

// Trigger is one detected rule breach emitted by an evaluation pass.
// Triggers are not persisted; they are the input to alert creation.
type Trigger struct {
	Type       Type     `json:"type"`
	Severity   Severity `json:"severity"`
	EntityID   string   `json:"entity_id"`
	EntityName string   `json:"entity_name"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Metadata   Metadata `json:"metadata"`
}

// Alert is a persistent alert record. It is owned by the store for its
// full lifecycle: created by Ingest, mutated only through lifecycle
// operations, removed only by Delete or ClearAll.
type Alert struct {
	ID          string     `json:"id"`
	Type        Type       `json:"type"`
	Severity    Severity   `json:"severity"`
	Status      Status     `json:"status"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	EntityID    string     `json:"entity_id,omitempty"`
	EntityName  string     `json:"entity_name,omitempty"`
	Metadata    Metadata   `json:"metadata"`
	CreatedAt   time.Time  `json:"created_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// Filter selects alerts by the AND of all populated predicates. Empty
// fields impose no constraint.
type Filter struct {
	Types      []Type
	Severities []Severity
	Statuses   []Status
	EntityID   string
	From       *time.Time
	To         *time.Time
}

// Matches reports whether a satisfies every populated predicate.
func (f Filter) Matches(a *Alert) bool {
	if len(f.Types) > 0 && !containsType(f.Types, a.Type) {
		return false
	}
	if len(f.Severities) > 0 && !containsSeverity(f.Severities, a.Severity) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, a.Status) {
		return false
	}
	if f.EntityID != "" && a.EntityID != f.EntityID {
		return false
	}
	if f.From != nil && a.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && a.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func containsType(ts []Type, t Type) bool {
	for _, v := range ts {
		if v == t {
			return true
		}
	}
	return false
}

func containsSeverity(ss []Severity, s Severity) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func containsStatus(ss []Status, s Status) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
