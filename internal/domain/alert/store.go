package alert

import (
	"context"
	"time"

	"github.com/pratik-mahalle/creditwatch/internal/domain/notification"
)

// Store owns the canonical alert collection and its lifecycle. All
// lifecycle transitions are idempotent and forward-only; no operation
// returns an alert to unread.
type Store interface {
	// Ingest converts triggers into new unread alerts, dispatches
	// notifications for unmuted types, and returns the created alerts.
	// No deduplication is performed across passes: each scan is a new
	// observation.
	Ingest(ctx context.Context, triggers []Trigger) ([]*Alert, error)

	// Get returns an alert by id and, as a side effect of viewing it,
	// transitions unread alerts to read.
	Get(ctx context.Context, id string) (*Alert, error)

	// MarkAsRead stamps ReadAt on an unread alert. A no-op on alerts
	// already read, dismissed, or resolved.
	MarkAsRead(ctx context.Context, id string) error

	// MarkAllAsRead marks every unread alert as read.
	MarkAllAsRead(ctx context.Context) error

	// Dismiss moves an alert into the dismissed terminal state.
	// Reachable directly from unread.
	Dismiss(ctx context.Context, id string) error

	// Resolve moves an alert into the resolved terminal state,
	// merging an optional resolution note into its metadata.
	Resolve(ctx context.Context, id string, resolution string) error

	// Delete permanently removes an alert. Irreversible.
	Delete(ctx context.Context, id string) error

	// ClearAll empties the collection.
	ClearAll(ctx context.Context) error

	// Query returns alerts matching the AND of all populated filter
	// predicates, sorted by CreatedAt descending. The ordering is a
	// contract: consumers rely on newest-first.
	Query(ctx context.Context, f Filter) ([]*Alert, error)

	// UnreadCount and CriticalUnreadCount reflect live state.
	UnreadCount(ctx context.Context) int
	CriticalUnreadCount(ctx context.Context) int

	// Preferences returns the current notification preferences.
	Preferences(ctx context.Context) notification.Preferences

	// UpdatePreferences replaces the notification preferences and
	// persists them.
	UpdatePreferences(ctx context.Context, prefs notification.Preferences) error
}

// Repository is the durable backing for the alert collection. The
// in-memory store is authoritative for the running process; repository
// writes are best-effort and a write failure never rolls back a
// completed in-memory mutation.
type Repository interface {
	Insert(ctx context.Context, a *Alert) error
	Update(ctx context.Context, a *Alert) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	LoadAll(ctx context.Context) ([]*Alert, error)
}

// Clock supplies the current time. Injected so tests control
// timestamps deterministically.
type Clock interface {
	Now() time.Time
}

// IDGenerator mints unique alert ids.
type IDGenerator interface {
	NewID() string
}
