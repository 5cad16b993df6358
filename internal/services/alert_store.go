package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/domain/notification"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/errors"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/metrics"
)

// AlertStore implements alert.Store with an in-memory collection
// guarded by a single mutex. The workload is UI-driven and
// low-frequency, so coarse locking is adequate. In-memory state is
// authoritative for the running process; the repository is a
// best-effort durable mirror written on every mutation.
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]*alert.Alert
	prefs  notification.Preferences

	repo     alert.Repository
	prefRepo notification.Repository
	notifier alert.Notifier
	clock    alert.Clock
	ids      alert.IDGenerator
	logger   *logger.Logger
}

var _ alert.Store = (*AlertStore)(nil)

// NewAlertStore creates an alert store, loading the persisted alert
// collection and notification preferences. Load failures are reported
// and the store starts from the defaults: the running process never
// refuses to start over a stale mirror.
func NewAlertStore(
	repo alert.Repository,
	prefRepo notification.Repository,
	notifier alert.Notifier,
	clock alert.Clock,
	ids alert.IDGenerator,
	log *logger.Logger,
) *AlertStore {
	s := &AlertStore{
		alerts:   make(map[string]*alert.Alert),
		prefs:    notification.DefaultPreferences(),
		repo:     repo,
		prefRepo: prefRepo,
		notifier: notifier,
		clock:    clock,
		ids:      ids,
		logger:   log,
	}

	ctx := context.Background()
	if persisted, err := repo.LoadAll(ctx); err != nil {
		log.WarnWithErr(err, "Failed to load persisted alerts, starting empty")
	} else {
		for _, a := range persisted {
			s.alerts[a.ID] = a
		}
	}

	if prefs, err := prefRepo.Load(ctx); err != nil {
		log.WarnWithErr(err, "Failed to load notification preferences, using defaults")
	} else if prefs != nil {
		s.prefs = *prefs
	}

	return s
}

// Ingest converts triggers into unread alerts and dispatches
// notifications for unmuted types before returning. Notification and
// persistence failures are reported but never fail the ingestion; a
// duplicate id collision aborts the whole operation.
func (s *AlertStore) Ingest(ctx context.Context, triggers []alert.Trigger) ([]*alert.Alert, error) {
	if len(triggers) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	created := make([]*alert.Alert, 0, len(triggers))
	for i := range triggers {
		t := &triggers[i]
		id := s.ids.NewID()
		if _, exists := s.alerts[id]; exists {
			// Id collisions would corrupt the collection: undo this
			// pass and abort.
			for _, a := range created {
				delete(s.alerts, a.ID)
			}
			s.mu.Unlock()
			return nil, errors.Conflict(fmt.Sprintf("duplicate alert id %q on ingestion", id))
		}

		a := &alert.Alert{
			ID:         id,
			Type:       t.Type,
			Severity:   t.Severity,
			Status:     alert.StatusUnread,
			Title:      t.Title,
			Message:    t.Message,
			EntityID:   t.EntityID,
			EntityName: t.EntityName,
			Metadata:   t.Metadata,
			CreatedAt:  s.clock.Now(),
		}
		s.alerts[id] = a
		created = append(created, a)
	}
	prefs := s.prefs
	unread := s.unreadLocked()
	s.mu.Unlock()

	metrics.SetUnreadAlerts(unread)

	out := make([]*alert.Alert, len(created))
	for i, a := range created {
		copied := *a
		out[i] = &copied

		metrics.RecordAlertIngested(string(a.Type), string(a.Severity))
		s.persistWrite(s.repo.Insert(ctx, &copied))

		if prefs.IsMuted(string(a.Type)) {
			continue
		}
		if err := s.notifier.Notify(ctx, &copied, prefs); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"alert_id": a.ID,
				"type":     a.Type,
				"severity": a.Severity,
			}).WarnWithErr(err, "Notification dispatch failed")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"created": len(out),
	}).Info("Alerts ingested")

	return out, nil
}

// Get returns the alert and, as the read side effect of viewing it,
// transitions it out of unread.
func (s *AlertStore) Get(ctx context.Context, id string) (*alert.Alert, error) {
	s.mu.Lock()
	a, ok := s.alerts[id]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFound("alert")
	}

	changed := s.markReadLocked(a)
	copied := *a
	unread := s.unreadLocked()
	s.mu.Unlock()

	if changed {
		metrics.SetUnreadAlerts(unread)
		s.persistWrite(s.repo.Update(ctx, &copied))
	}
	return &copied, nil
}

// MarkAsRead stamps ReadAt on an unread alert; otherwise a no-op that
// leaves existing timestamps untouched.
func (s *AlertStore) MarkAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	a, ok := s.alerts[id]
	if !ok {
		s.mu.Unlock()
		return errors.NotFound("alert")
	}

	changed := s.markReadLocked(a)
	copied := *a
	unread := s.unreadLocked()
	s.mu.Unlock()

	if changed {
		metrics.SetUnreadAlerts(unread)
		s.persistWrite(s.repo.Update(ctx, &copied))
	}
	return nil
}

// MarkAllAsRead marks every unread alert as read.
func (s *AlertStore) MarkAllAsRead(ctx context.Context) error {
	s.mu.Lock()
	var changed []*alert.Alert
	for _, a := range s.alerts {
		if s.markReadLocked(a) {
			copied := *a
			changed = append(changed, &copied)
		}
	}
	s.mu.Unlock()

	metrics.SetUnreadAlerts(0)
	for _, a := range changed {
		s.persistWrite(s.repo.Update(ctx, a))
	}

	s.logger.WithFields(map[string]interface{}{
		"marked": len(changed),
	}).Info("All alerts marked as read")
	return nil
}

// Dismiss moves the alert into the dismissed terminal state. A no-op
// on alerts already dismissed or resolved: terminal states never
// change.
func (s *AlertStore) Dismiss(ctx context.Context, id string) error {
	return s.terminate(ctx, id, alert.StatusDismissed, "")
}

// Resolve moves the alert into the resolved terminal state, merging
// the optional resolution note into its metadata.
func (s *AlertStore) Resolve(ctx context.Context, id string, resolution string) error {
	return s.terminate(ctx, id, alert.StatusResolved, resolution)
}

func (s *AlertStore) terminate(ctx context.Context, id string, target alert.Status, resolution string) error {
	s.mu.Lock()
	a, ok := s.alerts[id]
	if !ok {
		s.mu.Unlock()
		return errors.NotFound("alert")
	}
	if a.Status.Terminal() {
		s.mu.Unlock()
		return nil
	}

	now := s.clock.Now()
	a.Status = target
	switch target {
	case alert.StatusDismissed:
		a.DismissedAt = &now
	case alert.StatusResolved:
		a.ResolvedAt = &now
		if resolution != "" {
			a.Metadata.Resolution = resolution
		}
	}

	copied := *a
	unread := s.unreadLocked()
	s.mu.Unlock()

	metrics.SetUnreadAlerts(unread)
	s.persistWrite(s.repo.Update(ctx, &copied))

	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
		"status":   target,
	}).Info("Alert closed")
	return nil
}

// Delete permanently removes the alert.
func (s *AlertStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.alerts[id]; !ok {
		s.mu.Unlock()
		return errors.NotFound("alert")
	}
	delete(s.alerts, id)
	unread := s.unreadLocked()
	s.mu.Unlock()

	metrics.SetUnreadAlerts(unread)
	s.persistWrite(s.repo.Delete(ctx, id))

	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
	}).Info("Alert deleted")
	return nil
}

// ClearAll empties the collection.
func (s *AlertStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	removed := len(s.alerts)
	s.alerts = make(map[string]*alert.Alert)
	s.mu.Unlock()

	metrics.SetUnreadAlerts(0)
	s.persistWrite(s.repo.DeleteAll(ctx))

	s.logger.WithFields(map[string]interface{}{
		"removed": removed,
	}).Info("Alert collection cleared")
	return nil
}

// Query returns matching alerts sorted by CreatedAt descending.
func (s *AlertStore) Query(ctx context.Context, f alert.Filter) ([]*alert.Alert, error) {
	s.mu.RLock()
	matched := make([]*alert.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if f.Matches(a) {
			copied := *a
			matched = append(matched, &copied)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched, nil
}

// UnreadCount returns the live number of unread alerts.
func (s *AlertStore) UnreadCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadLocked()
}

// CriticalUnreadCount returns the live number of unread critical alerts.
func (s *AlertStore) CriticalUnreadCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.alerts {
		if a.Status == alert.StatusUnread && a.Severity == alert.SeverityCritical {
			count++
		}
	}
	return count
}

// Preferences returns a copy of the current notification preferences.
func (s *AlertStore) Preferences(ctx context.Context) notification.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs := s.prefs
	prefs.MutedTypes = append([]string(nil), s.prefs.MutedTypes...)
	return prefs
}

// UpdatePreferences replaces the preferences and persists them.
func (s *AlertStore) UpdatePreferences(ctx context.Context, prefs notification.Preferences) error {
	s.mu.Lock()
	s.prefs = prefs
	copied := prefs
	s.mu.Unlock()

	s.persistWrite(s.prefRepo.Save(ctx, &copied))

	s.logger.WithFields(map[string]interface{}{
		"sound":       prefs.EnableSound,
		"desktop":     prefs.EnableDesktop,
		"email":       prefs.EnableEmail,
		"sms":         prefs.EnableSMS,
		"muted_types": prefs.MutedTypes,
	}).Info("Notification preferences updated")
	return nil
}

// markReadLocked transitions unread to read. Callers hold the write
// lock.
func (s *AlertStore) markReadLocked(a *alert.Alert) bool {
	if a.Status != alert.StatusUnread {
		return false
	}
	now := s.clock.Now()
	a.Status = alert.StatusRead
	a.ReadAt = &now
	return true
}

func (s *AlertStore) unreadLocked() int {
	count := 0
	for _, a := range s.alerts {
		if a.Status == alert.StatusUnread {
			count++
		}
	}
	return count
}

// persistWrite reports a failed best-effort repository write. The
// in-memory mutation already succeeded and remains authoritative.
func (s *AlertStore) persistWrite(err error) {
	if err == nil {
		return
	}
	metrics.RecordPersistenceFailure()
	s.logger.WarnWithErr(err, "Best-effort persistence write failed")
}
