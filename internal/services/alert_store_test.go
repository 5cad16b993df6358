package services

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/domain/notification"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/errors"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/testutil"
)

func newTestStore(t *testing.T) (*AlertStore, *testutil.MockAlertRepository, *testutil.MockNotifier) {
	t.Helper()
	repo := testutil.NewMockAlertRepository()
	prefRepo := &testutil.MockPreferenceRepository{}
	notifier := &testutil.MockNotifier{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	store := NewAlertStore(repo, prefRepo, notifier, testutil.NewFixedClock(), &testutil.SequenceIDs{}, log)
	return store, repo, notifier
}

func sampleTriggers(n int) []alert.Trigger {
	triggers := make([]alert.Trigger, 0, n)
	severities := []alert.Severity{
		alert.SeverityCritical, alert.SeverityHigh, alert.SeverityMedium, alert.SeverityLow,
	}
	for i := 0; i < n; i++ {
		triggers = append(triggers, alert.Trigger{
			Type:       alert.TypeCreditLimit,
			Severity:   severities[i%len(severities)],
			EntityID:   "acme",
			EntityName: "Acme Corp",
			Title:      "Credit limit utilization breach",
			Message:    "Acme Corp is over its limit",
		})
	}
	return triggers
}

func TestAlertStore_Ingest(t *testing.T) {
	store, repo, notifier := newTestStore(t)
	ctx := context.Background()

	created, err := store.Ingest(ctx, sampleTriggers(3))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created %d alerts, want 3", len(created))
	}

	for _, a := range created {
		if a.Status != alert.StatusUnread {
			t.Errorf("status = %s, want unread", a.Status)
		}
		if a.ID == "" {
			t.Error("alert has empty id")
		}
		if a.CreatedAt.IsZero() {
			t.Error("alert has zero CreatedAt")
		}
	}

	if got := store.UnreadCount(ctx); got != 3 {
		t.Errorf("UnreadCount() = %d, want 3", got)
	}
	if repo.Inserts != 3 {
		t.Errorf("repository inserts = %d, want 3", repo.Inserts)
	}
	if notifier.Count() != 3 {
		t.Errorf("notifications = %d, want 3", notifier.Count())
	}
}

func TestAlertStore_IngestEmpty(t *testing.T) {
	store, _, notifier := newTestStore(t)

	created, err := store.Ingest(context.Background(), nil)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(created) != 0 {
		t.Errorf("created %d alerts, want 0", len(created))
	}
	if notifier.Count() != 0 {
		t.Errorf("notifications = %d, want 0", notifier.Count())
	}
}

func TestAlertStore_IngestNoDeduplication(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	// The same breach observed on two passes yields two alerts.
	if _, err := store.Ingest(ctx, sampleTriggers(1)); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if _, err := store.Ingest(ctx, sampleTriggers(1)); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	all, _ := store.Query(ctx, alert.Filter{})
	if len(all) != 2 {
		t.Errorf("stored %d alerts, want 2", len(all))
	}
}

func TestAlertStore_IngestDuplicateIDAborts(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	prefRepo := &testutil.MockPreferenceRepository{}
	notifier := &testutil.MockNotifier{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	ids := &testutil.SequenceIDs{Repeat: "fixed-id"}
	store := NewAlertStore(repo, prefRepo, notifier, testutil.NewFixedClock(), ids, log)
	ctx := context.Background()

	if _, err := store.Ingest(ctx, sampleTriggers(1)); err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	_, err := store.Ingest(ctx, sampleTriggers(2))
	if err == nil {
		t.Fatal("expected conflict error on duplicate id")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeConflict {
		t.Errorf("error = %v, want conflict", err)
	}

	// The failed pass must leave the collection as it was.
	all, _ := store.Query(ctx, alert.Filter{})
	if len(all) != 1 {
		t.Errorf("stored %d alerts after failed pass, want 1", len(all))
	}
}

func TestAlertStore_GetMarksRead(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := store.Ingest(ctx, sampleTriggers(1))
	id := created[0].ID

	a, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if a.Status != alert.StatusRead {
		t.Errorf("status after Get = %s, want read", a.Status)
	}
	if a.ReadAt == nil {
		t.Fatal("ReadAt not stamped")
	}
	if got := store.UnreadCount(ctx); got != 0 {
		t.Errorf("UnreadCount() = %d, want 0", got)
	}
}

func TestAlertStore_GetNotFound(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestAlertStore_MarkAsReadIdempotent(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := store.Ingest(ctx, sampleTriggers(1))
	id := created[0].ID

	if err := store.MarkAsRead(ctx, id); err != nil {
		t.Fatalf("first MarkAsRead: %v", err)
	}
	first, _ := store.Get(ctx, id)

	if err := store.MarkAsRead(ctx, id); err != nil {
		t.Fatalf("second MarkAsRead: %v", err)
	}
	second, _ := store.Get(ctx, id)

	if !first.ReadAt.Equal(*second.ReadAt) {
		t.Errorf("ReadAt changed on repeat: %v then %v", first.ReadAt, second.ReadAt)
	}
}

func TestAlertStore_MarkAllAsRead(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	store.Ingest(ctx, sampleTriggers(5))

	if err := store.MarkAllAsRead(ctx); err != nil {
		t.Fatalf("MarkAllAsRead() error = %v", err)
	}
	if got := store.UnreadCount(ctx); got != 0 {
		t.Errorf("UnreadCount() = %d, want 0", got)
	}

	all, _ := store.Query(ctx, alert.Filter{})
	for _, a := range all {
		if a.Status != alert.StatusRead {
			t.Errorf("alert %s status = %s, want read", a.ID, a.Status)
		}
	}
}

func TestAlertStore_LifecycleForwardOnly(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := store.Ingest(ctx, sampleTriggers(1))
	id := created[0].ID

	if err := store.Dismiss(ctx, id); err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}
	dismissed, _ := store.Get(ctx, id)
	if dismissed.Status != alert.StatusDismissed {
		t.Fatalf("status = %s, want dismissed", dismissed.Status)
	}
	if dismissed.DismissedAt == nil {
		t.Fatal("DismissedAt not stamped")
	}

	// Terminal states never change: a later resolve is a no-op.
	if err := store.Resolve(ctx, id, "it cleared"); err != nil {
		t.Fatalf("Resolve() on dismissed alert: %v", err)
	}
	after, _ := store.Get(ctx, id)
	if after.Status != alert.StatusDismissed {
		t.Errorf("status = %s, want dismissed preserved", after.Status)
	}
	if after.ResolvedAt != nil {
		t.Error("ResolvedAt stamped on dismissed alert")
	}
	if !after.DismissedAt.Equal(*dismissed.DismissedAt) {
		t.Error("DismissedAt changed by repeated terminal call")
	}
}

func TestAlertStore_DismissReachableFromUnread(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := store.Ingest(ctx, sampleTriggers(1))
	id := created[0].ID

	if err := store.Dismiss(ctx, id); err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}
	a, _ := store.Get(ctx, id)
	if a.Status != alert.StatusDismissed {
		t.Errorf("status = %s, want dismissed", a.Status)
	}
	// Never read, so no ReadAt.
	if a.ReadAt != nil {
		t.Error("ReadAt stamped on dismiss from unread")
	}
}

func TestAlertStore_ResolveMergesResolution(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := store.Ingest(ctx, sampleTriggers(1))
	id := created[0].ID

	if err := store.Resolve(ctx, id, "limit increase approved"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	a, _ := store.Get(ctx, id)
	if a.Status != alert.StatusResolved {
		t.Errorf("status = %s, want resolved", a.Status)
	}
	if a.ResolvedAt == nil {
		t.Error("ResolvedAt not stamped")
	}
	if a.Metadata.Resolution != "limit increase approved" {
		t.Errorf("resolution = %q, want merged note", a.Metadata.Resolution)
	}
}

func TestAlertStore_DismissUnknownID(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	store.Ingest(ctx, sampleTriggers(2))

	err := store.Dismiss(ctx, "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}

	// A failed lookup must not disturb the collection.
	all, _ := store.Query(ctx, alert.Filter{})
	if len(all) != 2 {
		t.Errorf("stored %d alerts, want 2", len(all))
	}
}

func TestAlertStore_Delete(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := store.Ingest(ctx, sampleTriggers(2))

	if err := store.Delete(ctx, created[0].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, created[0].ID); !errors.IsNotFound(err) {
		t.Errorf("deleted alert still retrievable: %v", err)
	}

	if err := store.Delete(ctx, created[0].ID); !errors.IsNotFound(err) {
		t.Errorf("second delete error = %v, want not found", err)
	}
}

func TestAlertStore_ClearAll(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	store.Ingest(ctx, sampleTriggers(4))

	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	all, _ := store.Query(ctx, alert.Filter{})
	if len(all) != 0 {
		t.Errorf("stored %d alerts after clear, want 0", len(all))
	}
	if got := store.UnreadCount(ctx); got != 0 {
		t.Errorf("UnreadCount() = %d, want 0", got)
	}
}

func TestAlertStore_QuerySortedNewestFirst(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	// The fixed clock advances per alert, so ingestion order is
	// creation order.
	store.Ingest(ctx, sampleTriggers(5))

	all, err := store.Query(ctx, alert.Filter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("alerts out of order at %d: %v before %v", i, all[i-1].CreatedAt, all[i].CreatedAt)
		}
	}
}

func TestAlertStore_QueryFilters(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	store.Ingest(ctx, []alert.Trigger{
		{Type: alert.TypeCreditLimit, Severity: alert.SeverityCritical, EntityID: "acme", Title: "t1"},
		{Type: alert.TypeDelinquency, Severity: alert.SeverityHigh, EntityID: "acme", Title: "t2"},
		{Type: alert.TypeConcentration, Severity: alert.SeverityCritical, EntityID: "globex", Title: "t3"},
	})

	tests := []struct {
		name   string
		filter alert.Filter
		want   int
	}{
		{"empty filter matches all", alert.Filter{}, 3},
		{"by type", alert.Filter{Types: []alert.Type{alert.TypeCreditLimit}}, 1},
		{"by severity", alert.Filter{Severities: []alert.Severity{alert.SeverityCritical}}, 2},
		{"by entity", alert.Filter{EntityID: "acme"}, 2},
		{"predicates AND together", alert.Filter{
			Severities: []alert.Severity{alert.SeverityCritical},
			EntityID:   "acme",
		}, 1},
		{"by status", alert.Filter{Statuses: []alert.Status{alert.StatusUnread}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("matched %d alerts, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAlertStore_QueryReturnsCopies(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	store.Ingest(ctx, sampleTriggers(1))

	all, _ := store.Query(ctx, alert.Filter{})
	all[0].Status = alert.StatusResolved
	all[0].Title = "mutated"

	fresh, _ := store.Query(ctx, alert.Filter{})
	if fresh[0].Status != alert.StatusUnread {
		t.Error("caller mutation leaked into store state")
	}
	if fresh[0].Title == "mutated" {
		t.Error("caller mutation leaked into store state")
	}
}

func TestAlertStore_CriticalUnreadCount(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := store.Ingest(ctx, sampleTriggers(4)) // one critical in the cycle

	if got := store.CriticalUnreadCount(ctx); got != 1 {
		t.Errorf("CriticalUnreadCount() = %d, want 1", got)
	}

	// Reading the critical alert drops it from the count.
	for _, a := range created {
		if a.Severity == alert.SeverityCritical {
			store.MarkAsRead(ctx, a.ID)
		}
	}
	if got := store.CriticalUnreadCount(ctx); got != 0 {
		t.Errorf("CriticalUnreadCount() after read = %d, want 0", got)
	}
}

func TestAlertStore_MutedTypesSkipNotification(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	prefRepo := &testutil.MockPreferenceRepository{
		Prefs: &notification.Preferences{
			EnableDesktop: true,
			MutedTypes:    []string{"credit_limit"},
		},
	}
	notifier := &testutil.MockNotifier{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	store := NewAlertStore(repo, prefRepo, notifier, testutil.NewFixedClock(), &testutil.SequenceIDs{}, log)
	ctx := context.Background()

	created, err := store.Ingest(ctx, []alert.Trigger{
		{Type: alert.TypeCreditLimit, Severity: alert.SeverityCritical, Title: "muted"},
		{Type: alert.TypeDelinquency, Severity: alert.SeverityHigh, Title: "delivered"},
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d alerts, want 2", len(created))
	}

	if notifier.Count() != 1 {
		t.Fatalf("notifications = %d, want 1", notifier.Count())
	}
	if notifier.Notified[0].Type != alert.TypeDelinquency {
		t.Errorf("notified type = %s, want delinquency", notifier.Notified[0].Type)
	}
}

func TestAlertStore_NotifierFailureDoesNotFailIngest(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	prefRepo := &testutil.MockPreferenceRepository{}
	notifier := &testutil.MockNotifier{Err: context.DeadlineExceeded}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	store := NewAlertStore(repo, prefRepo, notifier, testutil.NewFixedClock(), &testutil.SequenceIDs{}, log)

	created, err := store.Ingest(context.Background(), sampleTriggers(2))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(created) != 2 {
		t.Errorf("created %d alerts, want 2", len(created))
	}
}

func TestAlertStore_PersistenceFailureDoesNotFailMutation(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	repo.InsertError = context.DeadlineExceeded
	prefRepo := &testutil.MockPreferenceRepository{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	store := NewAlertStore(repo, prefRepo, &testutil.MockNotifier{}, testutil.NewFixedClock(), &testutil.SequenceIDs{}, log)
	ctx := context.Background()

	created, err := store.Ingest(ctx, sampleTriggers(1))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d alerts, want 1", len(created))
	}

	// The in-memory collection is authoritative despite the failed
	// repository write.
	if _, err := store.Get(ctx, created[0].ID); err != nil {
		t.Errorf("alert missing after persistence failure: %v", err)
	}
}

func TestAlertStore_Preferences(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	defaults := store.Preferences(ctx)
	if !defaults.EnableSound || !defaults.EnableDesktop {
		t.Error("defaults should enable sound and desktop")
	}
	if defaults.EnableEmail || defaults.EnableSMS {
		t.Error("defaults should disable email and SMS")
	}

	updated := notification.Preferences{
		EnableDesktop: true,
		MutedTypes:    []string{"concentration"},
	}
	if err := store.UpdatePreferences(ctx, updated); err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}

	got := store.Preferences(ctx)
	if got.EnableSound {
		t.Error("EnableSound should be off after update")
	}
	if len(got.MutedTypes) != 1 || got.MutedTypes[0] != "concentration" {
		t.Errorf("MutedTypes = %v, want [concentration]", got.MutedTypes)
	}

	// Returned preferences are copies.
	got.MutedTypes[0] = "mutated"
	if store.Preferences(ctx).MutedTypes[0] != "concentration" {
		t.Error("caller mutation leaked into stored preferences")
	}
}

func TestAlertStore_LoadsPersistedState(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	repo.Alerts["persisted-1"] = &alert.Alert{
		ID:       "persisted-1",
		Type:     alert.TypeDelinquency,
		Severity: alert.SeverityHigh,
		Status:   alert.StatusUnread,
		Title:    "carried over",
	}
	prefRepo := &testutil.MockPreferenceRepository{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	store := NewAlertStore(repo, prefRepo, &testutil.MockNotifier{}, testutil.NewFixedClock(), &testutil.SequenceIDs{}, log)

	a, err := store.Get(context.Background(), "persisted-1")
	if err != nil {
		t.Fatalf("persisted alert not loaded: %v", err)
	}
	if a.Title != "carried over" {
		t.Errorf("title = %q", a.Title)
	}
}
