package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/domain/notification"
	"github.com/pratik-mahalle/creditwatch/internal/domain/portfolio"
)

// MockAlertRepository is a mock implementation of alert.Repository
type MockAlertRepository struct {
	mu          sync.Mutex
	Alerts      map[string]*alert.Alert
	Inserts     int
	Updates     int
	Deletes     int
	InsertError error
	UpdateError error
	DeleteError error
	LoadError   error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{
		Alerts: make(map[string]*alert.Alert),
	}
}

func (m *MockAlertRepository) Insert(ctx context.Context, a *alert.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	cp := *a
	m.Alerts[a.ID] = &cp
	m.Inserts++
	return nil
}

func (m *MockAlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Alerts[a.ID]; !ok {
		return fmt.Errorf("alert not found")
	}
	cp := *a
	m.Alerts[a.ID] = &cp
	m.Updates++
	return nil
}

func (m *MockAlertRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Alerts, id)
	m.Deletes++
	return nil
}

func (m *MockAlertRepository) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.Alerts = make(map[string]*alert.Alert)
	return nil
}

func (m *MockAlertRepository) LoadAll(ctx context.Context) ([]*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	out := make([]*alert.Alert, 0, len(m.Alerts))
	for _, a := range m.Alerts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// MockPreferenceRepository is a mock implementation of notification.Repository
type MockPreferenceRepository struct {
	Prefs     *notification.Preferences
	Saves     int
	LoadError error
	SaveError error
}

func (m *MockPreferenceRepository) Load(ctx context.Context) (*notification.Preferences, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return m.Prefs, nil
}

func (m *MockPreferenceRepository) Save(ctx context.Context, p *notification.Preferences) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	cp := *p
	m.Prefs = &cp
	m.Saves++
	return nil
}

// MockNotifier records dispatched alerts
type MockNotifier struct {
	mu       sync.Mutex
	Notified []*alert.Alert
	Err      error
}

func (m *MockNotifier) Notify(ctx context.Context, a *alert.Alert, prefs notification.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Notified = append(m.Notified, a)
	return nil
}

// Count returns the number of dispatched notifications.
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notified)
}

// MockSource serves a fixed portfolio snapshot
type MockSource struct {
	Snap *portfolio.Snapshot
	Err  error
}

func (m *MockSource) Snapshot(ctx context.Context) (*portfolio.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snap, nil
}

// FixedClock returns a deterministic, strictly advancing time
type FixedClock struct {
	mu   sync.Mutex
	Time time.Time
	Step time.Duration
}

// NewFixedClock starts at a fixed instant, advancing one second per call.
func NewFixedClock() *FixedClock {
	return &FixedClock{
		Time: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Step: time.Second,
	}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Time
	c.Time = c.Time.Add(c.Step)
	return now
}

// SequenceIDs mints sequential ids. Set Repeat to force a collision.
type SequenceIDs struct {
	mu     sync.Mutex
	next   int
	Repeat string
}

func (g *SequenceIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Repeat != "" {
		return g.Repeat
	}
	g.next++
	return fmt.Sprintf("alert-%04d", g.next)
}
