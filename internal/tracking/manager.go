package tracking

import (
	"context"
	"sync"
	"time"
)

// SourceFactory produces the position source for one provider. The
// manager calls it lazily so each provider gets its own report feed.
type SourceFactory func(providerID string) PositionSource

// Manager holds the live sharing sessions, one per (provider, booking)
// pair. All methods are safe for concurrent use.
type Manager struct {
	store   LocationStore
	notify  NotificationSink
	sources SourceFactory
	opts    Options

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(store LocationStore, notify NotificationSink, sources SourceFactory, opts Options) *Manager {
	return &Manager{
		store:    store,
		notify:   notify,
		sources:  sources,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

func sessionKey(providerID, bookingID string) string {
	return providerID + "/" + bookingID
}

// StartSharing creates the session for the pair if needed and starts it.
// A second start on a live session returns ErrAlreadySharing.
func (m *Manager) StartSharing(ctx context.Context, providerID, bookingID string) error {
	s := m.session(providerID, bookingID, true)
	return s.Start(ctx)
}

// StopSharing stops and removes the pair's session. Stopping a pair that
// never started still deactivates the stored row.
func (m *Manager) StopSharing(ctx context.Context, providerID, bookingID string) error {
	key := sessionKey(providerID, bookingID)

	m.mu.Lock()
	s, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	if !ok {
		return m.store.Deactivate(ctx, providerID, bookingID)
	}
	return s.Stop(ctx)
}

// Report feeds a device fix into the provider's source. Fixes arriving
// for a pair with no session are dropped.
func (m *Manager) Report(providerID, bookingID string, pos Position) bool {
	s := m.session(providerID, bookingID, false)
	if s == nil {
		return false
	}
	if rs, ok := s.source.(*ReportSource); ok {
		rs.Report(pos)
		return true
	}
	return false
}

// Fail feeds a device-side geolocation failure into the provider's source.
func (m *Manager) Fail(providerID, bookingID string, err error) bool {
	s := m.session(providerID, bookingID, false)
	if s == nil {
		return false
	}
	if rs, ok := s.source.(*ReportSource); ok {
		rs.Fail(err)
		return true
	}
	return false
}

// ForceUpdate pushes one immediate fix for the pair without changing
// sharing state.
func (m *Manager) ForceUpdate(ctx context.Context, providerID, bookingID string) error {
	s := m.session(providerID, bookingID, true)
	return s.ForceUpdate(ctx)
}

// Status reports the pair's session state and last update time.
func (m *Manager) Status(providerID, bookingID string) (State, time.Time, bool) {
	s := m.session(providerID, bookingID, false)
	if s == nil {
		return StateIdle, time.Time{}, false
	}
	t, ok := s.LastUpdate()
	return s.State(), t, ok
}

func (m *Manager) session(providerID, bookingID string, create bool) *Session {
	key := sessionKey(providerID, bookingID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		return s
	}
	if !create {
		return nil
	}
	src := m.sources(providerID)
	s := NewSession(providerID, bookingID, src, m.store, m.notify, m.opts)
	m.sessions[key] = s
	return s
}
