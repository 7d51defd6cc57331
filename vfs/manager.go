package vfs

import (
	"sync"
	"time"
)

// stampKey identifies a stamped session by (backend, session) identity.
// Session contents are never inspected.
type stampKey struct {
	backend Backend
	session Session
}

// Manager owns the stamp registry, the expiry sweeper, and the stamping
// policy. All public operations are safe for concurrent use; Release calls
// into backends happen outside the internal lock so slow teardown (closing
// a network socket, flushing an archive) never blocks other operations.
type Manager struct {
	// Resolver maps paths to (backend, session) pairs for StampPath and
	// ReleasePath. May be nil when only the direct-handle API is used;
	// the path operations then do nothing.
	Resolver Resolver

	// Current reports the process's current working (backend, session).
	// The current location's stamp is always removed before any stamping
	// decision, since a session in use must never be collected. May be
	// nil when the host has no notion of a current location.
	Current func() (Backend, Session)

	// Events carries the veto negotiation for CreateStamp. With no
	// listener subscribed to EventVFSTimestamp the stamping subsystem is
	// inert.
	Events *EventBus

	mu       sync.Mutex
	stamps   map[stampKey]time.Time
	sweeping bool
	timeout  time.Duration
	now      func() time.Time

	// createMu serializes CreateStamp calls so two rapid navigations
	// cannot interleave their remove/negotiate/stamp sequences.
	createMu sync.Mutex
}

// NewManager returns a Manager with an empty registry, a fresh event bus,
// and the default idle timeout.
func NewManager() *Manager {
	return &Manager{
		Events:  NewEventBus(),
		stamps:  make(map[stampKey]time.Time),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
}

// Touch refreshes the stamp for (b, s) to the current time and reports
// whether a stamp exists. It never creates a stamp, which makes it double
// as the existence probe used by the conditional-create path.
func (m *Manager) Touch(b Backend, s Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touchLocked(b, s)
}

func (m *Manager) touchLocked(b Backend, s Session) bool {
	k := stampKey{backend: b, session: s}
	if _, ok := m.stamps[k]; !ok {
		return false
	}
	m.stamps[k] = m.now()
	return true
}

// Remove deletes the stamp for (b, s) if one exists. The session is not
// released; callers remove a stamp when the session is back in use, which
// is exactly when releasing it would be wrong.
func (m *Manager) Remove(b Backend, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stamps, stampKey{backend: b, session: s})
}

// addStamp inserts a stamp for (b, s) with the current time unless the
// backend is local, the session is nil, or a stamp already exists. An
// existing stamp is refreshed instead, so calling this twice leaves
// exactly one record.
func (m *Manager) addStamp(b Backend, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b == nil || b.IsLocal() || s == nil {
		return
	}
	if m.touchLocked(b, s) {
		return
	}
	m.stamps[stampKey{backend: b, session: s}] = m.now()
}

// Len reports how many sessions are currently stamped.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stamps)
}

// CreateStamp offers the session (b, s) for later collection, typically
// because the application just left it. The current location's stamp is
// dropped unconditionally first. The offered session is stamped only when
// it differs from the current location, no listener vetoes, and the
// backend reports no open handles. With no listener subscribed the whole
// operation is inert.
func (m *Manager) CreateStamp(b Backend, s Session) {
	if !m.Events.Present(EventVFSTimestamp) {
		return
	}

	m.createMu.Lock()
	defer m.createMu.Unlock()

	cb, cs := m.currentLocation()
	m.Remove(cb, cs)

	if s == nil || (b == cb && s == cs) {
		return
	}

	if m.Events.Raise(EventVFSTimestamp, StampEvent{Backend: b, Session: s}) {
		return
	}
	if hc, ok := b.(HandleCounter); ok && !hc.HasOpenHandles(s) {
		m.addStamp(b, s)
	}
}

// StampPath refreshes the stamp for the session owning path's final
// segment. Unresolvable paths and unstamped sessions are silently ignored:
// a session in active use simply has no stamp to refresh.
func (m *Manager) StampPath(path string) {
	b, s, ok := m.resolve(path)
	if !ok {
		return
	}
	m.Touch(b, s)
}

// ReleasePath offers the session owning path's final segment for
// collection, as when leaving a location without navigating anywhere in
// particular.
func (m *Manager) ReleasePath(path string) {
	b, s, ok := m.resolve(path)
	if !ok {
		return
	}
	m.CreateStamp(b, s)
}

// Shutdown releases every stamped session and empties the registry. Called
// once at process teardown; individual release failures are invisible here
// and do not stop the remaining records from being torn down.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	records := make([]stampKey, 0, len(m.stamps))
	for k := range m.stamps {
		records = append(records, k)
	}
	m.stamps = make(map[stampKey]time.Time)
	m.mu.Unlock()

	for _, k := range records {
		k.backend.Release(k.session)
	}
}

func (m *Manager) currentLocation() (Backend, Session) {
	if m.Current == nil {
		return nil, nil
	}
	return m.Current()
}

func (m *Manager) resolve(path string) (Backend, Session, bool) {
	if m.Resolver == nil {
		return nil, nil, false
	}
	b, s, err := m.Resolver.Resolve(path)
	if err != nil {
		return nil, nil, false
	}
	return b, s, true
}
