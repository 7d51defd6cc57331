package vfs

import (
	"context"
	"time"
)

// DefaultTimeout is the idle timeout applied to stamped sessions unless
// overridden with SetTimeout.
const DefaultTimeout = 60 * time.Second

// hintInterval is the coarse recheck cadence reported by NextCheckHint
// while anything is stamped.
const hintInterval = 10 * time.Second

// SetTimeout changes the idle timeout read by subsequent non-forced
// sweeps. Stamps already in the registry are judged against the new value.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

// Timeout returns the current idle timeout.
func (m *Manager) Timeout() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeout
}

// Sweep walks the registry and releases expired sessions. With force set,
// every session is released regardless of age; otherwise a session is
// released iff its stamp is at or past the cutoff (now minus the timeout).
// A sweep already in progress suppresses nested calls entirely, so a
// Release implementation that re-enters the event loop cannot trigger
// recursive collection.
func (m *Manager) Sweep(force bool) {
	m.mu.Lock()
	if m.sweeping {
		m.mu.Unlock()
		return
	}
	m.sweeping = true

	var cutoff time.Time
	if !force {
		cutoff = m.now().Add(-m.timeout)
	}

	var expired []stampKey
	for k, touched := range m.stamps {
		if force || !touched.After(cutoff) {
			expired = append(expired, k)
			delete(m.stamps, k)
		}
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.sweeping = false
		m.mu.Unlock()
	}()

	for _, k := range expired {
		k.backend.Release(k.session)
	}
}

// NextCheckHint tells the caller's timer how soon to check back: the coarse
// hint interval while anything is stamped, zero when the registry is empty.
// It is deliberately not the time remaining until the next expiry.
func (m *Manager) NextCheckHint() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stamps) > 0 {
		return hintInterval
	}
	return 0
}

// RunSweepLoop runs non-forced sweeps on a fixed cadence until ctx is
// cancelled. It blocks, so run it on its own goroutine. A non-positive
// interval falls back to the hint interval.
func RunSweepLoop(ctx context.Context, m *Manager, interval time.Duration) {
	if interval <= 0 {
		interval = hintInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(false)
		}
	}
}
