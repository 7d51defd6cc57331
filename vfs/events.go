package vfs

import "sync"

// EventVFSTimestamp is the veto-capable notification raised before an
// apparently idle session is stamped for collection.
const EventVFSTimestamp = "core/vfs-timestamp"

// StampEvent carries the session about to be stamped.
type StampEvent struct {
	Backend Backend
	Session Session
}

// VetoFunc is a listener for stamping notifications. Returning true vetoes
// the stamp, asserting the session is still needed.
type VetoFunc func(ev StampEvent) bool

// EventBus dispatches named, veto-capable notifications synchronously.
// Zero listeners is a valid, inert state; the Manager checks Present
// before doing any stamping work at all.
type EventBus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[string]map[int]VetoFunc
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[string]map[int]VetoFunc)}
}

// Subscribe registers fn for the named event and returns a function that
// removes the registration.
func (bus *EventBus) Subscribe(name string, fn VetoFunc) (cancel func()) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++

	group, ok := bus.listeners[name]
	if !ok {
		group = make(map[int]VetoFunc)
		bus.listeners[name] = group
	}
	group[id] = fn

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		delete(bus.listeners[name], id)
	}
}

// Present reports whether at least one listener is subscribed to the
// named event.
func (bus *EventBus) Present(name string) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.listeners[name]) > 0
}

// Raise synchronously notifies every listener of the named event and
// reports whether any listener vetoed. The first veto wins: remaining
// listeners are not called. Listener order is unspecified.
func (bus *EventBus) Raise(name string, ev StampEvent) (rejected bool) {
	bus.mu.RLock()
	fns := make([]VetoFunc, 0, len(bus.listeners[name]))
	for _, fn := range bus.listeners[name] {
		fns = append(fns, fn)
	}
	bus.mu.RUnlock()

	for _, fn := range fns {
		if fn(ev) {
			return true
		}
	}
	return false
}
