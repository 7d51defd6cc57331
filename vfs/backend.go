package vfs

// Session is an opaque handle identifying one open connection or mount
// within a backend. The registry compares sessions with ==, so backends
// must hand out comparable values; pointers work well.
type Session any

// Backend is the capability set a filesystem backend exposes to the
// stamping machinery. The registry and sweeper call these methods without
// any knowledge of backend internals.
type Backend interface {
	// Name identifies the backend in logs and diagnostics.
	Name() string

	// IsLocal reports whether this backend's sessions are cheap enough to
	// keep open indefinitely. Local backends are never stamped.
	IsLocal() bool

	// Release tears down the session. The caller drops its record
	// regardless of whether the teardown succeeds, so backends handle
	// their own failures.
	Release(s Session)
}

// HandleCounter is optionally implemented by backends that can report
// whether a session still has open handles. CreateStamp only stamps
// sessions whose backend implements it and reports no open handles.
type HandleCounter interface {
	HasOpenHandles(s Session) bool
}

// Resolver maps a path to the (backend, session) pair owning its final
// path segment.
type Resolver interface {
	Resolve(path string) (Backend, Session, error)
}

// LocalFS is the passthrough backend for paths served directly from the
// host filesystem. It is local by definition, so its sessions are never
// stamped, and Release has nothing to tear down.
type LocalFS struct{}

// Name returns the backend name.
func (LocalFS) Name() string { return "localfs" }

// IsLocal reports true; host filesystem access needs no reaping.
func (LocalFS) IsLocal() bool { return true }

// Release is a no-op for local sessions.
func (LocalFS) Release(Session) {}
