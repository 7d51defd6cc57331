// Package vfs implements idle-session reaping for virtual filesystem backends.
//
// Expensive filesystem sessions (an open archive, a network mount) should be
// torn down once nothing references them, but exact reference counting is
// intrusive. This package trades it for a cheap heuristic based on "stamps":
// a session that looks idle is stamped with a timestamp, the stamp is
// refreshed whenever the session is used, and a periodic sweep releases any
// session whose stamp has aged past a configurable timeout.
//
// The rules of thumb for a backend integrating with the stamping machinery:
//
//   - When the last open handle in a session closes, conditionally stamp the
//     session with Manager.CreateStamp. "Conditionally" means the stamp is
//     only created when the session really is idle: no veto from a
//     subscribed listener and no open handles reported by the backend.
//   - When a session is used again, drop its stamp with Manager.Remove.
//   - When a path inside a session is touched, refresh the stamp with
//     Manager.StampPath to postpone collection.
//
// Additionally, when the surrounding application changes its working
// directory, the previous directory's session should be offered for
// collection with Manager.ReleasePath.
//
// Key Components:
//
//   - Backend: the capability set each filesystem backend exposes (locality,
//     release, optional open-handle reporting)
//   - Manager: the stamp registry, expiry sweeper, and stamping policy
//   - EventBus: veto-capable notifications that let listeners block
//     collection of sessions they still display
//   - RunSweepLoop: a ticker-driven loop driving periodic sweeps
//
// The whole subsystem is opt-in: with no listener subscribed to
// EventVFSTimestamp, CreateStamp is inert and nothing is ever stamped.
package vfs
