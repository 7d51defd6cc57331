// Package fusefs serves a host directory tree over FUSE, presenting zip
// archives inside the tree as directories that can be browsed in place.
//
// Archives open lazily: the first lookup below an archive opens a zipfs
// session, and every subsequent access refreshes that session's idle
// stamp. Navigating away from an archive offers its session for
// collection, and the stamp manager's sweeper closes archives that stay
// idle past the timeout. The mounted tree is read-only.
//
// The main entry point is New() which creates a filesystem instance that
// can be mounted using the bazil.org/fuse library.
package fusefs
