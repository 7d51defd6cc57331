// Package zipfs provides a non-local vfs backend serving zip archives.
//
// Each open archive is one session: a shared *Archive holding the zip
// reader and a count of open member handles. Sessions are opened lazily
// through FS.Open (repeated opens of the same archive share a session) and
// torn down by FS.Release, which the stamping machinery calls once an
// archive has sat idle past the timeout.
//
// Archives are read-only. The open-handle count backs the
// vfs.HandleCounter predicate, so an archive with a member open for
// reading is never stamped for collection.
package zipfs
