package zipfs

import (
	"path/filepath"
	"strings"

	"github.com/indigos33k3r/vfskeep/vfs"
)

// Resolver maps host paths to (backend, session) pairs, treating any path
// component ending in ".zip" as an archive mount point. Paths at or below
// an archive resolve to that archive's zipfs session; everything else
// resolves to the local backend with a nil session.
type Resolver struct {
	Local vfs.Backend
	Zip   *FS
}

// Resolve implements vfs.Resolver. Resolving a path below an archive opens
// the archive session on demand.
func (r *Resolver) Resolve(p string) (vfs.Backend, vfs.Session, error) {
	archive, _, ok := SplitArchivePath(p)
	if !ok {
		return r.Local, nil, nil
	}
	a, err := r.Zip.Open(archive)
	if err != nil {
		return nil, nil, err
	}
	return r.Zip, a, nil
}

// SplitArchivePath splits p at the first component ending in ".zip". It
// returns the host path of the archive and the member path inside it; ok
// is false when no component looks like an archive.
func SplitArchivePath(p string) (archive, member string, ok bool) {
	sep := string(filepath.Separator)
	parts := strings.Split(filepath.Clean(p), sep)
	for i, part := range parts {
		if part != "" && strings.HasSuffix(part, ".zip") {
			archive = strings.Join(parts[:i+1], sep)
			member = strings.Join(parts[i+1:], "/")
			return archive, member, true
		}
	}
	return "", "", false
}
