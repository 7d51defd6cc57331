package zipfs

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/indigos33k3r/vfskeep/vfs"
)

// FS tracks open zip archive sessions. It implements vfs.Backend and
// vfs.HandleCounter.
type FS struct {
	mu       sync.Mutex
	sessions map[string]*Archive // keyed by cleaned archive path
}

// Archive is one open zip archive session.
type Archive struct {
	// ID uniquely identifies this session, across reopens of the same
	// archive path.
	ID uuid.UUID
	// Path is the cleaned host path of the archive file.
	Path string

	mu      sync.Mutex
	reader  *zip.ReadCloser
	handles int
	opened  time.Time
}

// Entry describes one archive member as seen by directory listings.
type Entry struct {
	Name    string
	Dir     bool
	Size    uint64
	ModTime time.Time
}

// New returns a backend with no open sessions.
func New() *FS {
	return &FS{sessions: make(map[string]*Archive)}
}

// Name returns the backend name.
func (z *FS) Name() string { return "zipfs" }

// IsLocal reports false; open archives are worth reaping.
func (z *FS) IsLocal() bool { return false }

// Open returns the session for the archive at archivePath, opening the
// archive on first use. Repeated opens of the same path share one session
// until it is released.
func (z *FS) Open(archivePath string) (*Archive, error) {
	archivePath = filepath.Clean(archivePath)

	z.mu.Lock()
	defer z.mu.Unlock()

	if a, ok := z.sessions[archivePath]; ok {
		return a, nil
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}

	a := &Archive{
		ID:     uuid.New(),
		Path:   archivePath,
		reader: zr,
		opened: time.Now(),
	}
	z.sessions[archivePath] = a
	return a, nil
}

// Release closes the archive session and forgets it. Sessions not owned by
// this backend are ignored.
func (z *FS) Release(s vfs.Session) {
	a, ok := s.(*Archive)
	if !ok {
		return
	}

	z.mu.Lock()
	if z.sessions[a.Path] == a {
		delete(z.sessions, a.Path)
	}
	z.mu.Unlock()

	if err := a.close(); err != nil && !errors.Is(err, ErrArchiveClosed) {
		log.Printf("zipfs: closing %s: %v", a.Path, err)
	}
}

// HasOpenHandles reports whether the session still has member handles
// open. Sessions not owned by this backend report false.
func (z *FS) HasOpenHandles(s vfs.Session) bool {
	a, ok := s.(*Archive)
	return ok && a.Handles() > 0
}

// SessionCount reports how many archives are currently open.
func (z *FS) SessionCount() int {
	z.mu.Lock()
	defer z.mu.Unlock()
	return len(z.sessions)
}

func (a *Archive) close() error {
	a.mu.Lock()
	zr := a.reader
	a.reader = nil
	a.mu.Unlock()

	if zr == nil {
		return ErrArchiveClosed
	}
	return zr.Close()
}

// Handles reports the number of member handles currently open.
func (a *Archive) Handles() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handles
}

// Entries lists the immediate children of dir inside the archive. The
// archive root is the empty string. Directories implied by deeper member
// paths are listed even when the archive has no explicit entry for them.
func (a *Archive) Entries(dir string) ([]Entry, error) {
	dir = normalizeMember(dir)
	prefix := dir
	if prefix != "" {
		prefix += "/"
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reader == nil {
		return nil, ErrArchiveClosed
	}

	seen := make(map[string]Entry)
	for _, f := range a.reader.File {
		name := normalizeMember(f.Name)
		if name == "" || name == dir || !strings.HasPrefix(name, prefix) {
			continue
		}
		child, _, nested := strings.Cut(strings.TrimPrefix(name, prefix), "/")
		if child == "" {
			continue
		}
		if nested || f.FileInfo().IsDir() {
			if _, ok := seen[child]; !ok {
				seen[child] = Entry{Name: child, Dir: true, ModTime: f.Modified}
			}
		} else {
			seen[child] = Entry{Name: child, Size: f.UncompressedSize64, ModTime: f.Modified}
		}
	}

	entries := make([]Entry, 0, len(seen))
	for _, e := range seen {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Stat returns the entry for the named member. Directories only implied by
// deeper member paths stat as directories.
func (a *Archive) Stat(name string) (Entry, error) {
	name = normalizeMember(name)
	if name == "" {
		return Entry{Name: "/", Dir: true}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reader == nil {
		return Entry{}, ErrArchiveClosed
	}

	implicitDir := false
	dirPrefix := name + "/"
	for _, f := range a.reader.File {
		n := normalizeMember(f.Name)
		if n == name {
			if f.FileInfo().IsDir() {
				return Entry{Name: path.Base(name), Dir: true, ModTime: f.Modified}, nil
			}
			return Entry{Name: path.Base(name), Size: f.UncompressedSize64, ModTime: f.Modified}, nil
		}
		if strings.HasPrefix(n, dirPrefix) {
			implicitDir = true
		}
	}
	if implicitDir {
		return Entry{Name: path.Base(name), Dir: true}, nil
	}
	return Entry{}, fmt.Errorf("%s: %w", name, ErrMemberNotFound)
}

// Open opens the named member for reading. The returned reader counts as
// an open handle on the session until it is closed.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	name = normalizeMember(name)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reader == nil {
		return nil, ErrArchiveClosed
	}

	var target *zip.File
	for _, f := range a.reader.File {
		if normalizeMember(f.Name) == name {
			target = f
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrMemberNotFound)
	}
	if target.FileInfo().IsDir() {
		return nil, fmt.Errorf("%s: %w", name, ErrMemberIsDir)
	}

	rc, err := target.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open member %s: %w", name, err)
	}
	a.handles++
	return &memberReader{rc: rc, archive: a}, nil
}

// ReadFile reads the whole named member. The handle is open only for the
// duration of the call.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	rc, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// memberReader decrements the session's handle count exactly once on Close.
type memberReader struct {
	rc      io.ReadCloser
	archive *Archive
	once    sync.Once
}

func (r *memberReader) Read(p []byte) (int, error) { return r.rc.Read(p) }

func (r *memberReader) Close() error {
	r.once.Do(func() {
		r.archive.mu.Lock()
		r.archive.handles--
		r.archive.mu.Unlock()
	})
	return r.rc.Close()
}

// normalizeMember cleans a member path to the slash-separated, unrooted
// form used throughout the archive index.
func normalizeMember(name string) string {
	name = path.Clean(strings.Trim(name, "/"))
	if name == "." {
		return ""
	}
	return name
}
