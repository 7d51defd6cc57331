package fusefs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/indigos33k3r/vfskeep/vfs"
	"github.com/indigos33k3r/vfskeep/zipfs"
)

// FS implements the vfskeep FUSE filesystem over a host directory.
type FS struct {
	BaseDir string       // Host directory exposed at the mountpoint
	Manager *vfs.Manager // Stamp manager reaping idle archive sessions
	Zip     *zipfs.FS    // Archive backend shared with the manager's resolver

	mu  sync.Mutex
	cwd string // Host path of the most recently entered directory
}

// New creates a filesystem instance serving root and wires itself in as
// the manager's current-location provider.
func New(root string, m *vfs.Manager, z *zipfs.FS) *FS {
	f := &FS{
		BaseDir: filepath.Clean(root),
		Manager: m,
		Zip:     z,
	}
	f.cwd = f.BaseDir
	m.Current = f.CurrentLocation
	return f
}

// Root returns the root directory node.
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f, path: f.BaseDir}, nil
}

// CurrentLocation resolves the most recently entered directory to its
// (backend, session) pair. The manager never stamps this session.
func (f *FS) CurrentLocation() (vfs.Backend, vfs.Session) {
	f.mu.Lock()
	cwd := f.cwd
	f.mu.Unlock()

	if f.Manager.Resolver == nil || cwd == "" {
		return nil, nil
	}
	b, s, err := f.Manager.Resolver.Resolve(cwd)
	if err != nil {
		return nil, nil
	}
	return b, s
}

// enterDir records path as the current location and offers the directory
// being left for collection.
func (f *FS) enterDir(path string) {
	f.mu.Lock()
	prev := f.cwd
	f.cwd = path
	f.mu.Unlock()

	if prev != "" && prev != path {
		f.Manager.ReleasePath(prev)
	}
}

// Dir implements both Node and Handle for directories, including archive
// roots and directories inside archives.
type Dir struct {
	fs   *FS
	path string
}

// Attr returns directory attributes.
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = inodeFor(d.path)
	a.Mode = os.ModeDir | 0o555
	a.Mtime = time.Now()
	return nil
}

// Lookup resolves file and directory names to nodes, crossing into zip
// archives transparently.
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	child := filepath.Join(d.path, name)
	d.fs.Manager.StampPath(child)

	if archive, member, ok := zipfs.SplitArchivePath(child); ok {
		a, err := d.fs.Zip.Open(archive)
		if err != nil {
			return nil, fuse.ENOENT
		}
		e, err := a.Stat(member)
		if err != nil {
			return nil, fuse.ENOENT
		}
		if e.Dir {
			return &Dir{fs: d.fs, path: child}, nil
		}
		return &File{fs: d.fs, path: child, size: e.Size, mtime: e.ModTime}, nil
	}

	info, err := os.Lstat(child)
	if err != nil {
		return nil, fuse.ENOENT
	}
	if info.IsDir() {
		return &Dir{fs: d.fs, path: child}, nil
	}
	return &File{
		fs:    d.fs,
		path:  child,
		size:  uint64(info.Size()),
		mtime: info.ModTime(),
	}, nil
}

// ReadDirAll lists the directory. Listing counts as entering it: the
// previously entered directory's session is offered for collection.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.enterDir(d.path)
	d.fs.Manager.StampPath(d.path)

	if archive, member, ok := zipfs.SplitArchivePath(d.path); ok {
		a, err := d.fs.Zip.Open(archive)
		if err != nil {
			return nil, fuse.ENOENT
		}
		entries, err := a.Entries(member)
		if err != nil {
			return nil, fuse.ENOENT
		}
		dirents := make([]fuse.Dirent, 0, len(entries))
		for _, e := range entries {
			dt := fuse.DT_File
			if e.Dir {
				dt = fuse.DT_Dir
			}
			dirents = append(dirents, fuse.Dirent{
				Inode: inodeFor(filepath.Join(d.path, e.Name)),
				Name:  e.Name,
				Type:  dt,
			})
		}
		return dirents, nil
	}

	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fuse.ENOENT
	}
	dirents := make([]fuse.Dirent, 0, len(entries))
	for _, e := range entries {
		dt := fuse.DT_File
		// Archives present as directories so they can be entered.
		if e.IsDir() || (e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".zip")) {
			dt = fuse.DT_Dir
		}
		dirents = append(dirents, fuse.Dirent{
			Inode: inodeFor(filepath.Join(d.path, e.Name())),
			Name:  e.Name(),
			Type:  dt,
		})
	}
	return dirents, nil
}

// File implements both Node and Handle for regular files, host or
// archive-backed.
type File struct {
	fs    *FS
	path  string
	size  uint64
	mtime time.Time
}

// Attr returns file attributes.
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = inodeFor(f.path)
	a.Mode = 0o444
	a.Size = f.size
	a.Mtime = f.mtime
	return nil
}

// ReadAll returns the file's content, refreshing the owning session's
// stamp on the way.
func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	f.fs.Manager.StampPath(f.path)

	if archive, member, ok := zipfs.SplitArchivePath(f.path); ok {
		a, err := f.fs.Zip.Open(archive)
		if err != nil {
			return nil, fuse.ENOENT
		}
		data, err := a.ReadFile(member)
		if err != nil {
			return nil, fuse.ENOENT
		}
		return data, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fuse.ENOENT
	}
	return data, nil
}
