package fusefs

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"bazil.org/fuse"
	"github.com/indigos33k3r/vfskeep/vfs"
	"github.com/indigos33k3r/vfskeep/zipfs"
)

// newTestFS builds a host tree with a plain file, a subdirectory, and a
// zip archive, and returns a filesystem with an active stamp manager.
func newTestFS(t *testing.T) (*FS, *vfs.Manager, *zipfs.FS) {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "plain.txt"), []byte("plain"), 0o644); err != nil {
		t.Fatalf("writing plain file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "subdir"), 0o755); err != nil {
		t.Fatalf("creating subdir: %v", err)
	}

	zf, err := os.Create(filepath.Join(root, "data.zip"))
	if err != nil {
		t.Fatalf("creating archive: %v", err)
	}
	zw := zip.NewWriter(zf)
	for member, content := range map[string]string{
		"hello.txt":    "hello from the archive",
		"logs/jan.log": "jan",
	} {
		w, err := zw.Create(member)
		if err != nil {
			t.Fatalf("adding member: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing member: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("finalizing archive: %v", err)
	}
	zf.Close()

	z := zipfs.New()
	m := vfs.NewManager()
	m.Resolver = &zipfs.Resolver{Local: vfs.LocalFS{}, Zip: z}
	m.Events.Subscribe(vfs.EventVFSTimestamp, func(vfs.StampEvent) bool { return false })

	return New(root, m, z), m, z
}

func TestLookupCrossesIntoArchive(t *testing.T) {
	f, _, z := newTestFS(t)
	ctx := context.Background()

	root := &Dir{fs: f, path: f.BaseDir}

	node, err := root.Lookup(ctx, "data.zip")
	if err != nil {
		t.Fatalf("looking up the archive: %v", err)
	}
	archiveDir, ok := node.(*Dir)
	if !ok {
		t.Fatal("an archive should present as a directory")
	}
	if z.SessionCount() != 1 {
		t.Errorf("lookup should open the archive session, got %d", z.SessionCount())
	}

	node, err = archiveDir.Lookup(ctx, "hello.txt")
	if err != nil {
		t.Fatalf("looking up an archive member: %v", err)
	}
	file, ok := node.(*File)
	if !ok {
		t.Fatal("archive member should present as a file")
	}

	data, err := file.ReadAll(ctx)
	if err != nil {
		t.Fatalf("reading archive member: %v", err)
	}
	if string(data) != "hello from the archive" {
		t.Errorf("ReadAll = %q", data)
	}

	if _, err := archiveDir.Lookup(ctx, "missing.txt"); err == nil {
		t.Error("looking up a missing member should fail")
	}
}

func TestLookupLocalFiles(t *testing.T) {
	f, _, _ := newTestFS(t)
	ctx := context.Background()

	root := &Dir{fs: f, path: f.BaseDir}

	node, err := root.Lookup(ctx, "plain.txt")
	if err != nil {
		t.Fatalf("looking up a plain file: %v", err)
	}
	file, ok := node.(*File)
	if !ok {
		t.Fatal("plain file should present as a file")
	}
	data, err := file.ReadAll(ctx)
	if err != nil {
		t.Fatalf("reading plain file: %v", err)
	}
	if string(data) != "plain" {
		t.Errorf("ReadAll = %q", data)
	}

	if node, err := root.Lookup(ctx, "subdir"); err != nil {
		t.Errorf("looking up subdir: %v", err)
	} else if _, ok := node.(*Dir); !ok {
		t.Error("subdir should present as a directory")
	}

	if _, err := root.Lookup(ctx, "nope"); err == nil {
		t.Error("looking up a missing name should fail")
	}
}

func TestReadDirAllPresentsArchivesAsDirs(t *testing.T) {
	f, _, _ := newTestFS(t)
	ctx := context.Background()

	root := &Dir{fs: f, path: f.BaseDir}
	dirents, err := root.ReadDirAll(ctx)
	if err != nil {
		t.Fatalf("listing root: %v", err)
	}

	types := make(map[string]bool) // name -> is dir
	for _, de := range dirents {
		types[de.Name] = de.Type == fuse.DT_Dir
	}
	if !types["data.zip"] {
		t.Error("archives should be listed as directories")
	}
	if !types["subdir"] {
		t.Error("subdir should be listed as a directory")
	}
	if isDir, ok := types["plain.txt"]; !ok || isDir {
		t.Error("plain.txt should be listed as a file")
	}
}

func TestNavigationStampsAbandonedArchive(t *testing.T) {
	f, m, z := newTestFS(t)
	ctx := context.Background()

	root := &Dir{fs: f, path: f.BaseDir}
	archiveDir := &Dir{fs: f, path: filepath.Join(f.BaseDir, "data.zip")}

	// Entering the archive opens its session but stamps nothing: it is
	// now the current location.
	if _, err := archiveDir.ReadDirAll(ctx); err != nil {
		t.Fatalf("listing archive: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("current location must not be stamped, got %d records", m.Len())
	}

	// Navigating back to the root leaves the archive behind, so its
	// session gets stamped for collection.
	if _, err := root.ReadDirAll(ctx); err != nil {
		t.Fatalf("listing root: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("abandoned archive should be stamped, got %d records", m.Len())
	}

	// A forced sweep closes the archive.
	m.Sweep(true)
	if z.SessionCount() != 0 {
		t.Errorf("sweep should close the archive session, %d still open", z.SessionCount())
	}
}

func TestShutdownClosesStampedSessions(t *testing.T) {
	f, m, z := newTestFS(t)
	ctx := context.Background()

	root := &Dir{fs: f, path: f.BaseDir}
	archiveDir := &Dir{fs: f, path: filepath.Join(f.BaseDir, "data.zip")}

	if _, err := archiveDir.ReadDirAll(ctx); err != nil {
		t.Fatalf("listing archive: %v", err)
	}
	if _, err := root.ReadDirAll(ctx); err != nil {
		t.Fatalf("listing root: %v", err)
	}

	m.Shutdown()
	if z.SessionCount() != 0 {
		t.Errorf("shutdown should close stamped sessions, %d still open", z.SessionCount())
	}
	if m.Len() != 0 {
		t.Errorf("shutdown should empty the registry, got %d", m.Len())
	}
}
