package zipfs

import (
	"path/filepath"
	"testing"

	"github.com/indigos33k3r/vfskeep/vfs"
)

func TestSplitArchivePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		archive string
		member  string
		ok      bool
	}{
		{
			name: "plain path",
			path: "/srv/data/report.txt",
			ok:   false,
		},
		{
			name:    "archive itself",
			path:    "/srv/data/logs.zip",
			archive: "/srv/data/logs.zip",
			member:  "",
			ok:      true,
		},
		{
			name:    "member inside archive",
			path:    "/srv/data/logs.zip/2024/jan.log",
			archive: "/srv/data/logs.zip",
			member:  "2024/jan.log",
			ok:      true,
		},
		{
			name:    "first archive wins",
			path:    "/srv/outer.zip/inner.zip/file",
			archive: "/srv/outer.zip",
			member:  "inner.zip/file",
			ok:      true,
		},
		{
			name:    "relative path",
			path:    "data/logs.zip/jan.log",
			archive: filepath.Join("data", "logs.zip"),
			member:  "jan.log",
			ok:      true,
		},
		{
			name: "zip suffix on directory-like component only",
			path: "/srv/data",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive, member, ok := SplitArchivePath(tt.path)
			if ok != tt.ok {
				t.Fatalf("SplitArchivePath(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			}
			if !ok {
				return
			}
			if archive != tt.archive || member != tt.member {
				t.Errorf("SplitArchivePath(%q) = (%q, %q), want (%q, %q)",
					tt.path, archive, member, tt.archive, tt.member)
			}
		})
	}
}

func TestResolverRoutesPaths(t *testing.T) {
	dir := t.TempDir()
	p := writeArchive(t, dir, "data.zip", map[string]string{"a.txt": "a"})

	z := New()
	r := &Resolver{Local: vfs.LocalFS{}, Zip: z}

	// Plain host paths resolve to the local backend with no session.
	b, s, err := r.Resolve(filepath.Join(dir, "plain.txt"))
	if err != nil {
		t.Fatalf("resolving local path: %v", err)
	}
	if b != vfs.Backend(vfs.LocalFS{}) || s != nil {
		t.Errorf("local path resolved to (%v, %v)", b, s)
	}

	// Paths below the archive open and share the archive session.
	b, s, err = r.Resolve(filepath.Join(p, "a.txt"))
	if err != nil {
		t.Fatalf("resolving archive path: %v", err)
	}
	if b != vfs.Backend(z) {
		t.Errorf("archive path resolved to backend %v, want zipfs", b)
	}
	a, ok := s.(*Archive)
	if !ok || a.Path != p {
		t.Fatalf("archive path resolved to session %v", s)
	}

	_, s2, err := r.Resolve(p)
	if err != nil {
		t.Fatalf("resolving archive root: %v", err)
	}
	if s2 != vfs.Session(a) {
		t.Error("archive root and member should share one session")
	}

	// Unreadable archives surface the error.
	if _, _, err := r.Resolve(filepath.Join(dir, "absent.zip", "x")); err == nil {
		t.Error("resolving a missing archive should fail")
	}
}
