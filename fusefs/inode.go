package fusefs

import "sync"

var (
	inodeMu      sync.Mutex
	inodes       = make(map[string]uint64)
	highestInode uint64
)

// inodeFor returns a stable inode number for the given path, assigning the
// next free one on first sight.
func inodeFor(path string) uint64 {
	inodeMu.Lock()
	defer inodeMu.Unlock()
	if ino, ok := inodes[path]; ok {
		return ino
	}
	highestInode++
	inodes[path] = highestInode
	return highestInode
}
