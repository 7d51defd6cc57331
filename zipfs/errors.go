package zipfs

import "errors"

// Sentinel errors for package zipfs.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Archive errors
	ErrArchiveClosed = errors.New("archive session is closed")

	// Member errors
	ErrMemberNotFound = errors.New("member not found in archive")
	ErrMemberIsDir    = errors.New("member is a directory")
)
