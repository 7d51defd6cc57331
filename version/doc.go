// Package version provides version information and build metadata for vfskeep.
//
// Version, Commit, and Date can be injected at build time via -ldflags:
//
//	-ldflags "-X .../version.Version=v1.0.0 -X .../version.Commit=abc123 -X .../version.Date=2024-01-01T00:00:00Z"
//
// When the compile-time values are left at their defaults, the package
// falls back to Go's runtime build info (debug.ReadBuildInfo), so module
// installs and development builds still report something useful.
package version
