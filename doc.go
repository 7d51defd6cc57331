// Package main provides the vfskeep command-line interface.
//
// vfskeep mounts a host directory over FUSE and presents zip archives
// inside it as directories, so archive contents can be browsed in place
// without unpacking. Open archives are tracked as sessions: a background
// sweeper stamps sessions that look idle and closes any whose stamp ages
// past a configurable timeout, keeping long-running mounts from holding
// archives open forever.
//
// The main binary supports multiple subcommands:
//   - mount: Mount a host tree at a specified mountpoint
//   - seed: Generate a test tree with sample zip archives
package main
