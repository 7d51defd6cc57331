// Package cmd provides the command-line interface implementation for vfskeep.
//
// This package contains all the subcommand implementations for the vfskeep
// CLI tool. It uses the Cobra library for command structure and Fang for
// beautiful styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - mount: FUSE mounting of a host tree with idle archive reaping
//   - seed: Test tree generation with sample zip archives
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. The mount command wires together
// the vfs stamp manager, the zipfs backend, and the fusefs node layer, and
// runs the background sweep loop for the lifetime of the mount.
package cmd
