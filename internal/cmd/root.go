package cmd

import (
	"github.com/indigos33k3r/vfskeep/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the vfskeep CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vfskeep",
		Short: "vfskeep - browse zip archives in place with idle-session reaping",
		Long: `vfskeep mounts a host directory over FUSE and presents zip archives
inside it as directories that can be browsed in place.

Archives open lazily on first access and stay open while in use. A
background sweeper stamps archives that look idle and closes any whose
stamp ages past the configured timeout, so long-running mounts do not
accumulate open archive handles.

Use subcommands to perform different operations:
  - mount: Mount a host tree at a specified mountpoint
  - seed: Generate a test tree with sample zip archives`,
		Version: version.GetFullVersion(),
	}

	groupUtilities := "utilities"
	groupFilesystem := "filesystem"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	mountCmd := NewMountCmd()
	seedCmd := NewSeedCmd()

	mountCmd.GroupID = groupFilesystem
	seedCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(seedCmd)

	return rootCmd
}
