package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	_ "bazil.org/fuse/fs/fstestutil"
	"github.com/indigos33k3r/vfskeep/fusefs"
	"github.com/indigos33k3r/vfskeep/version"
	"github.com/indigos33k3r/vfskeep/vfs"
	"github.com/indigos33k3r/vfskeep/zipfs"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"
)

// NewMountCmd creates and returns the mount subcommand for the vfskeep CLI.
// It mounts a host tree with in-place archive browsing and idle reaping.
func NewMountCmd() *cobra.Command {
	var (
		configPath string
		timeout    int
		interval   int
		keep       []string
	)

	cmd := &cobra.Command{
		Use:   "mount TREE_PATH MOUNTPOINT",
		Short: "Mount a host tree with idle archive reaping",
		Long: `Mount the host directory TREE_PATH at MOUNTPOINT.

Zip archives inside the tree present as directories and can be browsed in
place. Archives left idle past the timeout are closed by the background
sweeper; archives named with --keep are never closed while mounted.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runMount(args, configPath, timeout, interval, keep)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "Idle timeout in seconds (overrides config)")
	cmd.Flags().IntVarP(&interval, "interval", "i", 0, "Sweep interval in seconds (overrides config)")
	cmd.Flags().StringArrayVarP(&keep, "keep", "k", nil, "Archive path to keep open (repeatable)")

	return cmd
}

func runMount(args []string, configPath string, timeout, interval int, keep []string) {
	// Print version info on startup
	fmt.Printf("vfskeep %s starting...\n", version.GetFullVersion())

	treePath := args[0]
	mountpoint := args[1]

	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if timeout > 0 {
		cfg.TimeoutSeconds = timeout
	}
	if interval > 0 {
		cfg.SweepSeconds = interval
	}
	cfg.Keep = append(cfg.Keep, keep...)

	kept := make(map[string]bool, len(cfg.Keep))
	for _, p := range cfg.Keep {
		kept[filepath.Clean(p)] = true
	}

	zipBackend := zipfs.New()
	manager := vfs.NewManager()
	manager.Resolver = &zipfs.Resolver{Local: vfs.LocalFS{}, Zip: zipBackend}
	manager.SetTimeout(cfg.Timeout())

	// The stamping subsystem only runs with a listener subscribed. This
	// one logs stamping decisions and vetoes kept archives.
	manager.Events.Subscribe(vfs.EventVFSTimestamp, func(ev vfs.StampEvent) bool {
		a, ok := ev.Session.(*zipfs.Archive)
		if !ok {
			return false
		}
		if kept[a.Path] {
			log.Printf("%s keeping %s open", backendTag(ev.Backend), a.Path)
			return true
		}
		log.Printf("%s stamping idle %s", backendTag(ev.Backend), a.Path)
		return false
	})

	filesystem := fusefs.New(treePath, manager, zipBackend)

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("vfskeep"),
		fuse.Subtype("vfskeep"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go vfs.RunSweepLoop(sweepCtx, manager, cfg.SweepInterval())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")

		// Stop sweeping and release every tracked session
		stopSweep()
		manager.Shutdown()

		// Unmount filesystem
		fuse.Unmount(mountpoint)
		c.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Printf("vfskeep %s mounted at %s (tree: %s, timeout: %ds)",
		version.GetVersion(), mountpoint, treePath, cfg.TimeoutSeconds)
	err = fs.Serve(c, filesystem)
	if err != nil {
		log.Fatal(err)
	}
}

// backendTag returns a deterministically colored log tag for a backend.
func backendTag(b vfs.Backend) string {
	if b == nil {
		return "[?]"
	}
	name := b.Name()
	color := 31 + colorhash.HashString(name)%6 // ANSI foreground colors 31-36
	return fmt.Sprintf("\x1b[%dm[%s]\x1b[0m", color, name)
}
