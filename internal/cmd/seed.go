package cmd

import (
	"archive/zip"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand for the vfskeep CLI.
// It generates a host tree with sample zip archives for exercising a mount.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath   string
		archiveCount int
		memberCount  int
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a test tree with sample zip archives",
		Long: `Generate a host tree for testing vfskeep mounts.

Creates a directory tree containing plain text files and zip archives.
Each archive holds member files spread across a few inner directories,
every one containing a single UUID line. Mount the resulting tree and
browse the archives to watch sessions open and get reaped.`,
		Run: func(cmd *cobra.Command, args []string) {
			runSeed(outputPath, archiveCount, memberCount, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&archiveCount, "archives", "a", 10, "Number of archives to generate")
	cmd.Flags().IntVarP(&memberCount, "members", "m", 50, "Number of members per archive")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(outputPath string, archiveCount, memberCount int, verbose bool) {
	if verbose {
		fmt.Printf("Generating %d archives with %d members each in %s\n",
			archiveCount, memberCount, outputPath)
	}

	// Create output directory
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Generate pool of 50 UUIDs
	uuidPool := make([]string, 50)
	for i := 0; i < 50; i++ {
		uuidPool[i] = uuid.New().String()
	}

	// A few plain files alongside the archives, so the mounted tree mixes
	// local and archive-backed content.
	for i := 0; i < 3; i++ {
		name := filepath.Join(outputPath, fmt.Sprintf("notes-%d.txt", i))
		if err := os.WriteFile(name, []byte(uuidPool[i]+"\n"), 0644); err != nil {
			log.Printf("Warning: Failed to write file %s: %v", name, err)
		}
	}

	innerDirs := []string{"", "data/", "data/raw/", "meta/"}

	for i := 0; i < archiveCount; i++ {
		archivePath := filepath.Join(outputPath, fmt.Sprintf("bundle-%03d.zip", i))
		if err := writeSeedArchive(archivePath, memberCount, innerDirs, uuidPool); err != nil {
			log.Printf("Warning: Failed to write archive %s: %v", archivePath, err)
			continue
		}
		if verbose {
			fmt.Printf("Created %s\n", archivePath)
		}
	}

	if verbose {
		fmt.Printf("Successfully seeded %s\n", outputPath)
	}
}

func writeSeedArchive(archivePath string, memberCount int, innerDirs, uuidPool []string) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for j := 0; j < memberCount; j++ {
		dirIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(innerDirs))))
		nameNum, _ := rand.Int(rand.Reader, big.NewInt(0xFFFFFFFF))
		member := fmt.Sprintf("%s%08x.json", innerDirs[dirIndex.Int64()], nameNum.Int64())

		w, err := zw.Create(member)
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to add member %s: %w", member, err)
		}

		uuidIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(uuidPool))))
		if _, err := w.Write([]byte(uuidPool[uuidIndex.Int64()] + "\n")); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write member %s: %w", member, err)
		}
	}
	return zw.Close()
}
