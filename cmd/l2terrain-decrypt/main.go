package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l2terrain/l2extract/internal/outdir"
	"github.com/l2terrain/l2extract/internal/tilefs"
	"github.com/l2terrain/l2extract/pkg"
	"github.com/l2terrain/l2extract/pkg/logging"
	"github.com/l2terrain/l2extract/pkg/unreal/crypto"
)

const version = "1.0.0"

var (
	inputDir    string
	outputDir   string
	logLevel    string
	force       bool
	verifyOnly  bool
	rootCmd     *cobra.Command
	versionFlag bool
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "l2terrain-decrypt",
		Short: "Decrypt Lineage 2 package files",
		Long: `Decrypt Lineage 2 package files (.unr, .utx) into plain Unreal packages.
The 28-byte encryption header is dropped from the output.`,
		RunE: runDecrypt,
	}

	rootCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory containing encrypted packages (required)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for decrypted packages (defaults to the platform output root)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&force, "force", false, "Decrypt even when the output directory is already marked complete")
	rootCmd.Flags().BoolVar(&verifyOnly, "verify", false, "Verify the input map files instead of decrypting")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	if err := rootCmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("l2terrain-decrypt %s\n", version)
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	logger := logging.NewLogger("l2terrain-decrypt", level, nil)

	if verifyOnly {
		return pkg.VerifyMapDirWithLogger(inputDir, logger)
	}

	if outputDir == "" {
		outputDir = filepath.Join(outdir.GetOutputRoot(), "decrypted")
		logger.Info("using default output directory", "dir", outputDir)
	}

	if outdir.IsComplete(outputDir, inputDir) {
		if !force {
			logger.Info("output already complete, nothing to do", "dir", outputDir)
			fmt.Printf("Output %s is already complete; use --force to redo\n", outputDir)
			return nil
		}
		if err := outdir.Clean(outputDir); err != nil {
			return err
		}
		logger.Debug("cleared completion markers", "dir", outputDir)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	decrypted, skipped, failed := 0, 0, 0
	for _, e := range entries {
		if e.IsDir() || !isPackageName(e.Name()) {
			continue
		}
		src := filepath.Join(inputDir, e.Name())
		dst := filepath.Join(outputDir, e.Name())

		err := crypto.DecryptFile(src, dst)
		switch {
		case errors.Is(err, crypto.ErrNotEncrypted):
			skipped++
			logger.Debug("not encrypted, skipping", "file", e.Name())
		case err != nil:
			failed++
			logger.Warn("decryption failed", "file", e.Name(), "error", err)
		default:
			decrypted++
			logger.Info("decrypted", "file", e.Name())
			// Map files get their tile output directory prepared for the
			// extraction stages that follow.
			if tilefs.IsMapFile(e.Name()) {
				tileKey := strings.TrimSuffix(strings.ToLower(e.Name()), ".unr")
				if err := outdir.CreateLayout(outdir.TilePath(tileKey), outdir.TileLayout); err != nil {
					logger.Warn("could not prepare tile output", "tile", tileKey, "error", err)
				}
			}
		}
	}

	if failed == 0 && decrypted > 0 {
		if err := outdir.MarkComplete(outputDir, inputDir, decrypted); err != nil {
			logger.Warn("could not write completion marker", "error", err)
		}
	} else if failed > 0 {
		if err := outdir.MarkIncomplete(outputDir, fmt.Sprintf("%d file(s) failed", failed)); err != nil {
			logger.Warn("could not write incomplete marker", "error", err)
		}
	}

	logger.Info("done", "decrypted", decrypted, "skipped", skipped, "failed", failed)
	fmt.Printf("Decrypted %d package(s), %d skipped, %d failed\n", decrypted, skipped, failed)
	return nil
}

func isPackageName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".unr") || strings.HasSuffix(lower, ".utx")
}
