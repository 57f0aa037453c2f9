package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l2terrain/l2extract/pkg/logging"
	"github.com/l2terrain/l2extract/pkg/unreal/assoc"
	"github.com/l2terrain/l2extract/pkg/unreal/pkgfile"
	"github.com/l2terrain/l2extract/pkg/unreal/refscan"
)

const version = "1.0.0"

var (
	blobPath    string
	refsPath    string
	tileKey     string
	window      int
	logLevel    string
	rootCmd     *cobra.Command
	versionFlag bool
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "l2terrain-scan",
		Short: "Scan a raw terrain object for references and associations",
		Long: `Scan a raw object blob (as exposed by the package reader's byte range)
against a JSON reference table, then report decoration and splatmap
associations inferred from reference adjacency.`,
		RunE: runScan,
	}

	rootCmd.Flags().StringVarP(&blobPath, "blob", "b", "", "Path to the raw object bytes (required)")
	rootCmd.Flags().StringVarP(&refsPath, "refs", "r", "", "Path to the JSON import/export table (required)")
	rootCmd.Flags().StringVar(&tileKey, "tile", "", "Tile key recorded as association source (e.g. 16_25)")
	rootCmd.Flags().IntVar(&window, "window", assoc.CoarseWindow, "Proximity window in bytes for partner search")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	if err := rootCmd.MarkFlagRequired("blob"); err != nil {
		panic(err)
	}
	if err := rootCmd.MarkFlagRequired("refs"); err != nil {
		panic(err)
	}
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("l2terrain-scan %s\n", version)
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	logger := logging.NewLogger("l2terrain-scan", level, nil)

	data, err := os.ReadFile(blobPath)
	if err != nil {
		return err
	}
	refsJSON, err := os.ReadFile(refsPath)
	if err != nil {
		return err
	}
	var src pkgfile.StaticSource
	if err := json.Unmarshal(refsJSON, &src); err != nil {
		return fmt.Errorf("parse reference table: %w", err)
	}

	table := pkgfile.ReferenceTable(&src)
	refs := refscan.Scan(data, table)
	logger.Info("scan complete", "bytes", len(data), "references", len(refs))

	fmt.Printf("%d reference(s) in %d bytes\n", len(refs), len(data))
	for _, r := range refs {
		fmt.Printf("  %6d  [%d] %s (%s)\n", r.Offset, r.Index, r.Name, r.Class)
	}

	fmt.Println("\nDecoration layers:")
	for _, layer := range assoc.DecoLayers(refs, tileKey, window) {
		if layer.Mesh != "" {
			fmt.Printf("  %s -> %s (%s)\n", layer.Texture, layer.Mesh, layer.MeshPackage)
		} else {
			fmt.Printf("  %s -> <unresolved>\n", layer.Texture)
		}
	}

	fmt.Println("\nSplatmaps:")
	for _, splat := range assoc.Splatmaps(refs, tileKey, window) {
		if splat.GroundTexture != "" {
			fmt.Printf("  %s -> %s\n", splat.Name, splat.GroundTexture)
		} else {
			fmt.Printf("  %s -> <unresolved>\n", splat.Name)
		}
	}
	return nil
}
