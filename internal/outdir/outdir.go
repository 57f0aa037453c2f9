// Package outdir manages output directories for extraction runs
package outdir

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// GetOutputRoot returns the root output directory
func GetOutputRoot() string {
	// Check environment variable first
	if outDir := os.Getenv("L2EXTRACT_OUT_DIR"); outDir != "" {
		return outDir
	}

	// Use platform-specific defaults
	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support", "l2extract")
		}
	case "linux":
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "l2extract")
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".local", "share", "l2extract")
		}
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "l2extract", "output")
		}
	}

	// Fallback to temp directory
	return filepath.Join(os.TempDir(), "l2extract", "output")
}

// TilePath returns the output directory for one terrain tile
func TilePath(tileKey string) string {
	return filepath.Join(GetOutputRoot(), "tiles", tileKey)
}

// CreateLayout creates an output directory with proper structure
func CreateLayout(path string, dirs []DirectorySpec) error {
	// Create main output directory
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	// Create subdirectories
	for _, dir := range dirs {
		dirPath := filepath.Join(path, dir.Path)
		mode := dir.Mode
		if mode == 0 {
			mode = 0755
		}

		if err := os.MkdirAll(dirPath, os.FileMode(mode)); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir.Path, err)
		}
	}

	return nil
}

// TileLayout is the standard per-tile output structure
var TileLayout = []DirectorySpec{
	{Path: "textures"},
	{Path: "heightmaps"},
}

// DirectorySpec specifies a directory to create
type DirectorySpec struct {
	Path string
	Mode uint32
}
