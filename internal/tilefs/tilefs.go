// Package tilefs discovers Lineage 2 package files by the filename
// conventions the terrain pipeline depends on. Map files are XX_YY.unr, tile
// texture packages are t_XX_YY.utx (optionally with a _tx suffix), regional
// texture packages are t_<name>.utx, and decoration packages start with
// "l2decolayer". All matching is case-insensitive.
package tilefs

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	mapFilePattern  = regexp.MustCompile(`^\d+_\d+\.unr$`)
	tilePkgPattern  = regexp.MustCompile(`^t_\d+_\d+(_tx)?\.utx$`)
	regionalPattern = regexp.MustCompile(`^t_[a-z]+\d*\.utx$`)
)

// IsMapFile reports whether name is a tile map file (XX_YY.unr).
func IsMapFile(name string) bool {
	return mapFilePattern.MatchString(strings.ToLower(name))
}

// IsTilePackage reports whether name is a per-tile texture package.
func IsTilePackage(name string) bool {
	return tilePkgPattern.MatchString(strings.ToLower(name))
}

// IsRegionalPackage reports whether name is a regional (shared) texture
// package. Tile packages are excluded.
func IsRegionalPackage(name string) bool {
	lower := strings.ToLower(name)
	return regionalPattern.MatchString(lower) && !tilePkgPattern.MatchString(lower)
}

// IsDecoPackage reports whether name is a decoration layer texture package.
func IsDecoPackage(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "l2decolayer") && strings.HasSuffix(lower, ".utx")
}

// List returns the sorted paths of regular files in dir whose base name
// satisfies match.
func List(dir string, match func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !match(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// MapFiles lists the tile map files in dir.
func MapFiles(dir string) ([]string, error) { return List(dir, IsMapFile) }

// TilePackages lists the per-tile texture packages in dir.
func TilePackages(dir string) ([]string, error) { return List(dir, IsTilePackage) }

// RegionalPackages lists the regional texture packages in dir.
func RegionalPackages(dir string) ([]string, error) { return List(dir, IsRegionalPackage) }

// DecoPackages lists the decoration layer packages in dir.
func DecoPackages(dir string) ([]string, error) { return List(dir, IsDecoPackage) }
