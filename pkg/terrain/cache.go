package terrain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/l2terrain/l2extract/internal/tilefs"
	"github.com/l2terrain/l2extract/pkg/unreal/assoc"
	"github.com/l2terrain/l2extract/pkg/unreal/crypto"
	"github.com/l2terrain/l2extract/pkg/unreal/pkgfile"
	"github.com/l2terrain/l2extract/pkg/unreal/refscan"
)

// ErrFrozen reports a write to a cache after Freeze.
var ErrFrozen = errors.New("terrain cache is frozen")

var mapNamePattern = regexp.MustCompile(`^(\d+)_(\d+)\.unr$`)

// decoLayerNameFormats are the naming-convention variants tried when mapping
// a positional layer index back to a cached subject name. Different source
// packages disagree on case and zero padding.
var decoLayerNameFormats = []string{
	"%d_%d_Deco%02d",
	"%d_%d_Deco%d",
	"%d_%d_deco%02d",
	"%d_%d_deco%d",
}

// Cache aggregates decoration and splatmap associations across every map
// file. It is built once in a single-threaded pass, then frozen; after
// Freeze the tables are read-only and safe for concurrent readers. Shared
// textures make this necessary: a tile's association is often defined by a
// different tile's terrain object.
type Cache struct {
	frozen bool
	logger hclog.Logger

	decoLayers map[string]assoc.DecoLayer
	splatmaps  map[string]assoc.Splatmap

	// Per-tile ordered subject lists, additive and never deduplicated: a
	// file may legitimately reuse a subject name at a different layer
	// position.
	tileDecoLayers map[string][]string
	tileSplatmaps  map[string][]string

	tiles map[string]struct{}
}

// NewCache returns an empty cache. A nil logger is replaced with a null
// logger.
func NewCache(logger hclog.Logger) *Cache {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Cache{
		logger:         logger,
		decoLayers:     make(map[string]assoc.DecoLayer),
		splatmaps:      make(map[string]assoc.Splatmap),
		tileDecoLayers: make(map[string][]string),
		tileSplatmaps:  make(map[string][]string),
		tiles:          make(map[string]struct{}),
	}
}

// Freeze ends the build pass. Every later Add or Build call fails with
// ErrFrozen; queries from multiple goroutines are safe once Freeze has
// returned.
func (c *Cache) Freeze() {
	c.frozen = true
}

// AddDecoLayer folds one decoration association into the cache under the
// first-writer-wins rule: an existing record with a resolved mesh is never
// overwritten; an unresolved record may be upgraded by a later file.
func (c *Cache) AddDecoLayer(layer assoc.DecoLayer) error {
	if c.frozen {
		return ErrFrozen
	}
	existing, ok := c.decoLayers[layer.Texture]
	if layer.Mesh != "" {
		if !ok || existing.Mesh == "" {
			c.decoLayers[layer.Texture] = layer
		}
	} else if !ok {
		c.decoLayers[layer.Texture] = layer
	}
	return nil
}

// AddSplatmap folds one splatmap association into the cache under the same
// first-writer-wins rule as AddDecoLayer.
func (c *Cache) AddSplatmap(splat assoc.Splatmap) error {
	if c.frozen {
		return ErrFrozen
	}
	existing, ok := c.splatmaps[splat.Name]
	if splat.GroundTexture != "" {
		if !ok || existing.GroundTexture == "" {
			c.splatmaps[splat.Name] = splat
		}
	} else if !ok {
		c.splatmaps[splat.Name] = splat
	}
	return nil
}

// AddPackage runs the scanner and both association heuristics over the
// terrain-description object of one decrypted map package and folds the
// results in. A package without a TerrainInfo export is a no-op, not an
// error.
func (c *Cache) AddPackage(tileKey string, data []byte, src pkgfile.Source) error {
	if c.frozen {
		return ErrFrozen
	}
	c.tiles[tileKey] = struct{}{}

	exportIdx := pkgfile.FindExport(src, "TerrainInfo")
	if exportIdx == 0 {
		c.logger.Debug("no TerrainInfo export", "tile", tileKey)
		return nil
	}
	offset, length, err := src.ByteRange(exportIdx)
	if err != nil {
		return fmt.Errorf("byte range of TerrainInfo in %s: %w", tileKey, err)
	}
	if offset < 0 || offset+length > len(data) {
		return fmt.Errorf("TerrainInfo byte range [%d,%d) outside package of %d bytes",
			offset, offset+length, len(data))
	}

	refs := refscan.Scan(data[offset:offset+length], pkgfile.ReferenceTable(src))
	c.logger.Debug("scanned terrain object",
		"tile", tileKey, "size", length, "references", len(refs))

	for _, layer := range assoc.DecoLayers(refs, tileKey, assoc.TightWindow) {
		if err := c.AddDecoLayer(layer); err != nil {
			return err
		}
		c.tileDecoLayers[tileKey] = append(c.tileDecoLayers[tileKey], layer.Texture)
	}
	for _, splat := range assoc.Splatmaps(refs, tileKey, assoc.TightWindow) {
		if err := c.AddSplatmap(splat); err != nil {
			return err
		}
		c.tileSplatmaps[tileKey] = append(c.tileSplatmaps[tileKey], splat.Name)
	}
	return nil
}

// BuildDir decrypts and scans every map file in dir, in sorted filename
// order so the first-writer-wins outcome is deterministic. A file that
// cannot be decrypted or scanned is logged and skipped; it never aborts the
// batch.
func (c *Cache) BuildDir(dir string, open pkgfile.Opener) error {
	if c.frozen {
		return ErrFrozen
	}
	files, err := tilefs.MapFiles(dir)
	if err != nil {
		return err
	}
	c.logger.Info("building terrain cache", "dir", dir, "maps", len(files))

	failed := 0
	for _, path := range files {
		if err := c.addMapFile(path, open); err != nil {
			failed++
			c.logger.Warn("skipping map file", "file", filepath.Base(path), "error", err)
		}
	}

	c.logger.Info("terrain cache built",
		"tiles", len(c.tiles),
		"deco_textures", len(c.decoLayers),
		"splatmaps", len(c.splatmaps),
		"failed", failed)
	return nil
}

func (c *Cache) addMapFile(path string, open pkgfile.Opener) error {
	name := filepath.Base(path)
	m := mapNamePattern.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return fmt.Errorf("not a map file name: %s", name)
	}
	tileKey := m[1] + "_" + m[2]

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	plaintext, err := crypto.Decrypt(raw, name)
	if err != nil {
		return err
	}
	src, err := open(path, plaintext)
	if err != nil {
		return fmt.Errorf("open package: %w", err)
	}
	return c.AddPackage(tileKey, plaintext, src)
}

// DecoLayer looks up a decoration association by exact texture name.
func (c *Cache) DecoLayer(texture string) (assoc.DecoLayer, bool) {
	layer, ok := c.decoLayers[texture]
	return layer, ok
}

// Splatmap looks up a splatmap association by exact name.
func (c *Cache) Splatmap(name string) (assoc.Splatmap, bool) {
	splat, ok := c.splatmaps[name]
	return splat, ok
}

// FindDecoLayer resolves a positional (x, y, layer) triple to a cached
// association, trying each naming-convention variant until one hits.
func (c *Cache) FindDecoLayer(x, y, layer int) (assoc.DecoLayer, bool) {
	for _, format := range decoLayerNameFormats {
		if info, ok := c.decoLayers[fmt.Sprintf(format, x, y, layer)]; ok {
			return info, true
		}
	}
	return assoc.DecoLayer{}, false
}

// TileDecoLayers returns the ordered decoration subject names recorded for a
// tile key.
func (c *Cache) TileDecoLayers(tileKey string) []string {
	return c.tileDecoLayers[tileKey]
}

// TileSplatmaps returns the ordered splatmap subject names recorded for a
// tile key.
func (c *Cache) TileSplatmaps(tileKey string) []string {
	return c.tileSplatmaps[tileKey]
}

// Tiles returns every tile key seen during the build pass, sorted.
func (c *Cache) Tiles() []string {
	keys := make([]string, 0, len(c.tiles))
	for k := range c.tiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DecoLayers returns the full decoration association table.
func (c *Cache) DecoLayers() map[string]assoc.DecoLayer {
	return c.decoLayers
}

// Splatmaps returns the full splatmap association table.
func (c *Cache) Splatmaps() map[string]assoc.Splatmap {
	return c.splatmaps
}
