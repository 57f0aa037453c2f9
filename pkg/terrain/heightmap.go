package terrain

import (
	"fmt"

	"github.com/l2terrain/l2extract/pkg/unreal/texture"
)

// TileSize is the standard heightmap dimension of one terrain tile.
const TileSize = 256

// ExtractHeights pulls the G16 height samples out of a heightmap texture's
// raw export data. Heightmap exports are located by the fixed G16 marker
// rather than the compact-index length search; the two strategies are not
// interchangeable, so a marker miss is reported instead of falling back.
func ExtractHeights(exportData []byte, width, height int) ([]uint16, error) {
	size := width * height * 2
	offset := texture.FindG16Marker(exportData, size)
	if offset < 0 {
		return nil, fmt.Errorf("G16 %dx%d: %w", width, height, texture.ErrPayloadNotFound)
	}
	return texture.G16Samples(exportData[offset:offset+size], width*height), nil
}

// ExtractTile extracts a full tile from a heightmap texture export. The
// source filename supplies the tile coordinates.
func ExtractTile(exportData []byte, width, height int, sourceFilename string) (*Tile, error) {
	coords, ok := ParseTileCoords(sourceFilename)
	if !ok {
		return nil, fmt.Errorf("cannot parse tile coordinates from %q", sourceFilename)
	}
	heights, err := ExtractHeights(exportData, width, height)
	if err != nil {
		return nil, err
	}
	return NewTile(coords, width, height, heights, sourceFilename), nil
}
