// Package terrain holds the terrain-side data model: tile coordinates and
// height grids, plus the cross-file association cache built over all map
// files.
package terrain

import (
	"fmt"
	"regexp"
	"strconv"
)

var coordPattern = regexp.MustCompile(`[Tt]_(\d+)_(\d+)`)

// TileCoords identifies a terrain tile on the world grid.
type TileCoords struct {
	X, Y int
}

// ParseTileCoords extracts tile coordinates from a package filename such as
// "t_17_21.utx" or "T_17_21_tx.utx". The second return value is false when
// the filename carries no coordinates.
func ParseTileCoords(filename string) (TileCoords, bool) {
	m := coordPattern.FindStringSubmatch(filename)
	if m == nil {
		return TileCoords{}, false
	}
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	return TileCoords{X: x, Y: y}, true
}

// Key returns the "X_Y" form used as a cache key and directory name.
func (c TileCoords) Key() string {
	return fmt.Sprintf("%d_%d", c.X, c.Y)
}

func (c TileCoords) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Tile is one extracted terrain tile: a width by height grid of unsigned
// 16-bit height samples. Height statistics are computed once at construction.
type Tile struct {
	Coords  TileCoords
	Width   int
	Height  int
	Heights []uint16
	Source  string

	minHeight uint16
	maxHeight uint16
}

// NewTile builds a tile over the given height samples, which must hold
// width*height values in row-major order.
func NewTile(coords TileCoords, width, height int, heights []uint16, source string) *Tile {
	t := &Tile{
		Coords:  coords,
		Width:   width,
		Height:  height,
		Heights: heights,
		Source:  source,
	}
	if len(heights) > 0 {
		t.minHeight = heights[0]
		t.maxHeight = heights[0]
		for _, h := range heights[1:] {
			if h < t.minHeight {
				t.minHeight = h
			}
			if h > t.maxHeight {
				t.maxHeight = h
			}
		}
	}
	return t
}

// HeightAt returns the sample at local tile coordinates.
func (t *Tile) HeightAt(x, y int) uint16 {
	return t.Heights[y*t.Width+x]
}

// MinHeight returns the smallest sample in the tile.
func (t *Tile) MinHeight() uint16 { return t.minHeight }

// MaxHeight returns the largest sample in the tile.
func (t *Tile) MaxHeight() uint16 { return t.maxHeight }

func (t *Tile) String() string {
	return fmt.Sprintf("Tile[%s @ %s, %dx%d, height range %d-%d]",
		t.Source, t.Coords, t.Width, t.Height, t.minHeight, t.maxHeight)
}
