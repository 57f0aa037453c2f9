package terrain

import (
	"errors"
	"testing"

	"github.com/l2terrain/l2extract/pkg/unreal/texture"
)

func TestParseTileCoords(t *testing.T) {
	testCases := []struct {
		filename string
		want     TileCoords
		ok       bool
	}{
		{"t_17_21.utx", TileCoords{17, 21}, true},
		{"T_17_21.utx", TileCoords{17, 21}, true},
		{"t_17_21_tx.utx", TileCoords{17, 21}, true},
		{"maps/t_3_9.utx", TileCoords{3, 9}, true},
		{"t_crasis.utx", TileCoords{}, false},
		{"16_25.unr", TileCoords{}, false},
	}

	for _, tc := range testCases {
		got, ok := ParseTileCoords(tc.filename)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseTileCoords(%q) = %v, %v; want %v, %v",
				tc.filename, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTileCoordsKey(t *testing.T) {
	if got := (TileCoords{17, 21}).Key(); got != "17_21" {
		t.Errorf("Key = %q, want %q", got, "17_21")
	}
}

func TestNewTileStats(t *testing.T) {
	heights := []uint16{500, 100, 900, 300}
	tile := NewTile(TileCoords{17, 21}, 2, 2, heights, "t_17_21.utx")

	if got := tile.MinHeight(); got != 100 {
		t.Errorf("MinHeight = %d, want 100", got)
	}
	if got := tile.MaxHeight(); got != 900 {
		t.Errorf("MaxHeight = %d, want 900", got)
	}
	if got := tile.HeightAt(0, 1); got != 900 {
		t.Errorf("HeightAt(0,1) = %d, want 900", got)
	}
	if got := tile.HeightAt(1, 0); got != 100 {
		t.Errorf("HeightAt(1,0) = %d, want 100", got)
	}
}

// heightmapExport assembles raw export data: junk, the G16 marker, then
// little-endian samples.
func heightmapExport(samples []uint16) []byte {
	data := []byte{0xDE, 0xAD, 0x00, 0x40, 0x80, 0x10}
	for _, s := range samples {
		data = append(data, byte(s), byte(s>>8))
	}
	return data
}

func TestExtractHeights(t *testing.T) {
	samples := []uint16{4096, 8192, 12288, 16384}
	got, err := ExtractHeights(heightmapExport(samples), 2, 2)
	if err != nil {
		t.Fatalf("ExtractHeights: %v", err)
	}
	for i, want := range samples {
		if got[i] != want {
			t.Errorf("sample %d = %d, want %d", i, got[i], want)
		}
	}
}

func TestExtractHeightsNoMarker(t *testing.T) {
	_, err := ExtractHeights(make([]byte, 64), 2, 2)
	if !errors.Is(err, texture.ErrPayloadNotFound) {
		t.Errorf("ExtractHeights = %v, want ErrPayloadNotFound", err)
	}
}

func TestExtractTile(t *testing.T) {
	samples := []uint16{4096, 8192, 12288, 16384}
	tile, err := ExtractTile(heightmapExport(samples), 2, 2, "t_17_21.utx")
	if err != nil {
		t.Fatalf("ExtractTile: %v", err)
	}
	if tile.Coords != (TileCoords{17, 21}) {
		t.Errorf("Coords = %v, want (17,21)", tile.Coords)
	}
	if tile.MinHeight() != 4096 || tile.MaxHeight() != 16384 {
		t.Errorf("height range = %d-%d, want 4096-16384", tile.MinHeight(), tile.MaxHeight())
	}

	if _, err := ExtractTile(heightmapExport(samples), 2, 2, "nocoords.utx"); err == nil {
		t.Error("ExtractTile accepted a filename without tile coordinates")
	}
}
