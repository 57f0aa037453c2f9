package terrain

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/l2terrain/l2extract/pkg/unreal/assoc"
	"github.com/l2terrain/l2extract/pkg/unreal/crypto"
	"github.com/l2terrain/l2extract/pkg/unreal/pkgfile"
)

// terrainBlob lays out compact-index references the way a serialized
// TerrainInfo object does: a deco texture followed closely by its mesh, and a
// splatmap preceded closely by its ground texture. Single-byte indices:
// -1..-4 encode as 0x81..0x84.
var terrainBlob = []byte{
	0x81, 0x00, 0x00, 0x00, 0x00, // import -1: deco texture
	0x82, 0x00, 0x00, 0x00, 0x00, // import -2: static mesh
	0x83, 0x00, 0x00, 0x00, // import -3: ground texture
	0x84, 0x00, // import -4: splatmap
}

func terrainSource(decoName, splatName string) *pkgfile.StaticSource {
	return &pkgfile.StaticSource{
		ImportTable: []pkgfile.ObjectInfo{
			{Name: decoName, Class: "Texture"},
			{Name: "bigstone", Class: "StaticMesh", Package: "MeshPkg"},
			{Name: "grass_ground", Class: "Texture"},
			{Name: splatName, Class: "Texture"},
		},
		ExportTable: []pkgfile.ObjectInfo{
			{Name: "TerrainInfo0", Class: "TerrainInfo"},
		},
		Ranges: map[int]pkgfile.Range{
			1: {Offset: 4, Length: len(terrainBlob)},
		},
	}
}

func terrainPackage() []byte {
	data := make([]byte, 4, 4+len(terrainBlob))
	return append(data, terrainBlob...)
}

func TestAddDecoLayerFirstWriterWins(t *testing.T) {
	c := NewCache(nil)

	resolved := assoc.DecoLayer{Texture: "16_25_Deco01", Mesh: "meshA", MeshPackage: "A", SourceTile: "16_25"}
	if err := c.AddDecoLayer(resolved); err != nil {
		t.Fatalf("AddDecoLayer: %v", err)
	}

	// A later resolved record must not displace the first.
	later := assoc.DecoLayer{Texture: "16_25_Deco01", Mesh: "meshB", MeshPackage: "B", SourceTile: "17_25"}
	if err := c.AddDecoLayer(later); err != nil {
		t.Fatalf("AddDecoLayer: %v", err)
	}
	got, ok := c.DecoLayer("16_25_Deco01")
	if !ok || got != resolved {
		t.Errorf("DecoLayer = %+v, want %+v", got, resolved)
	}

	// An unresolved record must not displace a resolved one either.
	if err := c.AddDecoLayer(assoc.DecoLayer{Texture: "16_25_Deco01", SourceTile: "18_25"}); err != nil {
		t.Fatalf("AddDecoLayer: %v", err)
	}
	got, _ = c.DecoLayer("16_25_Deco01")
	if got != resolved {
		t.Errorf("DecoLayer after unresolved write = %+v, want %+v", got, resolved)
	}

	// But an unresolved record is upgradeable.
	if err := c.AddDecoLayer(assoc.DecoLayer{Texture: "16_25_Deco02", SourceTile: "16_25"}); err != nil {
		t.Fatalf("AddDecoLayer: %v", err)
	}
	upgrade := assoc.DecoLayer{Texture: "16_25_Deco02", Mesh: "meshC", MeshPackage: "C", SourceTile: "17_25"}
	if err := c.AddDecoLayer(upgrade); err != nil {
		t.Fatalf("AddDecoLayer: %v", err)
	}
	got, _ = c.DecoLayer("16_25_Deco02")
	if got != upgrade {
		t.Errorf("DecoLayer after upgrade = %+v, want %+v", got, upgrade)
	}
}

func TestAddSplatmapFirstWriterWins(t *testing.T) {
	c := NewCache(nil)

	resolved := assoc.Splatmap{Name: "16_25_NG1", GroundTexture: "grass", SourceTile: "16_25"}
	if err := c.AddSplatmap(resolved); err != nil {
		t.Fatalf("AddSplatmap: %v", err)
	}
	if err := c.AddSplatmap(assoc.Splatmap{Name: "16_25_NG1", GroundTexture: "rock", SourceTile: "17_25"}); err != nil {
		t.Fatalf("AddSplatmap: %v", err)
	}
	got, ok := c.Splatmap("16_25_NG1")
	if !ok || got != resolved {
		t.Errorf("Splatmap = %+v, want %+v", got, resolved)
	}

	if err := c.AddSplatmap(assoc.Splatmap{Name: "16_25_NG2", SourceTile: "16_25"}); err != nil {
		t.Fatalf("AddSplatmap: %v", err)
	}
	upgrade := assoc.Splatmap{Name: "16_25_NG2", GroundTexture: "sand", SourceTile: "17_25"}
	if err := c.AddSplatmap(upgrade); err != nil {
		t.Fatalf("AddSplatmap: %v", err)
	}
	got, _ = c.Splatmap("16_25_NG2")
	if got != upgrade {
		t.Errorf("Splatmap after upgrade = %+v, want %+v", got, upgrade)
	}
}

func TestFreeze(t *testing.T) {
	c := NewCache(nil)
	c.Freeze()

	if err := c.AddDecoLayer(assoc.DecoLayer{Texture: "16_25_Deco01"}); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddDecoLayer after Freeze = %v, want ErrFrozen", err)
	}
	if err := c.AddSplatmap(assoc.Splatmap{Name: "16_25_NG1"}); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddSplatmap after Freeze = %v, want ErrFrozen", err)
	}
	if err := c.AddPackage("16_25", terrainPackage(), terrainSource("16_25_Deco01", "16_25_NG1")); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddPackage after Freeze = %v, want ErrFrozen", err)
	}
	if err := c.BuildDir(t.TempDir(), nil); !errors.Is(err, ErrFrozen) {
		t.Errorf("BuildDir after Freeze = %v, want ErrFrozen", err)
	}
}

func TestAddPackage(t *testing.T) {
	c := NewCache(nil)
	if err := c.AddPackage("16_25", terrainPackage(), terrainSource("16_25_Deco01", "16_25_NG1")); err != nil {
		t.Fatalf("AddPackage: %v", err)
	}

	layer, ok := c.DecoLayer("16_25_Deco01")
	if !ok {
		t.Fatal("deco layer not cached")
	}
	want := assoc.DecoLayer{Texture: "16_25_Deco01", Mesh: "bigstone", MeshPackage: "MeshPkg", SourceTile: "16_25"}
	if layer != want {
		t.Errorf("DecoLayer = %+v, want %+v", layer, want)
	}

	splat, ok := c.Splatmap("16_25_NG1")
	if !ok {
		t.Fatal("splatmap not cached")
	}
	wantSplat := assoc.Splatmap{Name: "16_25_NG1", GroundTexture: "grass_ground", SourceTile: "16_25"}
	if splat != wantSplat {
		t.Errorf("Splatmap = %+v, want %+v", splat, wantSplat)
	}

	if got := c.TileDecoLayers("16_25"); !reflect.DeepEqual(got, []string{"16_25_Deco01"}) {
		t.Errorf("TileDecoLayers = %v", got)
	}
	if got := c.TileSplatmaps("16_25"); !reflect.DeepEqual(got, []string{"16_25_NG1"}) {
		t.Errorf("TileSplatmaps = %v", got)
	}
	if got := c.Tiles(); !reflect.DeepEqual(got, []string{"16_25"}) {
		t.Errorf("Tiles = %v", got)
	}
}

func TestAddPackageWithoutTerrainInfo(t *testing.T) {
	c := NewCache(nil)
	src := &pkgfile.StaticSource{
		ExportTable: []pkgfile.ObjectInfo{{Name: "Level0", Class: "Level"}},
	}
	if err := c.AddPackage("20_18", []byte{0x00, 0x00}, src); err != nil {
		t.Fatalf("AddPackage: %v", err)
	}
	if got := c.Tiles(); !reflect.DeepEqual(got, []string{"20_18"}) {
		t.Errorf("Tiles = %v, want the tile recorded even without terrain data", got)
	}
	if len(c.DecoLayers()) != 0 || len(c.Splatmaps()) != 0 {
		t.Error("associations recorded without a TerrainInfo export")
	}
}

func TestAddPackageBadByteRange(t *testing.T) {
	c := NewCache(nil)
	src := terrainSource("16_25_Deco01", "16_25_NG1")
	src.Ranges[1] = pkgfile.Range{Offset: 4, Length: 1 << 20}
	if err := c.AddPackage("16_25", terrainPackage(), src); err == nil {
		t.Error("AddPackage accepted a byte range past the end of the package")
	}
}

func TestFindDecoLayer(t *testing.T) {
	c := NewCache(nil)
	names := []string{"16_25_Deco01", "16_25_Deco2", "16_25_deco03", "16_25_deco4"}
	for _, name := range names {
		if err := c.AddDecoLayer(assoc.DecoLayer{Texture: name, Mesh: "m_" + name, SourceTile: "16_25"}); err != nil {
			t.Fatalf("AddDecoLayer: %v", err)
		}
	}

	for layerIdx, wantName := range map[int]string{1: "16_25_Deco01", 2: "16_25_Deco2", 3: "16_25_deco03", 4: "16_25_deco4"} {
		got, ok := c.FindDecoLayer(16, 25, layerIdx)
		if !ok {
			t.Errorf("FindDecoLayer(16, 25, %d) missed", layerIdx)
			continue
		}
		if got.Texture != wantName {
			t.Errorf("FindDecoLayer(16, 25, %d) = %q, want %q", layerIdx, got.Texture, wantName)
		}
	}

	if _, ok := c.FindDecoLayer(16, 25, 9); ok {
		t.Error("FindDecoLayer resolved a layer that was never cached")
	}
}

func TestTileListsAreAdditive(t *testing.T) {
	c := NewCache(nil)
	layer := assoc.DecoLayer{Texture: "16_25_Deco01", Mesh: "meshA", SourceTile: "16_25"}
	for i := 0; i < 2; i++ {
		if err := c.AddDecoLayer(layer); err != nil {
			t.Fatalf("AddDecoLayer: %v", err)
		}
		c.tileDecoLayers["16_25"] = append(c.tileDecoLayers["16_25"], layer.Texture)
	}
	if got := c.TileDecoLayers("16_25"); len(got) != 2 {
		t.Errorf("TileDecoLayers = %v, want the duplicate subject kept", got)
	}
}

// encryptMapFile writes an encrypted v111 package to dir under name.
func encryptMapFile(t *testing.T, dir, name string, plaintext []byte) {
	t.Helper()
	header := make([]byte, 0, crypto.HeaderSize)
	for _, r := range "Lineage2Ver111" {
		header = append(header, byte(r), 0x00)
	}
	data := append(header, crypto.XOR(plaintext, 0xAC)...)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildDir(t *testing.T) {
	dir := t.TempDir()
	encryptMapFile(t, dir, "16_25.unr", terrainPackage())
	encryptMapFile(t, dir, "17_25.unr", terrainPackage())
	// Non-map files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "t_16_25.utx"), []byte{0x00}, 0o644); err != nil {
		t.Fatal(err)
	}

	// Both files reference the same shared deco texture; 16_25.unr sorts
	// first, so its association must win.
	sources := map[string]*pkgfile.StaticSource{
		"16_25.unr": terrainSource("99_99_Deco01", "16_25_NG1"),
		"17_25.unr": terrainSource("99_99_Deco01", "17_25_NG1"),
	}
	sources["17_25.unr"].ImportTable[1].Name = "otherstone"

	open := func(path string, plaintext []byte) (pkgfile.Source, error) {
		if !reflect.DeepEqual(plaintext, terrainPackage()) {
			t.Errorf("opener received corrupted plaintext for %s", path)
		}
		return sources[filepath.Base(path)], nil
	}

	c := NewCache(nil)
	if err := c.BuildDir(dir, open); err != nil {
		t.Fatalf("BuildDir: %v", err)
	}

	if got := c.Tiles(); !reflect.DeepEqual(got, []string{"16_25", "17_25"}) {
		t.Errorf("Tiles = %v", got)
	}
	layer, ok := c.DecoLayer("99_99_Deco01")
	if !ok {
		t.Fatal("shared deco texture not cached")
	}
	if layer.Mesh != "bigstone" || layer.SourceTile != "16_25" {
		t.Errorf("shared deco layer = %+v, want the first file's association", layer)
	}
	if _, ok := c.Splatmap("17_25_NG1"); !ok {
		t.Error("second file's splatmap missing")
	}
}

func TestBuildDirSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	encryptMapFile(t, dir, "16_25.unr", terrainPackage())
	// Not encrypted at all; Decrypt rejects it and the batch continues.
	if err := os.WriteFile(filepath.Join(dir, "17_25.unr"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	open := func(path string, plaintext []byte) (pkgfile.Source, error) {
		return terrainSource("16_25_Deco01", "16_25_NG1"), nil
	}

	c := NewCache(nil)
	if err := c.BuildDir(dir, open); err != nil {
		t.Fatalf("BuildDir: %v", err)
	}
	if got := c.Tiles(); !reflect.DeepEqual(got, []string{"16_25"}) {
		t.Errorf("Tiles = %v, want only the decryptable file", got)
	}
}
