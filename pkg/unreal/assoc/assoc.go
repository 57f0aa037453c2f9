// Package assoc infers pairings between named objects from the reference
// scanner's output. The only ground truth is byte-offset adjacency: the
// engine authors placed related fields near each other, so a decoration
// texture's mesh tends to be the next StaticMesh reference, and a splatmap's
// ground texture tends to be the preceding plain Texture reference.
//
// The heuristics are local and positional, not semantic. They can
// misassociate in pathological layouts; that is a known, accepted
// approximation.
package assoc

import (
	"regexp"
	"strings"

	"github.com/l2terrain/l2extract/pkg/unreal/refscan"
)

// Proximity windows, in bytes, for the partner search. The tight window is
// used when scanning a single object's data; the coarse window when scanning
// a whole export region at once. Both values are empirically derived.
const (
	TightWindow  = 20
	CoarseWindow = 200
)

var (
	// Decoration texture names: XX_YY_DecoNN.
	decoPattern = regexp.MustCompile(`^(\d+)_(\d+)_[Dd]eco(\d+)$`)

	// Splatmap texture names: XX_YY_suffix.
	splatPattern = regexp.MustCompile(`^(\d+)_(\d+)_([A-Za-z]\w*)$`)

	// Names that look like per-tile textures rather than shared ground
	// textures; used to veto backward-search candidates.
	tilePrefixPattern = regexp.MustCompile(`^\d+_\d+`)
)

// DecoLayer associates a decoration texture with the static mesh it
// scatters. An empty Mesh means the texture was seen but no mesh was found
// nearby, which downstream consumers distinguish from "never seen".
type DecoLayer struct {
	Texture     string
	Mesh        string
	MeshPackage string
	SourceTile  string
}

// Splatmap associates a terrain blend texture with the ground texture it
// blends in. An empty GroundTexture means the pairing is unresolved.
type Splatmap struct {
	Name          string
	GroundTexture string
	SourceTile    string
}

// IsDecoName reports whether name follows the decoration texture convention.
func IsDecoName(name string) bool {
	return decoPattern.MatchString(name)
}

// DecoLayers pairs each decoration texture reference with the nearest
// following StaticMesh reference within window bytes. First match wins and
// the search never backtracks. Record order is the tile's deco layer order.
func DecoLayers(refs []refscan.Reference, sourceTile string, window int) []DecoLayer {
	var layers []DecoLayer

	for i, ref := range refs {
		if ref.Class != "Texture" || !decoPattern.MatchString(ref.Name) {
			continue
		}

		layer := DecoLayer{Texture: ref.Name, SourceTile: sourceTile}
		for j := i + 1; j < len(refs); j++ {
			next := refs[j]
			if next.Offset > ref.Offset+window {
				break
			}
			if next.Class == "StaticMesh" {
				layer.Mesh = next.Name
				layer.MeshPackage = next.Package
				break
			}
		}
		layers = append(layers, layer)
	}

	return layers
}

// Splatmaps pairs each splatmap texture reference with the nearest preceding
// Texture reference within window bytes that does not itself look like a
// per-tile texture. First match wins. Record order is the tile's splatmap
// layer order.
func Splatmaps(refs []refscan.Reference, sourceTile string, window int) []Splatmap {
	var splats []Splatmap

	for i, ref := range refs {
		if ref.Class != "Texture" {
			continue
		}
		m := splatPattern.FindStringSubmatch(ref.Name)
		if m == nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(m[3]), "deco") {
			continue
		}

		splat := Splatmap{Name: ref.Name, SourceTile: sourceTile}
		for j := i - 1; j >= 0; j-- {
			prev := refs[j]
			if ref.Offset-prev.Offset > window {
				break
			}
			if prev.Class == "Texture" && !tilePrefixPattern.MatchString(prev.Name) {
				splat.GroundTexture = prev.Name
				break
			}
		}
		splats = append(splats, splat)
	}

	return splats
}
