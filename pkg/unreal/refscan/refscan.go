// Package refscan locates object references inside raw export data without
// using the structured object model. It slides a cursor over the bytes and
// records every compact-index decoding that matches a known import or export
// index.
//
// The scan is purely statistical: arbitrary payload bytes can coincidentally
// decode to a valid index, so consumers must tolerate false positives. What
// the scan does guarantee is that recorded spans never overlap and offsets
// are strictly increasing.
package refscan

import (
	"github.com/l2terrain/l2extract/pkg/unreal/index"
)

// Entry describes one resolvable reference target.
type Entry struct {
	Name    string
	Class   string
	Package string
}

// Table maps a signed object reference index to its resolved entry.
// Exports are keyed at +n (1-based), imports at -n (1-based, negated).
// Zero means "no reference" and must never be present.
type Table map[int]Entry

// Reference is one scanner hit: a known index found at a byte offset within
// the scanned region.
type Reference struct {
	Offset  int
	Index   int
	Name    string
	Class   string
	Package string
}

// Scan finds all references in data that resolve through table, ordered by
// offset. Matches claim their byte span greedily, leftmost first; a candidate
// whose span overlaps an earlier claim is dropped. Without that rule a single
// true reference is re-detected at every interior offset that happens to
// decode to another valid index.
func Scan(data []byte, table Table) []Reference {
	var refs []Reference
	claimed := make([]bool, len(data))

	for i := 0; i < len(data)-1; i++ {
		idx, _ := index.Decode(data, i)
		if idx == 0 {
			continue
		}
		entry, ok := table[idx]
		if !ok {
			continue
		}

		span := index.EncodedLen(idx)
		if i+span > len(data) {
			span = len(data) - i
		}
		overlaps := false
		for j := i; j < i+span; j++ {
			if claimed[j] {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		for j := i; j < i+span; j++ {
			claimed[j] = true
		}

		refs = append(refs, Reference{
			Offset:  i,
			Index:   idx,
			Name:    entry.Name,
			Class:   entry.Class,
			Package: entry.Package,
		})
	}

	return refs
}
