// Package pkgfile defines the capability surface this module needs from a
// structured Unreal package reader. Building the typed object graph is the
// external reader's job; the core only ever asks it for an export's raw byte
// range and for the name/class behind a reference index. Keeping this an
// explicit interface replaces the original tooling's reflection into the
// reader's private internals.
package pkgfile

import (
	"github.com/l2terrain/l2extract/pkg/unreal/refscan"
)

// ObjectInfo is the resolved identity of one import or export table entry.
type ObjectInfo struct {
	Name    string `json:"name"`
	Class   string `json:"class"`
	Package string `json:"package,omitempty"`
}

// Source is the structured reader's capability surface. Exports and Imports
// return the package's tables in file order; ByteRange returns the raw
// serialized span of the 1-based export n within the decrypted package bytes.
type Source interface {
	Exports() []ObjectInfo
	Imports() []ObjectInfo
	ByteRange(exportIndex int) (offset, length int, err error)
}

// Opener constructs a Source over already-decrypted package bytes. The
// cross-file cache borrows the external reader through this hook.
type Opener func(path string, plaintext []byte) (Source, error)

// ReferenceTable builds the scanner's lookup table from a package's import
// and export tables. Exports are keyed at +n, imports at -n, both 1-based;
// zero is reserved for "no reference" and never appears.
func ReferenceTable(src Source) refscan.Table {
	imports := src.Imports()
	exports := src.Exports()
	table := make(refscan.Table, len(imports)+len(exports))

	for i, imp := range imports {
		table[-(i + 1)] = refscan.Entry{Name: imp.Name, Class: imp.Class, Package: imp.Package}
	}
	for i, exp := range exports {
		table[i+1] = refscan.Entry{Name: exp.Name, Class: exp.Class, Package: exp.Package}
	}
	return table
}

// FindExport returns the 1-based index of the first export with the given
// class name, or 0 if the package has none.
func FindExport(src Source, class string) int {
	for i, exp := range src.Exports() {
		if exp.Class == class {
			return i + 1
		}
	}
	return 0
}
