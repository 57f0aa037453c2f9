package pkgfile

import "fmt"

// Range is a byte span inside a decrypted package.
type Range struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// StaticSource is a Source backed by pre-resolved tables, for tools and
// tests that already hold the structured reader's output as plain data.
type StaticSource struct {
	ExportTable []ObjectInfo  `json:"exports"`
	ImportTable []ObjectInfo  `json:"imports"`
	Ranges      map[int]Range `json:"ranges,omitempty"`
}

// Exports returns the export table in file order.
func (s *StaticSource) Exports() []ObjectInfo { return s.ExportTable }

// Imports returns the import table in file order.
func (s *StaticSource) Imports() []ObjectInfo { return s.ImportTable }

// ByteRange returns the recorded span for the 1-based export index.
func (s *StaticSource) ByteRange(exportIndex int) (offset, length int, err error) {
	r, ok := s.Ranges[exportIndex]
	if !ok {
		return 0, 0, fmt.Errorf("no byte range recorded for export %d", exportIndex)
	}
	return r.Offset, r.Length, nil
}
