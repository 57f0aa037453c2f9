package outdir

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// ExtractionMarker represents the extraction completion marker
type ExtractionMarker struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Files     int       `json:"files"`
}

// IsComplete checks if an output directory holds a finished extraction of
// source
func IsComplete(path, source string) bool {
	markerPath := filepath.Join(path, ".extraction.complete")

	// Check if marker exists
	data, err := os.ReadFile(markerPath)
	if err != nil {
		return false
	}

	// Parse marker
	var marker ExtractionMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return false
	}

	// Validate marker matches the current source
	if marker.Source != source {
		return false
	}

	return marker.Files > 0
}

// MarkComplete marks an output directory as extraction complete
func MarkComplete(path, source string, files int) error {
	markerPath := filepath.Join(path, ".extraction.complete")

	marker := ExtractionMarker{
		Timestamp: time.Now(),
		Source:    source,
		Files:     files,
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}

	// Remove incomplete marker if it exists
	os.Remove(filepath.Join(path, ".extraction.incomplete"))

	return os.WriteFile(markerPath, data, 0644)
}

// MarkIncomplete marks an output directory as incomplete (failed extraction)
func MarkIncomplete(path string, reason string) error {
	markerPath := filepath.Join(path, ".extraction.incomplete")

	marker := map[string]interface{}{
		"timestamp": time.Now(),
		"reason":    reason,
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}

	// Remove complete marker if it exists
	os.Remove(filepath.Join(path, ".extraction.complete"))

	return os.WriteFile(markerPath, data, 0644)
}

// Clean removes extraction markers from an output directory
func Clean(path string) error {
	os.Remove(filepath.Join(path, ".extraction.incomplete"))
	os.Remove(filepath.Join(path, ".extraction.complete"))
	return nil
}
