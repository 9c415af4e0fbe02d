package manifest

import (
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
)

// FileName is the name of the manifest inside an output directory
const FileName = "manifest.json"

// Manifest describes one split run and the files it produced
type Manifest struct {
	Version     string         `json:"version"`   // Schema version (e.g., "1.0")
	Timestamp   time.Time      `json:"timestamp"` // When the split finished
	Input       string         `json:"input"`
	InputBytes  int64          `json:"input_bytes"`
	MaxFileSize int            `json:"max_file_size"`
	Files       []FileEntry    `json:"files"`
	Stats       splitter.Stats `json:"stats"`
}

// FileEntry is one output file, in the order it must be applied
type FileEntry struct {
	Name   string         `json:"name"` // Relative to the manifest directory
	Bytes  int64          `json:"bytes"`
	Chunks int            `json:"chunks"`
	Units  map[string]int `json:"units,omitempty"` // Chunk count per unit type
}

// New creates an empty manifest for input
func New(input string, maxFileSize int) *Manifest {
	return &Manifest{
		Version:     "1.0",
		Timestamp:   time.Now(),
		Input:       input,
		MaxFileSize: maxFileSize,
	}
}

// TotalBytes sums the size of all files
func (m *Manifest) TotalBytes() int64 {
	var total int64
	for _, f := range m.Files {
		total += f.Bytes
	}
	return total
}

// Largest returns the biggest file entry, or nil when there are none
func (m *Manifest) Largest() *FileEntry {
	var largest *FileEntry
	for i := range m.Files {
		if largest == nil || m.Files[i].Bytes > largest.Bytes {
			largest = &m.Files[i]
		}
	}
	return largest
}

// OverBudget returns the files larger than MaxFileSize
func (m *Manifest) OverBudget() []FileEntry {
	var over []FileEntry
	for _, f := range m.Files {
		if f.Bytes > int64(m.MaxFileSize) {
			over = append(over, f)
		}
	}
	return over
}
