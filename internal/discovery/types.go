package discovery

import "time"

// DiscoveredFile represents an output fragment found in a split directory
type DiscoveredFile struct {
	Path         string    // Absolute path to file
	RelativePath string    // Path relative to the split directory
	Index        int       // N in N.sql; fragments are applied in ascending order
	Size         int64     // Size in bytes
	ModTime      time.Time // Last modification time
}

// FileType indicates whether a file is a numbered fragment
type FileType int

const (
	FileTypeFragment FileType = iota // Matches N.sql with N >= 1
	FileTypeOther                    // Anything else, including manifest.json
)

// String returns a string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeFragment:
		return "fragment"
	case FileTypeOther:
		return "other"
	default:
		return "unknown"
	}
}
