package discovery

import (
	"path/filepath"
	"strconv"
	"strings"
)

// ClassifyFile determines if a file is a fragment and returns its index
func ClassifyFile(filename string) (FileType, int) {
	lower := strings.ToLower(filename)
	stem, ok := strings.CutSuffix(lower, ".sql")
	if !ok || stem == "" {
		return FileTypeOther, 0
	}

	// Leading zeros or signs would make the order ambiguous
	if stem[0] < '1' || stem[0] > '9' {
		return FileTypeOther, 0
	}
	n, err := strconv.Atoi(stem)
	if err != nil {
		return FileTypeOther, 0
	}
	return FileTypeFragment, n
}

// ClassifyPath determines file type from a full path
func ClassifyPath(path string) (FileType, int) {
	return ClassifyFile(filepath.Base(path))
}

// IsFragment returns true if the file is a numbered fragment
func IsFragment(filename string) bool {
	ft, _ := ClassifyFile(filename)
	return ft == FileTypeFragment
}
