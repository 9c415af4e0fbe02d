package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover lists the numbered fragments directly inside dir, ordered by
// index so that 2.sql comes before 10.sql. Subdirectories are not searched.
func Discover(dir string) ([]DiscoveredFile, error) {
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", absRoot)
		}
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []DiscoveredFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ft, index := ClassifyFile(entry.Name())
		if ft != FileTypeFragment {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		files = append(files, DiscoveredFile{
			Path:         filepath.Join(absRoot, entry.Name()),
			RelativePath: entry.Name(),
			Index:        index,
			Size:         fi.Size(),
			ModTime:      fi.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Index < files[j].Index })
	return files, nil
}

// CheckContiguous reports the first gap in the fragment numbering. A split
// directory must hold 1.sql through N.sql with nothing missing.
func CheckContiguous(files []DiscoveredFile) error {
	for i, f := range files {
		if f.Index != i+1 {
			return fmt.Errorf("missing fragment %d.sql (found %s)", i+1, f.RelativePath)
		}
	}
	return nil
}

// Paths returns the absolute paths of files in order
func Paths(files []DiscoveredFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
