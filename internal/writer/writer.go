// Package writer persists splitter chunks as numbered SQL files.
package writer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cybertec-postgresql/sqlsplit/internal/manifest"
	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
)

// FileName returns the name of the n-th output file, counting from 1
func FileName(n int) string {
	return fmt.Sprintf("%d.sql", n)
}

// FileWriter writes chunks into dir/1.sql, dir/2.sql, ... starting a new
// file on every chunk with NewFile set.
type FileWriter struct {
	dir   string
	f     *os.File
	w     *bufio.Writer
	files []manifest.FileEntry
}

// NewFileWriter returns a writer for dir. The directory is created with
// the first file, so input that yields no chunks leaves nothing behind.
func NewFileWriter(dir string) (*FileWriter, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	return &FileWriter{dir: dir}, nil
}

// Write appends one chunk to the current file or opens the next one
func (fw *FileWriter) Write(c splitter.Chunk) error {
	if c.NewFile {
		if err := fw.closeCurrent(); err != nil {
			return err
		}
		if err := fw.open(); err != nil {
			return err
		}
	}
	if fw.w == nil {
		return fmt.Errorf("chunk received before any file was started")
	}

	if _, err := fw.w.Write(c.Bytes); err != nil {
		return fmt.Errorf("failed to write %s: %w", fw.current().Name, err)
	}
	entry := fw.current()
	entry.Bytes += int64(len(c.Bytes))
	entry.Chunks++
	entry.Units[c.Unit.String()]++
	return nil
}

// Close flushes and closes the last file
func (fw *FileWriter) Close() error {
	return fw.closeCurrent()
}

// Files returns an entry per file written so far, in order
func (fw *FileWriter) Files() []manifest.FileEntry {
	return fw.files
}

// Dir returns the output directory
func (fw *FileWriter) Dir() string {
	return fw.dir
}

func (fw *FileWriter) open() error {
	if len(fw.files) == 0 {
		if err := os.MkdirAll(fw.dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", fw.dir, err)
		}
	}
	name := FileName(len(fw.files) + 1)
	f, err := os.Create(filepath.Join(fw.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	fw.f = f
	fw.w = bufio.NewWriter(f)
	fw.files = append(fw.files, manifest.FileEntry{Name: name, Units: make(map[string]int)})
	return nil
}

func (fw *FileWriter) current() *manifest.FileEntry {
	return &fw.files[len(fw.files)-1]
}

func (fw *FileWriter) closeCurrent() error {
	if fw.f == nil {
		return nil
	}
	name := fw.f.Name()
	flushErr := fw.w.Flush()
	closeErr := fw.f.Close()
	fw.f, fw.w = nil, nil
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", name, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", name, closeErr)
	}
	return nil
}
