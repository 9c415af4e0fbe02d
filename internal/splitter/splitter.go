// Package splitter turns a stream of statement units into output chunks that
// keep every output file independently executable.
package splitter

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlsplit/internal/parser"
)

// Chunk is the next piece of output. NewFile is set on the first chunk of
// every output file; the chunks that follow belong to the same file until
// the next chunk with NewFile set.
type Chunk struct {
	NewFile bool
	Bytes   []byte
	Unit    parser.UnitType
}

// UnitSource yields statement units. *parser.Parser satisfies it.
type UnitSource interface {
	Next() (parser.Unit, error)
}

// Stats summarises a split run so far.
type Stats struct {
	Units       int   `json:"units"`     // Statement units consumed, End excluded
	Chunks      int   `json:"chunks"`    // Chunks emitted
	Files       int   `json:"files"`     // Output files started
	Bytes       int64 `json:"bytes"`     // Bytes emitted, replayed prefixes included
	Replays     int   `json:"replays"`   // INSERT prefixes replayed at the top of a file
	Rewrites    int   `json:"rewrites"`  // Trailing , rewritten to ; to close a file
	Oversized   int   `json:"oversized"` // Units that alone met or exceeded the budget
	LargestUnit int   `json:"largest_unit"`
}

// Splitter decides, per unit, whether output continues in the current file
// or a new one begins, and which bytes to prepend or rewrite so that every
// file stays valid SQL.
//
// The budget is soft: a unit is never divided, so a file may exceed
// maxFileSize by at most the length of its last unit.
type Splitter struct {
	src         UnitSource
	maxFileSize int

	total      int    // Bytes in the current file; 0 means the next chunk opens a file
	lastPrefix []byte // Prefix of the most recent INSERT

	// insertOpen is set while the last INSERT or tuple ended with a comma,
	// i.e. more tuples of the same statement are expected.
	insertOpen bool
	// reopen is set after a trailing comma was rewritten to close a file;
	// the next tuple must replay lastPrefix.
	reopen bool

	done  bool
	stats Stats
}

// New returns a Splitter reading units from src. maxFileSize must be positive.
func New(src UnitSource, maxFileSize int) (*Splitter, error) {
	if maxFileSize < 1 {
		return nil, fmt.Errorf("max file size must be at least 1 byte, got %d", maxFileSize)
	}
	return &Splitter{
		src:         src,
		maxFileSize: maxFileSize,
	}, nil
}

// Next returns the next chunk. It returns io.EOF once the input is
// exhausted and on every call after that. Any other error is fatal.
func (s *Splitter) Next() (Chunk, error) {
	if s.done {
		return Chunk{}, io.EOF
	}

	unit, err := s.src.Next()
	if err != nil {
		return Chunk{}, err
	}

	starting := s.total

	switch unit.Type {
	case parser.End:
		s.done = true
		return Chunk{}, io.EOF

	case parser.Insert:
		s.lastPrefix = unit.Prefix
		s.reopen = false
		out := s.closeIfFull(copyBytes(unit.Bytes), starting)
		s.insertOpen = lastByte(out) == ','
		return s.send(unit, out, starting, true), nil

	case parser.ValuesTuple:
		var out []byte
		if starting == 0 || s.reopen {
			out = make([]byte, 0, len(s.lastPrefix)+unit.Len())
			out = append(out, s.lastPrefix...)
			s.stats.Replays++
			s.reopen = false
		}
		out = append(out, unit.Bytes...)
		out = s.closeIfFull(out, starting)
		s.insertOpen = lastByte(out) == ','
		return s.send(unit, out, starting, true), nil

	case parser.Block:
		s.insertOpen = false
		s.reopen = false
		return s.send(unit, unit.Bytes, starting, true), nil

	case parser.CommentUnit, parser.Whitespace:
		if s.reopen && starting == 0 {
			// The next file has to open with the replayed prefix, so gaps
			// between rows stay with the file that was just closed.
			return s.trail(unit), nil
		}
		// Cutting here would leave the open INSERT dangling at the end of
		// the file, so the rollover waits for the tuple that closes it.
		return s.send(unit, unit.Bytes, starting, !s.insertOpen), nil

	default:
		return Chunk{}, fmt.Errorf("unhandled unit type %v", unit.Type)
	}
}

// Stats returns counters for the chunks emitted so far.
func (s *Splitter) Stats() Stats {
	return s.stats
}

// closeIfFull rewrites a trailing comma to a semicolon when out fills the
// current file, so the file ends on a complete statement.
func (s *Splitter) closeIfFull(out []byte, starting int) []byte {
	if !s.reachedLimit(starting+len(out)) || lastByte(out) != ',' {
		return out
	}
	out[len(out)-1] = ';'
	s.reopen = true
	s.stats.Rewrites++
	return out
}

func (s *Splitter) send(unit parser.Unit, out []byte, starting int, mayRollover bool) Chunk {
	s.total += len(out)
	if mayRollover && s.reachedLimit(s.total) {
		s.total = 0
	}

	s.count(unit, out)
	if starting == 0 {
		s.stats.Files++
	}
	return Chunk{NewFile: starting == 0, Bytes: out, Unit: unit.Type}
}

// trail appends unit to the file that was just closed without opening the
// next one; s.total stays 0.
func (s *Splitter) trail(unit parser.Unit) Chunk {
	s.count(unit, unit.Bytes)
	return Chunk{Bytes: unit.Bytes, Unit: unit.Type}
}

func (s *Splitter) count(unit parser.Unit, out []byte) {
	s.stats.Units++
	s.stats.Chunks++
	s.stats.Bytes += int64(len(out))
	if unit.Len() > s.stats.LargestUnit {
		s.stats.LargestUnit = unit.Len()
	}
	if s.reachedLimit(unit.Len()) {
		s.stats.Oversized++
	}
}

func (s *Splitter) reachedLimit(total int) bool {
	return total >= s.maxFileSize
}

func lastByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1]
}

func copyBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
