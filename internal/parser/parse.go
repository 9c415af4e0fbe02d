package parser

import (
	"fmt"
	"io"
	"os"
)

// ParsedSQL is a fully parsed dump: every unit in input order, End excluded.
type ParsedSQL struct {
	Path  string
	Units []Unit
}

// Bytes reassembles the parsed input.
func (p *ParsedSQL) Bytes() []byte {
	var out []byte
	for _, u := range p.Units {
		out = append(out, u.Bytes...)
	}
	return out
}

// CountByType returns the number of units of the given type.
func (p *ParsedSQL) CountByType(ut UnitType) int {
	n := 0
	for _, u := range p.Units {
		if u.Type == ut {
			n++
		}
	}
	return n
}

// ParseFile parses the dump at path into memory. Intended for fragments and
// tests; large dumps should be streamed through Parser.Next instead.
func ParseFile(path string) (*ParsedSQL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	parsed, err := ParseAll(f)
	if err != nil {
		return nil, err
	}
	parsed.Path = path
	return parsed, nil
}

// ParseAll parses every unit of src.
func ParseAll(src io.Reader) (*ParsedSQL, error) {
	p := NewParserFromReader(src)
	parsed := &ParsedSQL{}
	for {
		u, err := p.Next()
		if err != nil {
			return nil, err
		}
		if u.Type == End {
			return parsed, nil
		}
		parsed.Units = append(parsed.Units, u)
	}
}
