// Package reader exposes a byte source as a cursor with one and two byte lookahead.
package reader

import (
	"bufio"
	"errors"
	"io"
)

// DefaultBufferSize is the size of the block buffer refilled from the source.
const DefaultBufferSize = 8 * 1024

// Reader is a buffered cursor over a byte source.
//
// End of input is reported through the boolean result of Get, Peek and
// PeekNext, never through a byte value, so zero bytes in the input are
// ordinary data. A failed read is sticky: every call after it reports end
// of input and Err returns the failure.
type Reader struct {
	buf    *bufio.Reader
	offset int64
	err    error
}

// NewReader returns a Reader with the default block size.
func NewReader(r io.Reader) *Reader {
	return NewReaderSize(r, DefaultBufferSize)
}

// NewReaderSize returns a Reader whose block buffer holds at least size bytes.
func NewReaderSize(r io.Reader, size int) *Reader {
	return &Reader{buf: bufio.NewReaderSize(r, size)}
}

// Get returns the byte at the cursor and advances past it.
func (r *Reader) Get() (byte, bool) {
	if r.err != nil {
		return 0, false
	}
	b, err := r.buf.ReadByte()
	if err != nil {
		r.fail(err)
		return 0, false
	}
	r.offset++
	return b, true
}

// Peek returns the byte at the cursor without advancing.
func (r *Reader) Peek() (byte, bool) {
	return r.peekAt(0)
}

// PeekNext returns the byte one past the cursor without advancing.
func (r *Reader) PeekNext() (byte, bool) {
	return r.peekAt(1)
}

// Skip advances the cursor by one byte. It is a no-op at end of input.
func (r *Reader) Skip() {
	if r.err != nil {
		return
	}
	n, err := r.buf.Discard(1)
	r.offset += int64(n)
	if err != nil {
		r.fail(err)
	}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Err returns the read failure that ended the input, or nil when the
// source was simply exhausted.
func (r *Reader) Err() error {
	if errors.Is(r.err, io.EOF) {
		return nil
	}
	return r.err
}

func (r *Reader) peekAt(i int) (byte, bool) {
	if r.err != nil {
		return 0, false
	}
	p, err := r.buf.Peek(i + 1)
	if len(p) > i {
		return p[i], true
	}
	// A short peek at end of input only means the lookahead is past the end;
	// the bytes before it remain readable, so EOF is not recorded here.
	if err != nil && !errors.Is(err, io.EOF) {
		r.fail(err)
	}
	return 0, false
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}
