package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf16"
)

// ErrTruncated is returned when a read runs past the end of the input.
var ErrTruncated = errors.New("binary: truncated input")

// Reader reads little-endian values from a byte slice with position tracking.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Seek moves to an absolute position.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return r.wrapError(ErrTruncated)
	}
	r.pos = pos
	return nil
}

// ReadBytes reads exactly n bytes. The returned slice aliases the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, r.wrapError(ErrTruncated)
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUTF16Z reads a zero-terminated UTF-16LE string.
func (r *Reader) ReadUTF16Z() (string, error) {
	var units []uint16
	for {
		u, err := r.ReadU16()
		if err != nil {
			return "", err
		}
		if u == 0 {
			return string(utf16.Decode(units)), nil
		}
		units = append(units, u)
	}
}

// Align skips forward until Position is a multiple of n, or to the end.
func (r *Reader) Align(n int) {
	for r.pos%n != 0 && r.pos < len(r.data) {
		r.pos++
	}
}

// EOF reports whether all input has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.data)
}

func (r *Reader) wrapError(err error) error {
	if errors.Is(err, ErrTruncated) && r.pos >= len(r.data) {
		err = fmt.Errorf("%w: %w", err, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("at position %d: %w", r.pos, err)
}
