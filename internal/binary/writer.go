package binary

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// Writer provides buffered writing utilities for PE and metadata encoding.
// All fixed-width integers are little-endian.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteU24 writes the low three bytes of v, little-endian.
func (w *Writer) WriteU24(v uint32) {
	w.buf.WriteByte(byte(v))
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v >> 16))
}

// WriteCompressedU32 writes an ECMA-335 compressed unsigned integer
// (1, 2 or 4 bytes, big-endian with a length tag in the high bits).
// Values above 0x1FFFFFFF cannot be represented and panic.
func (w *Writer) WriteCompressedU32(v uint32) {
	switch {
	case v <= 0x7f:
		w.buf.WriteByte(byte(v))
	case v <= 0x3fff:
		w.buf.WriteByte(byte(v>>8) | 0x80)
		w.buf.WriteByte(byte(v))
	case v <= 0x1fffffff:
		w.buf.WriteByte(byte(v>>24) | 0xc0)
		w.buf.WriteByte(byte(v >> 16))
		w.buf.WriteByte(byte(v >> 8))
		w.buf.WriteByte(byte(v))
	default:
		panic("binary: compressed integer out of range")
	}
}

// WriteUTF16Z writes s as UTF-16LE followed by a zero terminator.
func (w *Writer) WriteUTF16Z(s string) {
	for _, u := range utf16.Encode([]rune(s)) {
		w.WriteU16(u)
	}
	w.WriteU16(0)
}

// Align pads with zero bytes until Len is a multiple of n.
func (w *Writer) Align(n int) {
	for w.buf.Len()%n != 0 {
		w.buf.WriteByte(0)
	}
}

// PatchU32 overwrites four already-written bytes at offset.
func (w *Writer) PatchU32(offset int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf.Bytes()[offset:offset+4], v)
}

// CompressedU32Size returns the encoded size of v.
func CompressedU32Size(v uint32) int {
	switch {
	case v <= 0x7f:
		return 1
	case v <= 0x3fff:
		return 2
	default:
		return 4
	}
}
