package blob

import (
	"hash/fnv"

	"github.com/wippyai/pe-emit/errors"
)

// Sequence is a byte container compared by content.
type Sequence interface {
	// Bytes returns a read-only view of the content.
	Bytes() []byte
	// Defined reports whether the sequence was ever allocated.
	Defined() bool
}

// Array is a fixed byte array. A nil Array is undefined.
type Array []byte

// Bytes implements Sequence.
func (a Array) Bytes() []byte { return a }

// Defined implements Sequence.
func (a Array) Defined() bool { return a != nil }

// Immutable is a read-only byte sequence. The zero value is undefined.
type Immutable struct {
	data    []byte
	defined bool
}

// Of returns an Immutable holding a copy of b. A nil b yields an undefined
// sequence.
func Of(b []byte) Immutable {
	if b == nil {
		return Immutable{}
	}
	c := make([]byte, len(b))
	copy(c, b)
	return Immutable{data: c, defined: true}
}

// Bytes implements Sequence. Callers must not modify the result.
func (s Immutable) Bytes() []byte { return s.data }

// Defined implements Sequence.
func (s Immutable) Defined() bool { return s.defined }

// Len returns the number of bytes.
func (s Immutable) Len() int { return len(s.data) }

// At returns the byte at index i.
func (s Immutable) At(i int) byte { return s.data[i] }

// Builder accumulates bytes and freezes them into an Immutable.
type Builder struct {
	buf []byte
}

// Append adds bytes to the builder.
func (b *Builder) Append(p ...byte) {
	b.buf = append(b.buf, p...)
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int { return len(b.buf) }

// ToImmutable returns the accumulated bytes as a defined Immutable and resets
// the builder. The builder's storage is handed over, not copied.
func (b *Builder) ToImmutable() Immutable {
	data := b.buf
	if data == nil {
		data = []byte{}
	}
	b.buf = nil
	return Immutable{data: data, defined: true}
}

// Equals reports whether a and b hold the same bytes. Sequences sharing the
// same backing storage are equal without a byte comparison. Undefined
// sequences are never equal to anything.
func Equals(a, b Sequence) bool {
	if a == nil || b == nil || !a.Defined() || !b.Defined() {
		return false
	}
	x, y := a.Bytes(), b.Bytes()
	if len(x) != len(y) {
		return false
	}
	if len(x) == 0 || &x[0] == &y[0] {
		return true
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Hash returns the 32-bit FNV-1a hash of the sequence content. It panics if
// the sequence is undefined.
func Hash(s Sequence) uint32 {
	errors.Assert(s != nil && s.Defined(), errors.PhaseBlob, "hash of undefined byte sequence")
	h := fnv.New32a()
	h.Write(s.Bytes())
	return h.Sum32()
}
