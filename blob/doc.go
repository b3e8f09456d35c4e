// Package blob implements content-based identity for byte sequences.
//
// Two container kinds are supported: Array, a plain byte slice where nil means
// "never allocated", and Immutable, a read-only sequence produced by a Builder
// or Of. Equality and hashing depend only on content, so the same bytes held
// by either container compare equal and hash identically:
//
//	a := blob.Array{1, 2, 3}
//	b := blob.Of([]byte{1, 2, 3})
//	blob.Equals(a, b)            // true
//	blob.Hash(a) == blob.Hash(b) // true
//
// Undefined sequences never compare equal, not even to each other. Hashing an
// undefined sequence is a contract violation and panics.
//
// Heap builds on this identity to deduplicate blobs for the metadata #Blob
// stream.
package blob
