package blob

import (
	"sync"

	"github.com/wippyai/pe-emit/internal/binary"
)

type heapEntry struct {
	data   Immutable
	offset uint32
}

// Heap is a content-addressed blob stream. Identical content is stored once
// and every Add of it returns the same offset. Safe for concurrent use.
//
// The layout follows the metadata #Blob stream: offset 0 holds the empty blob
// and each entry is prefixed with its compressed length.
type Heap struct {
	buckets map[uint32][]heapEntry
	w       *binary.Writer
	mu      sync.Mutex
}

// NewHeap creates a heap containing only the empty blob.
func NewHeap() *Heap {
	w := binary.NewWriter()
	w.Byte(0)
	return &Heap{
		buckets: make(map[uint32][]heapEntry),
		w:       w,
	}
}

// Add stores s if its content is not already present and returns its offset.
// Empty sequences map to offset 0. Adding an undefined sequence panics.
func (h *Heap) Add(s Sequence) uint32 {
	key := Hash(s)
	if len(s.Bytes()) == 0 {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.buckets[key] {
		if Equals(e.data, s) {
			return e.offset
		}
	}

	offset := uint32(h.w.Len())
	data := Of(s.Bytes())
	h.w.WriteCompressedU32(uint32(data.Len()))
	h.w.WriteBytes(data.Bytes())
	h.buckets[key] = append(h.buckets[key], heapEntry{data: data, offset: offset})
	return offset
}

// Len returns the unpadded stream size.
func (h *Heap) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w.Len()
}

// Bytes returns a copy of the stream padded to a four-byte boundary.
func (h *Heap) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]byte, (h.w.Len()+3)&^3)
	copy(out, h.w.Bytes())
	return out
}
