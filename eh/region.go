package eh

import (
	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/errors"
)

// Kind is the handler kind of a region.
type Kind uint8

const (
	KindFinally Kind = iota
	KindFault
	KindCatch
	KindFilter
)

func (k Kind) String() string {
	switch k {
	case KindFinally:
		return "finally"
	case KindFault:
		return "fault"
	case KindCatch:
		return "catch"
	case KindFilter:
		return "filter"
	default:
		return "unknown"
	}
}

// AnyObject is the exception type implied by filter regions.
var AnyObject peemit.TypeReference = peemit.NamedType("System.Object")

// Region is one exception handler clause of a method body. Offsets are byte
// offsets into the method's instruction stream.
type Region struct {
	exceptionType peemit.TypeReference
	tryStart      uint32
	tryEnd        uint32
	handlerStart  uint32
	handlerEnd    uint32
	filterStart   uint32
	kind          Kind
}

func newRegion(kind Kind, tryStart, tryEnd, handlerStart, handlerEnd uint32) Region {
	errors.Assert(tryStart < tryEnd, errors.PhaseRegion,
		"try start %d must precede try end %d", tryStart, tryEnd)
	errors.Assert(tryEnd <= handlerStart, errors.PhaseRegion,
		"try end %d must not follow handler start %d", tryEnd, handlerStart)
	errors.Assert(handlerStart < handlerEnd, errors.PhaseRegion,
		"handler start %d must precede handler end %d", handlerStart, handlerEnd)

	return Region{
		kind:         kind,
		tryStart:     tryStart,
		tryEnd:       tryEnd,
		handlerStart: handlerStart,
		handlerEnd:   handlerEnd,
	}
}

// NewFinally creates a finally region.
func NewFinally(tryStart, tryEnd, handlerStart, handlerEnd uint32) Region {
	return newRegion(KindFinally, tryStart, tryEnd, handlerStart, handlerEnd)
}

// NewFault creates a fault region.
func NewFault(tryStart, tryEnd, handlerStart, handlerEnd uint32) Region {
	return newRegion(KindFault, tryStart, tryEnd, handlerStart, handlerEnd)
}

// NewCatch creates a catch region for exceptionType, which must not be nil.
func NewCatch(tryStart, tryEnd, handlerStart, handlerEnd uint32, exceptionType peemit.TypeReference) Region {
	errors.Assert(exceptionType != nil, errors.PhaseRegion, "catch region requires an exception type")
	r := newRegion(KindCatch, tryStart, tryEnd, handlerStart, handlerEnd)
	r.exceptionType = exceptionType
	return r
}

// NewFilter creates a filter region whose filter decision block starts at
// filterDecisionStart.
func NewFilter(tryStart, tryEnd, handlerStart, handlerEnd, filterDecisionStart uint32) Region {
	r := newRegion(KindFilter, tryStart, tryEnd, handlerStart, handlerEnd)
	r.filterStart = filterDecisionStart
	return r
}

// Kind returns the handler kind.
func (r Region) Kind() Kind { return r.kind }

// TryStartOffset returns the offset of the first guarded instruction.
func (r Region) TryStartOffset() uint32 { return r.tryStart }

// TryEndOffset returns the offset just past the guarded block.
func (r Region) TryEndOffset() uint32 { return r.tryEnd }

// HandlerStartOffset returns the offset of the first handler instruction.
func (r Region) HandlerStartOffset() uint32 { return r.handlerStart }

// HandlerEndOffset returns the offset just past the handler block.
func (r Region) HandlerEndOffset() uint32 { return r.handlerEnd }

// TryLength returns the size of the guarded block in bytes.
func (r Region) TryLength() uint32 { return r.tryEnd - r.tryStart }

// HandlerLength returns the size of the handler block in bytes.
func (r Region) HandlerLength() uint32 { return r.handlerEnd - r.handlerStart }

// ExceptionType returns the caught type for catch regions and AnyObject for
// filter regions. Finally and fault regions have none.
func (r Region) ExceptionType() peemit.TypeReference {
	switch r.kind {
	case KindCatch:
		return r.exceptionType
	case KindFilter:
		return AnyObject
	default:
		return nil
	}
}

// FilterDecisionStartOffset returns the start of the filter decision block for
// filter regions and 0 for every other kind.
func (r Region) FilterDecisionStartOffset() uint32 {
	if r.kind == KindFilter {
		return r.filterStart
	}
	return 0
}
