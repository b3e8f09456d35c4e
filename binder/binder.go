// Package binder holds the unsafe-context check performed while binding
// pointer operations. It illustrates the diagnostic suppression protocol used
// across the compiler: report through a sink and tell the caller whether a
// diagnostic was, or would have been, produced.
package binder

import (
	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/diagnostic"
)

// Flags describe the binding context.
type Flags uint32

const (
	// UnsafeRegion is set inside an unsafe type, member or block.
	UnsafeRegion Flags = 1 << iota
	// SuppressUnsafeDiagnostics is set while rebinding code whose unsafe
	// diagnostics were already reported.
	SuppressUnsafeDiagnostics
	// InIterator is set inside an iterator body, which is always a safe
	// context.
	InIterator
)

// Includes reports whether all bits of other are set.
func (f Flags) Includes(other Flags) bool {
	return f&other == other
}

// InUnsafeRegion reports whether binding happens inside an unsafe region. It
// does not imply that the compilation allows unsafe code.
func (f Flags) InUnsafeRegion() bool {
	return f.Includes(UnsafeRegion)
}

// ReportUnsafeIfNotAllowed reports a diagnostic when an unsafe construct at
// loc is used outside an unsafe context. sizeOfType is the operand of a
// sizeof expression, or nil. It returns true if a diagnostic was reported, or
// would have been without SuppressUnsafeDiagnostics.
func ReportUnsafeIfNotAllowed(flags Flags, loc diagnostic.Location, sizeOfType peemit.TypeReference, sink diagnostic.Sink) bool {
	d, ok := unsafeDiagnostic(flags, loc, sizeOfType)
	if !ok {
		return false
	}
	if !flags.Includes(SuppressUnsafeDiagnostics) {
		sink.Add(d)
	}
	return true
}

func unsafeDiagnostic(flags Flags, loc diagnostic.Location, sizeOfType peemit.TypeReference) (diagnostic.Diagnostic, bool) {
	switch {
	case flags.Includes(InIterator):
		return diagnostic.New(diagnostic.ErrIllegalInnerUnsafe, loc), true
	case !flags.InUnsafeRegion():
		if sizeOfType != nil {
			return diagnostic.New(diagnostic.ErrSizeofUnsafe, loc, sizeOfType.FullName()), true
		}
		return diagnostic.New(diagnostic.ErrUnsafeNeeded, loc), true
	default:
		return diagnostic.Diagnostic{}, false
	}
}
