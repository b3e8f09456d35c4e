package errors

import "fmt"

// Builder assembles an Error field by field.
//
//	errors.New(errors.PhaseResource, errors.KindOverflow).
//		Path("#16", "#1").
//		Value(id).
//		Detail("ordinal %d does not fit in 16 bits", id).
//		Build()
type Builder struct {
	e *Error
}

// New starts an Error of the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{e: &Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Path(path ...string) *Builder {
	b.e.Path = path
	return b
}

func (b *Builder) Symbol(name string) *Builder {
	b.e.Symbol = name
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.e.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.e.Cause = err
	return b
}

// Detail sets the message; args, when present, format it.
func (b *Builder) Detail(format string, args ...any) *Builder {
	if len(args) == 0 {
		b.e.Detail = format
		return b
	}
	b.e.Detail = fmt.Sprintf(format, args...)
	return b
}

// Build returns the assembled error. The builder must not be reused.
func (b *Builder) Build() *Error {
	return b.e
}
