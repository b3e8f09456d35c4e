package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase names the emission component that raised an error.
type Phase string

const (
	PhaseRegion   Phase = "region"
	PhaseResource Phase = "resource"
	PhaseSecurity Phase = "security"
	PhaseEmbed    Phase = "embed"
	PhaseBlob     Phase = "blob"
	PhaseFatal    Phase = "fatal"
	PhaseEmit     Phase = "emit"
	PhaseConfig   Phase = "config"
)

// Kind is the error category.
type Kind string

const (
	KindContractViolation Kind = "contract_violation"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidInput      Kind = "invalid_input"
	KindUnsupported       Kind = "unsupported"
	KindDuplicate         Kind = "duplicate"
	KindFileRead          Kind = "file_read"
	KindOverflow          Kind = "overflow"
)

// Error is the structured error returned and panicked by emission packages.
// Two errors match under errors.Is when phase and kind agree.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Symbol string
	Detail string
	Path   []string
}

// Error renders "phase: kind [path] symbol: detail: cause", omitting empty
// parts.
func (e *Error) Error() string {
	parts := []string{string(e.Phase) + ": " + string(e.Kind)}
	if len(e.Path) > 0 {
		parts[0] += " [" + strings.Join(e.Path, "/") + "]"
	}
	if e.Symbol != "" {
		parts[0] += " " + e.Symbol
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by phase and kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Phase == e.Phase && t.Kind == e.Kind
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// InvalidData reports malformed input bytes at path.
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidData, Path: path, Detail: detail}
}

// Unsupported reports a feature the emission layer does not provide.
func Unsupported(phase Phase, feature string) *Error {
	return &Error{Phase: phase, Kind: KindUnsupported, Detail: feature + " is not supported"}
}

// Duplicate reports an entry whose identity is already present at path.
func Duplicate(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindDuplicate, Path: path, Detail: detail}
}

// FileRead reports a file that could not be read. Value holds the path.
func FileRead(phase Phase, path string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFileRead,
		Value:  path,
		Detail: fmt.Sprintf("read %s", path),
		Cause:  cause,
	}
}

// Wrap attaches a phase, kind and detail to cause.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Detail: detail, Cause: cause}
}
