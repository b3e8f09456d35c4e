package errors

import "fmt"

// Violation builds a contract violation error. Callers panic with it.
func Violation(phase Phase, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindContractViolation,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Assert panics with a contract violation when cond is false.
func Assert(cond bool, phase Phase, format string, args ...any) {
	if !cond {
		panic(Violation(phase, format, args...))
	}
}

// IsViolation reports whether v (an error or a recovered panic value) is a
// contract violation.
func IsViolation(v any) bool {
	e, ok := v.(*Error)
	return ok && e.Kind == KindContractViolation
}
