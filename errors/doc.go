// Package errors defines the structured error shared by the emission
// packages.
//
// An Error carries the Phase that raised it, a Kind, an optional path into the
// structure being built (resource type and name, option key), the offending
// symbol or value, and a cause. errors.Is matches on phase and kind, so
// callers can test for a category without string matching:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseResource, Kind: errors.KindDuplicate}) {
//		...
//	}
//
// Broken internal invariants (region ordering, accessor signatures, undefined
// byte sequences) panic with a KindContractViolation error created by
// Violation or Assert. IsViolation recognizes such a value after recover.
package errors
