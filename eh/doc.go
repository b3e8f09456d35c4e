// Package eh models the exception handler regions of a compiled method body
// and encodes them into the method-data exception section.
//
// A Region is an immutable tagged value: one of Finally, Fault, Catch (with an
// exception type) or Filter (with a filter decision start offset). Every
// constructor enforces
//
//	tryStart < tryEnd <= handlerStart < handlerEnd
//
// and panics with a contract violation otherwise.
//
// # Encoding
//
// All clauses of one method share one encoding width. The small form stores
// 16-bit offsets and 8-bit lengths; if any region of the method needs more,
// or there are too many regions for a small section header, the whole section
// uses the fat form:
//
//	section, err := eh.EncodeSection(regions, func(t peemit.TypeReference) uint32 {
//	    return tokens[t.FullName()]
//	})
package eh
