// Package diagnostic defines the user-facing diagnostics reported by the
// emission layer and a concurrent bag that collects them.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Code identifies a diagnostic.
type Code int

const (
	ErrUnsafeNeeded                        Code = 214
	ErrIllegalUnsafe                       Code = 227
	ErrSizeofUnsafe                        Code = 233
	ErrIllegalInnerUnsafe                  Code = 1629
	ErrPermissionSetAttributeFileReadError Code = 7057
	ErrDuplicateWin32Resource              Code = 7058
)

var messages = map[Code]string{
	ErrUnsafeNeeded:                        "pointers and fixed size buffers may only be used in an unsafe context",
	ErrIllegalUnsafe:                       "unsafe code may only appear if compiling with allow_unsafe",
	ErrSizeofUnsafe:                        "'%v' does not have a predefined size, therefore sizeof can only be used in an unsafe context",
	ErrIllegalInnerUnsafe:                  "unsafe code may not appear in iterators",
	ErrPermissionSetAttributeFileReadError: "error reading file '%v' specified for the named argument '%v' for PermissionSet attribute: '%v'",
	ErrDuplicateWin32Resource:              "duplicate win32 resource %v",
}

// String returns the compiler-style identifier, e.g. "CS0214".
func (c Code) String() string {
	return fmt.Sprintf("CS%04d", int(c))
}

// Location is a source span. The zero value means "no location".
type Location struct {
	Path   string
	Line   int
	Column int
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) String() string {
	if l.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s(%d,%d)", l.Path, l.Line, l.Column)
}

// Diagnostic is one reported error.
type Diagnostic struct {
	Args     []any
	Location Location
	Code     Code
}

// New creates a diagnostic.
func New(code Code, loc Location, args ...any) Diagnostic {
	return Diagnostic{Code: code, Location: loc, Args: args}
}

// Message formats the diagnostic text.
func (d Diagnostic) Message() string {
	format, ok := messages[d.Code]
	if !ok {
		return fmt.Sprint(d.Args...)
	}
	if strings.Contains(format, "%") {
		return fmt.Sprintf(format, d.Args...)
	}
	return format
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: error %s: %s", d.Location, d.Code, d.Message())
}

// Sink accepts diagnostics.
type Sink interface {
	Add(d Diagnostic)
}

// Bag collects diagnostics in report order. Safe for concurrent use.
type Bag struct {
	items []Diagnostic
	mu    sync.Mutex
}

// Add implements Sink.
func (b *Bag) Add(d Diagnostic) {
	b.mu.Lock()
	b.items = append(b.items, d)
	b.mu.Unlock()
}

// Len returns the number of diagnostics.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the diagnostics in report order.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Sorted returns the diagnostics ordered by location, then code. Concurrent
// reporters add in nondeterministic order; Sorted gives stable output.
func (b *Bag) Sorted() []Diagnostic {
	out := b.Items()
	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i].Location, out[j].Location
		if a.Path != c.Path {
			return a.Path < c.Path
		}
		if a.Line != c.Line {
			return a.Line < c.Line
		}
		if a.Column != c.Column {
			return a.Column < c.Column
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// HasErrors reports whether any diagnostic was added.
func (b *Bag) HasErrors() bool {
	return b.Len() > 0
}
