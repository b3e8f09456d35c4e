package peemit

// TypeReference refers to a type definition or type import in the output module.
type TypeReference interface {
	// FullName returns the namespace-qualified name. Two references with the
	// same FullName denote the same type.
	FullName() string
}

// NamedArgument is a field or property assignment in a custom attribute blob.
type NamedArgument struct {
	Value any
	Name  string
}

// CustomAttribute is a custom attribute applied to a symbol.
type CustomAttribute interface {
	AttributeType() TypeReference
	Arguments() []any
	NamedArguments() []NamedArgument
}

// NamedType is a TypeReference identified only by name. Front ends use it for
// well-known types that have no symbol of their own.
type NamedType string

// FullName implements TypeReference.
func (t NamedType) FullName() string { return string(t) }

// SameType reports whether two references denote the same type. Two nil
// references are equal.
func SameType(a, b TypeReference) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.FullName() == b.FullName()
}
