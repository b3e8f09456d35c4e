package nopia

import (
	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/diagnostic"
)

// Symbol is a front-end symbol handle. It must be comparable; pointers and
// integer handles both work.
type Symbol = any

// SymbolKind is the kind of an embeddable symbol.
type SymbolKind uint8

const (
	KindUnknown SymbolKind = iota
	KindType
	KindMethod
	KindField
	KindEvent
	KindProperty
)

func (k SymbolKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindEvent:
		return "event"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Visibility is a type member's accessibility.
type Visibility uint8

const (
	VisibilityDefault Visibility = iota
	VisibilityPrivate
	VisibilityFamilyAndAssembly
	VisibilityAssembly
	VisibilityFamily
	VisibilityFamilyOrAssembly
	VisibilityPublic
)

// CallingConvention is a signature calling convention byte.
type CallingConvention uint8

const (
	CallingConventionDefault      CallingConvention = 0x00
	CallingConventionVarArgs      CallingConvention = 0x05
	CallingConventionGeneric      CallingConvention = 0x10
	CallingConventionHasThis      CallingConvention = 0x20
	CallingConventionExplicitThis CallingConvention = 0x40
)

// MemberFlags are metadata flags carried over from the underlying symbol.
type MemberFlags uint8

const (
	FlagSpecialName MemberFlags = 1 << iota
	FlagRuntimeSpecial
)

// CustomModifier is a modopt/modreq on a signature element.
type CustomModifier struct {
	Modifier peemit.TypeReference
	Optional bool
}

// Parameter describes one signature parameter.
type Parameter struct {
	Symbol    Symbol
	Type      peemit.TypeReference
	Name      string
	Modifiers []CustomModifier
	IsByRef   bool
}

// Signature describes a method or property signature.
type Signature struct {
	ReturnType        peemit.TypeReference
	Parameters        []Parameter
	ReturnModifiers   []CustomModifier
	CallingConvention CallingConvention
	ReturnByRef       bool
}

// TypeIdentity is the identity metadata carried by an interop type: its GUID
// when it has one, plus a scope and a fully qualified name.
type TypeIdentity struct {
	GUID  string
	Scope string
	Name  string
}

// Context is the emission context used to resolve type references lazily.
type Context struct {
	// Module is the target module handle.
	Module any

	// SyntaxNode is the syntax position that triggered the reference, if any.
	SyntaxNode any

	// Diagnostics receives problems found while resolving references.
	Diagnostics diagnostic.Sink
}

// Adapter exposes the capabilities the engine needs from a front-end symbol
// model.
type Adapter interface {
	Kind(sym Symbol) SymbolKind
	Name(sym Symbol) string
	Visibility(sym Symbol) Visibility
	Flags(sym Symbol) MemberFlags
	// ContainingType returns the declaring type of a member or nested type,
	// or nil for a top-level type.
	ContainingType(sym Symbol) Symbol
	// Signature returns the signature of a method or property.
	Signature(sym Symbol) Signature
	// Accessors returns the getter and setter of a property, or the adder
	// and remover of an event. Either may be nil.
	Accessors(sym Symbol) (Symbol, Symbol)
	// TypeIdentity returns the identity metadata of a type.
	TypeIdentity(sym Symbol) TypeIdentity
	// ResolveType returns the type of a field, property or event, or the
	// reference to a type itself, as seen from ctx.
	ResolveType(sym Symbol, ctx *Context) peemit.TypeReference
}
