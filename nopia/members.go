package nopia

import (
	"slices"
	"strings"
	"sync"

	"github.com/gofrs/uuid"

	peemit "github.com/wippyai/pe-emit"
)

// Identity is the parsed identity of an embedded type.
type Identity struct {
	Scope string
	Name  string
	GUID  uuid.UUID
}

func (id Identity) String() string {
	if id.GUID == uuid.Nil {
		return id.Scope + ":" + id.Name
	}
	return "{" + id.GUID.String() + "} " + id.Name
}

// EmbeddedType is the local definition of an interop type.
type EmbeddedType struct {
	underlying Symbol
	containing *EmbeddedType
	engine     *Engine
	identity   Identity
	name       string

	methods    []*EmbeddedMethod
	fields     []*EmbeddedField
	properties []*EmbeddedProperty
	events     []*EmbeddedEvent
	mu         sync.Mutex

	visibility Visibility
}

// Underlying returns the foreign symbol this type stands in for.
func (t *EmbeddedType) Underlying() Symbol { return t.underlying }

// Name returns the metadata name.
func (t *EmbeddedType) Name() string { return t.name }

// FullName implements peemit.TypeReference.
func (t *EmbeddedType) FullName() string {
	if t.containing != nil {
		return t.containing.FullName() + "/" + t.name
	}
	return t.identity.Name
}

// Visibility returns the type's visibility.
func (t *EmbeddedType) Visibility() Visibility { return t.visibility }

// ContainingType returns the enclosing embedded type of a nested type.
func (t *EmbeddedType) ContainingType() *EmbeddedType { return t.containing }

// Identity returns the identity carried for load-time unification.
func (t *EmbeddedType) Identity() Identity { return t.identity }

// Methods returns the embedded methods ordered by name.
func (t *EmbeddedType) Methods() []*EmbeddedMethod {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedByName(t.methods, (*EmbeddedMethod).Name)
}

// Fields returns the embedded fields ordered by name.
func (t *EmbeddedType) Fields() []*EmbeddedField {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedByName(t.fields, (*EmbeddedField).Name)
}

// Properties returns the embedded properties ordered by name.
func (t *EmbeddedType) Properties() []*EmbeddedProperty {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedByName(t.properties, (*EmbeddedProperty).Name)
}

// Events returns the embedded events ordered by name.
func (t *EmbeddedType) Events() []*EmbeddedEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedByName(t.events, (*EmbeddedEvent).Name)
}

func sortedByName[T any](items []T, name func(T) string) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return strings.Compare(name(a), name(b))
	})
	return out
}

// EmbeddedParameter is a parameter owned by an embedded method or property.
type EmbeddedParameter struct {
	containing any
	param      Parameter
	ordinal    int
}

// ContainingMember returns the owning *EmbeddedMethod or *EmbeddedProperty.
func (p *EmbeddedParameter) ContainingMember() any { return p.containing }

// Underlying returns the front-end parameter symbol.
func (p *EmbeddedParameter) Underlying() Symbol { return p.param.Symbol }

// Name returns the parameter name.
func (p *EmbeddedParameter) Name() string { return p.param.Name }

// Ordinal returns the zero-based position in the signature.
func (p *EmbeddedParameter) Ordinal() int { return p.ordinal }

// Type returns the parameter type.
func (p *EmbeddedParameter) Type() peemit.TypeReference { return p.param.Type }

// IsByRef reports whether the parameter is passed by reference.
func (p *EmbeddedParameter) IsByRef() bool { return p.param.IsByRef }

// CustomModifiers returns the parameter's custom modifiers.
func (p *EmbeddedParameter) CustomModifiers() []CustomModifier { return p.param.Modifiers }

func embedParameters(owner any, params []Parameter) []*EmbeddedParameter {
	out := make([]*EmbeddedParameter, len(params))
	for i, p := range params {
		out[i] = &EmbeddedParameter{containing: owner, param: p, ordinal: i}
	}
	return out
}

// EmbeddedMethod is the local definition of an interop method.
type EmbeddedMethod struct {
	underlying Symbol
	containing *EmbeddedType
	name       string
	signature  Signature
	parameters []*EmbeddedParameter
	visibility Visibility
	flags      MemberFlags
}

// Underlying returns the foreign method symbol.
func (m *EmbeddedMethod) Underlying() Symbol { return m.underlying }

// Name returns the metadata name.
func (m *EmbeddedMethod) Name() string { return m.name }

// ContainingType returns the declaring embedded type.
func (m *EmbeddedMethod) ContainingType() *EmbeddedType { return m.containing }

// Visibility returns the method's visibility.
func (m *EmbeddedMethod) Visibility() Visibility { return m.visibility }

// IsSpecialName reports the specialname flag.
func (m *EmbeddedMethod) IsSpecialName() bool { return m.flags&FlagSpecialName != 0 }

// IsRuntimeSpecial reports the rtspecialname flag.
func (m *EmbeddedMethod) IsRuntimeSpecial() bool { return m.flags&FlagRuntimeSpecial != 0 }

// CallingConvention returns the signature calling convention.
func (m *EmbeddedMethod) CallingConvention() CallingConvention {
	return m.signature.CallingConvention
}

// Parameters returns the embedded parameters.
func (m *EmbeddedMethod) Parameters() []*EmbeddedParameter { return m.parameters }

// ReturnType returns the return type.
func (m *EmbeddedMethod) ReturnType() peemit.TypeReference { return m.signature.ReturnType }

// ReturnValueCustomModifiers returns the return type's custom modifiers.
func (m *EmbeddedMethod) ReturnValueCustomModifiers() []CustomModifier {
	return m.signature.ReturnModifiers
}

// ReturnValueIsByRef reports whether the method returns by reference.
func (m *EmbeddedMethod) ReturnValueIsByRef() bool { return m.signature.ReturnByRef }

// EmbeddedField is the local definition of an interop field.
type EmbeddedField struct {
	underlying Symbol
	containing *EmbeddedType
	engine     *Engine
	name       string
	visibility Visibility
	flags      MemberFlags
}

// Underlying returns the foreign field symbol.
func (f *EmbeddedField) Underlying() Symbol { return f.underlying }

// Name returns the metadata name.
func (f *EmbeddedField) Name() string { return f.name }

// ContainingType returns the declaring embedded type.
func (f *EmbeddedField) ContainingType() *EmbeddedType { return f.containing }

// Visibility returns the field's visibility.
func (f *EmbeddedField) Visibility() Visibility { return f.visibility }

// IsSpecialName reports the specialname flag.
func (f *EmbeddedField) IsSpecialName() bool { return f.flags&FlagSpecialName != 0 }

// IsRuntimeSpecial reports the rtspecialname flag.
func (f *EmbeddedField) IsRuntimeSpecial() bool { return f.flags&FlagRuntimeSpecial != 0 }

// Type resolves the field type in ctx.
func (f *EmbeddedField) Type(ctx *Context) peemit.TypeReference {
	return f.engine.adapter.ResolveType(f.underlying, ctx)
}

// EmbeddedEvent is the local definition of an interop event.
type EmbeddedEvent struct {
	underlying Symbol
	containing *EmbeddedType
	engine     *Engine
	adder      *EmbeddedMethod
	remover    *EmbeddedMethod
	name       string
	visibility Visibility
	flags      MemberFlags
}

// Underlying returns the foreign event symbol.
func (e *EmbeddedEvent) Underlying() Symbol { return e.underlying }

// Name returns the metadata name.
func (e *EmbeddedEvent) Name() string { return e.name }

// ContainingType returns the declaring embedded type.
func (e *EmbeddedEvent) ContainingType() *EmbeddedType { return e.containing }

// Visibility returns the event's visibility.
func (e *EmbeddedEvent) Visibility() Visibility { return e.visibility }

// IsSpecialName reports the specialname flag.
func (e *EmbeddedEvent) IsSpecialName() bool { return e.flags&FlagSpecialName != 0 }

// IsRuntimeSpecial reports the rtspecialname flag.
func (e *EmbeddedEvent) IsRuntimeSpecial() bool { return e.flags&FlagRuntimeSpecial != 0 }

// Adder returns the embedded add accessor, or nil.
func (e *EmbeddedEvent) Adder() *EmbeddedMethod { return e.adder }

// Remover returns the embedded remove accessor, or nil.
func (e *EmbeddedEvent) Remover() *EmbeddedMethod { return e.remover }

// Type resolves the event handler type in ctx.
func (e *EmbeddedEvent) Type(ctx *Context) peemit.TypeReference {
	return e.engine.adapter.ResolveType(e.underlying, ctx)
}
