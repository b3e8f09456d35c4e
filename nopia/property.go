package nopia

import (
	"slices"

	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/errors"
)

// EmbeddedProperty is the local definition of an interop property.
type EmbeddedProperty struct {
	underlying Symbol
	engine     *Engine
	getter     *EmbeddedMethod
	setter     *EmbeddedMethod
	name       string
	signature  Signature
	parameters []*EmbeddedParameter
	visibility Visibility
	flags      MemberFlags
}

// newEmbeddedProperty checks the accessor preconditions and builds the
// property. Parameters come from the getter, or from the setter without its
// trailing value parameter.
func newEmbeddedProperty(e *Engine, sym Symbol, getter, setter *EmbeddedMethod) *EmbeddedProperty {
	errors.Assert(getter != nil || setter != nil, errors.PhaseEmbed,
		"property %q has no accessors", e.adapter.Name(sym))
	if getter != nil && setter != nil {
		checkAccessorsAgree(e.adapter.Name(sym), getter, setter)
	}

	p := &EmbeddedProperty{
		underlying: sym,
		engine:     e,
		getter:     getter,
		setter:     setter,
		name:       e.adapter.Name(sym),
		signature:  e.adapter.Signature(sym),
		visibility: e.adapter.Visibility(sym),
		flags:      e.adapter.Flags(sym),
	}

	var params []Parameter
	if getter != nil {
		params = getter.signature.Parameters
	} else {
		n := len(setter.signature.Parameters)
		errors.Assert(n > 0, errors.PhaseEmbed,
			"setter of property %q has no value parameter", p.name)
		params = setter.signature.Parameters[:n-1]
	}
	p.parameters = embedParameters(p, params)
	return p
}

func checkAccessorsAgree(name string, getter, setter *EmbeddedMethod) {
	gs, ss := getter.signature, setter.signature
	errors.Assert(gs.CallingConvention == ss.CallingConvention, errors.PhaseEmbed,
		"property %q: accessor calling conventions differ (%#x, %#x)",
		name, gs.CallingConvention, ss.CallingConvention)
	errors.Assert(len(ss.Parameters) == len(gs.Parameters)+1, errors.PhaseEmbed,
		"property %q: getter has %d parameters, setter has %d",
		name, len(gs.Parameters), len(ss.Parameters))
	for i, gp := range gs.Parameters {
		sp := ss.Parameters[i]
		errors.Assert(sameShape(gp.Type, gp.IsByRef, gp.Modifiers, sp.Type, sp.IsByRef, sp.Modifiers),
			errors.PhaseEmbed, "property %q: index parameter %d differs between accessors", name, i)
	}
	value := ss.Parameters[len(ss.Parameters)-1]
	errors.Assert(sameShape(gs.ReturnType, gs.ReturnByRef, gs.ReturnModifiers, value.Type, value.IsByRef, value.Modifiers),
		errors.PhaseEmbed, "property %q: getter type differs from setter value type", name)
}

func sameShape(a peemit.TypeReference, aRef bool, aMods []CustomModifier, b peemit.TypeReference, bRef bool, bMods []CustomModifier) bool {
	if aRef != bRef || !peemit.SameType(a, b) {
		return false
	}
	return slices.EqualFunc(aMods, bMods, func(x, y CustomModifier) bool {
		return x.Optional == y.Optional && peemit.SameType(x.Modifier, y.Modifier)
	})
}

func (p *EmbeddedProperty) anAccessor() *EmbeddedMethod {
	if p.getter != nil {
		return p.getter
	}
	return p.setter
}

// Underlying returns the foreign property symbol.
func (p *EmbeddedProperty) Underlying() Symbol { return p.underlying }

// Name returns the metadata name.
func (p *EmbeddedProperty) Name() string { return p.name }

// ContainingType returns the declaring embedded type, taken from an accessor.
func (p *EmbeddedProperty) ContainingType() *EmbeddedType { return p.anAccessor().containing }

// Visibility returns the property's visibility.
func (p *EmbeddedProperty) Visibility() Visibility { return p.visibility }

// Getter returns the embedded get accessor, or nil.
func (p *EmbeddedProperty) Getter() *EmbeddedMethod { return p.getter }

// Setter returns the embedded set accessor, or nil.
func (p *EmbeddedProperty) Setter() *EmbeddedMethod { return p.setter }

// Parameters returns the index parameters owned by the property.
func (p *EmbeddedProperty) Parameters() []*EmbeddedParameter { return p.parameters }

// IsSpecialName reports the specialname flag.
func (p *EmbeddedProperty) IsSpecialName() bool { return p.flags&FlagSpecialName != 0 }

// IsRuntimeSpecial reports the rtspecialname flag.
func (p *EmbeddedProperty) IsRuntimeSpecial() bool { return p.flags&FlagRuntimeSpecial != 0 }

// CallingConvention returns the property signature calling convention.
func (p *EmbeddedProperty) CallingConvention() CallingConvention {
	return p.signature.CallingConvention
}

// ReturnValueCustomModifiers returns the property type's custom modifiers.
func (p *EmbeddedProperty) ReturnValueCustomModifiers() []CustomModifier {
	return p.signature.ReturnModifiers
}

// ReturnValueIsByRef reports whether the property returns by reference.
func (p *EmbeddedProperty) ReturnValueIsByRef() bool { return p.signature.ReturnByRef }

// Type resolves the property type in ctx.
func (p *EmbeddedProperty) Type(ctx *Context) peemit.TypeReference {
	return p.engine.adapter.ResolveType(p.underlying, ctx)
}
