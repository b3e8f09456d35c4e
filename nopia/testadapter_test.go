package nopia

import (
	peemit "github.com/wippyai/pe-emit"
)

// node is a pointer-based symbol model.
type node struct {
	kind       SymbolKind
	name       string
	parent     *node
	sig        Signature
	get, set   *node
	identity   TypeIdentity
	typ        peemit.TypeReference
	visibility Visibility
	flags      MemberFlags
}

type treeAdapter struct{}

func (treeAdapter) n(sym Symbol) *node { return sym.(*node) }

func (a treeAdapter) Kind(sym Symbol) SymbolKind           { return a.n(sym).kind }
func (a treeAdapter) Name(sym Symbol) string               { return a.n(sym).name }
func (a treeAdapter) Visibility(sym Symbol) Visibility     { return a.n(sym).visibility }
func (a treeAdapter) Flags(sym Symbol) MemberFlags         { return a.n(sym).flags }
func (a treeAdapter) Signature(sym Symbol) Signature       { return a.n(sym).sig }
func (a treeAdapter) TypeIdentity(sym Symbol) TypeIdentity { return a.n(sym).identity }

func (a treeAdapter) ContainingType(sym Symbol) Symbol {
	if p := a.n(sym).parent; p != nil {
		return p
	}
	return nil
}

func (a treeAdapter) Accessors(sym Symbol) (Symbol, Symbol) {
	var get, set Symbol
	if n := a.n(sym); n.get != nil {
		get = n.get
	}
	if n := a.n(sym); n.set != nil {
		set = n.set
	}
	return get, set
}

func (a treeAdapter) ResolveType(sym Symbol, _ *Context) peemit.TypeReference {
	n := a.n(sym)
	if n.kind == KindType {
		return peemit.NamedType(n.name)
	}
	return n.typ
}

var (
	tInt    = peemit.NamedType("System.Int32")
	tString = peemit.NamedType("System.String")
	tVoid   = peemit.NamedType("System.Void")
)

// comFixture builds an interop interface with an indexed Item property,
// a Count field and a Changed event.
type comFixture struct {
	iface, item, getItem, setItem *node
	count, changed, add, remove   *node
}

func newCOMFixture() *comFixture {
	f := &comFixture{}
	f.iface = &node{
		kind:       KindType,
		name:       "Interop.IList",
		visibility: VisibilityPublic,
		identity: TypeIdentity{
			GUID: "00020400-0000-0000-c000-000000000046",
			Name: "Interop.IList",
		},
	}
	index := Parameter{Name: "index", Type: tInt}
	f.getItem = &node{
		kind: KindMethod, name: "get_Item", parent: f.iface,
		visibility: VisibilityPublic, flags: FlagSpecialName,
		sig: Signature{
			CallingConvention: CallingConventionHasThis,
			Parameters:        []Parameter{index},
			ReturnType:        tString,
		},
	}
	f.setItem = &node{
		kind: KindMethod, name: "set_Item", parent: f.iface,
		visibility: VisibilityPublic, flags: FlagSpecialName,
		sig: Signature{
			CallingConvention: CallingConventionHasThis,
			Parameters:        []Parameter{index, {Name: "value", Type: tString}},
			ReturnType:        tVoid,
		},
	}
	f.item = &node{
		kind: KindProperty, name: "Item", parent: f.iface,
		visibility: VisibilityPublic, flags: FlagSpecialName | FlagRuntimeSpecial,
		get: f.getItem, set: f.setItem, typ: tString,
		sig: Signature{
			CallingConvention: CallingConventionHasThis,
			Parameters:        []Parameter{index},
			ReturnType:        tString,
			ReturnModifiers:   []CustomModifier{{Modifier: peemit.NamedType("System.Runtime.CompilerServices.IsConst"), Optional: true}},
		},
	}
	f.count = &node{kind: KindField, name: "Count", parent: f.iface, visibility: VisibilityPublic, typ: tInt}
	f.add = &node{kind: KindMethod, name: "add_Changed", parent: f.iface, sig: Signature{CallingConvention: CallingConventionHasThis}}
	f.remove = &node{kind: KindMethod, name: "remove_Changed", parent: f.iface, sig: Signature{CallingConvention: CallingConventionHasThis}}
	f.changed = &node{
		kind: KindEvent, name: "Changed", parent: f.iface,
		get: f.add, set: f.remove, typ: peemit.NamedType("System.EventHandler"),
	}
	return f
}
