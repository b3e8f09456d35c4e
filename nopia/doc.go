// Package nopia embeds foreign interop types into the output module.
//
// When a compilation embeds interop types, every interop type and member that
// compiled code references gets a structurally equivalent local definition,
// so the output has no runtime dependency on the interop assembly. Identity
// across independently embedding modules is reconciled at load time through
// the carried GUID, scope and name; this package only produces the copies.
//
// # Adapters
//
// The engine is one algorithm written against the narrow Adapter capability
// interface. Each front end supplies a small adapter over its own symbol
// model; symbols are opaque comparable handles to the engine.
//
// # Memoization
//
// An Engine produces at most one embedded definition per underlying symbol.
// Concurrent embedders of the same symbol converge on a single winner:
//
//	e := nopia.New(adapter, nopia.DefaultOptions())
//	p := e.EmbedProperty(itemProperty) // embeds getter/setter and the type
//	p == e.EmbedProperty(itemProperty) // true
//
// # Contract
//
// Upstream binding validates embeddability. An unsupported symbol kind, a
// property without accessors, or accessors whose signatures disagree are
// internal contract violations and panic.
package nopia
