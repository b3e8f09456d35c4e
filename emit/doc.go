// Package emit assembles the emission-layer components into a module
// builder.
//
// A ModuleBuilder collects what binding produced for one output module:
// exception regions per method body, Win32 resources, security attribute
// data per symbol and the interop symbols to embed. Emit then hands
// everything to a Writer in a fixed order:
//
//  1. exception-handling sections, by method key
//  2. the Win32 resource directory in .res form
//  3. permission sets, by symbol key then security action
//  4. embedded interop types, by full name
//
// Permission-set file references are read during Emit; a file that cannot be
// read becomes an ErrPermissionSetAttributeFileReadError diagnostic rather
// than a failure.
//
// # Configuration
//
// Options follow DefaultOptions and can be loaded from YAML:
//
//	embed_interop_types: true
//	duplicate_resources: reject   # or keep_all
//	embed_workers: 8
//	allow_unsafe: false
package emit
