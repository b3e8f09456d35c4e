// Package peemit provides the binary-emission layer of a managed-code compiler
// backend.
//
// The layer converts a resolved symbol graph into the sub-structures of a
// compiled module: exception-handling region tables for method bodies, native
// Win32 resource entries, security-permission attributes (including
// permission-set file fixups), and locally embedded copies of foreign interop
// types. Full image serialization is left to an external writer; this module
// produces the pieces that writer consumes.
//
// # Architecture Overview
//
//	peemit/              Root package with shared reference interfaces
//	├── eh/              Exception handler regions and method-data section encoding
//	├── win32res/        Win32 resource entries, directory builder, .res files
//	├── security/        Security attribute actions and permission-set fixups
//	├── nopia/           Interop type embedding engine
//	├── blob/            Content-based byte sequence identity and blob heap
//	├── fatal/           Crash-reporting sink
//	├── diagnostic/      Diagnostic codes, locations and bags
//	├── binder/          Unsafe-region diagnostic check
//	├── emit/            Options and the module builder driving an external writer
//	├── errors/          Structured error types and contract violations
//	├── internal/        Little-endian binary codec and package logger slots
//	└── cmd/resdump/     CLI to dump, merge and browse .res files
//
// # Concurrency
//
// Compilation binds symbols on parallel workers. The security fixup table, the
// embedding engine, the blob heap and the resource directory are safe for
// concurrent use; lazy allocations converge on a single winner.
//
// # Error Model
//
// Broken internal invariants panic with an *errors.Error of kind
// contract_violation. User-facing problems are reported as diagnostics and
// compilation continues.
package peemit
