// Package analyze provides package loading and record catalogue extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build an in-memory model of package-level named types.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: construction shape (struct/array/slice/map/...), the
//     go/types.Type handed to the oracles, and //arity: directives
//   - TypeGraph: every loaded type, resolvable by full or short reference
//
// Field lists are not extracted; counts come from probing.
package analyze
