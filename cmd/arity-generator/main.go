// Package main provides the CLI entrypoint for arity-generator.
//
// arity-generator is a build-time Go codegen tool that:
//   - Loads Go packages (AST + go/types) and catalogues their record types
//   - Discovers each record's field count by probing positional construction
//   - Emits the counts as untyped constants with compile-time drift guards
//   - Checks that hand-maintained wrappers keep pace with the records they mirror
package main

import "arity-generator/cmd/arity-generator/cmd"

func main() {
	cmd.Execute()
}
