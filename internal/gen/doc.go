// Package gen renders resolved field counts as a Go source file.
//
// Generation uses text/template + go/format. The output holds only untyped
// constants:
//   - <Pkg><Type>FieldCount = N for every resolved record
//   - one drift guard per pair or pinned count, a constant expression that
//     stops compiling once the two counts differ
//
// The output is deterministic, so IsStale can compare it byte for byte with
// the checked-in file.
package gen
