// Package oracle answers the construction question the arity search is built
// on: can a record type be positionally constructed from N probes?
//
// Two backends implement Oracle:
//   - Structural: applies composite-literal slot rules to go/types data
//   - Checker: type-checks a synthetic T{probe, ...} literal with go/types
//
// Both are monotonic in N for every record: true up to the field count,
// false past it.
//
// The checker backend renders grouping layers as parentheses and relies on
// go/types treating a parenthesised operand exactly like the bare operand.
// That is an assumption about the toolchain, not something the oracle checks.
package oracle
