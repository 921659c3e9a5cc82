// Package diagnostic provides structured errors, warnings and notes
// reported while resolving field counts.
//
// Key capabilities:
//   - Indeterminate and misuse reports naming the offending type
//   - Drift reports between mirrored record pairs
//   - Stale generated output detection
package diagnostic
