// Package resolve turns a loaded type graph into field counts.
//
// A Plan lists the records to count, the pairs that must agree and the
// counts pinned by //arity:count. The Resolver runs the configured search
// engine over the configured oracle for each record, memoises the result
// per type and fans independent records out over a bounded worker group.
// Verify compares the resolved counts against pairs and pins and reports
// drift through diagnostic.Diagnostics.
package resolve
