// Package match ranks type names by edit distance. It backs the
// "did you mean" hints on unresolved type references.
package match
