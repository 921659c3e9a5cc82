// Package probe provides the placeholder arguments used to test whether a
// record type can be positionally constructed.
//
// A probe is never evaluated. The structural oracle only asks whether a probe
// would be accepted by a slot, and the checker oracle renders probes into a
// throwaway source file that is type-checked and discarded.
//
// Key types:
//   - Wildcard: accepted by any non-composite slot
//   - Grouped: a probe wrapped in one grouping layer (see Wrap)
//   - Typed: a probe carrying a concrete type, accepted by assignability
package probe

import (
	"go/ast"
	"go/types"
)

// Arg is a single positional argument of a construction attempt.
type Arg interface {
	// Accepts reports whether the argument may initialize a slot of the given type.
	Accepts(slot types.Type) bool
	// String returns a short human-readable form used in traces.
	String() string
}

// Wildcard stands in for a value of any non-composite type.
type Wildcard struct{}

// Accepts implements Arg.
func (Wildcard) Accepts(slot types.Type) bool {
	return !IsComposite(slot)
}

func (Wildcard) String() string {
	return "_"
}

// Grouped is a probe wrapped in one extra grouping layer.
//
// The grouping opens a nested composite slot, so a grouped wildcard also
// initializes struct and array fields. For scalar slots the grouping is
// absorbed and the inner argument decides.
type Grouped struct {
	Inner Arg
}

// Accepts implements Arg.
func (g Grouped) Accepts(slot types.Type) bool {
	if g.Inner == nil {
		return false
	}

	if IsComposite(slot) && IsWildcard(g.Inner) {
		return true
	}

	return g.Inner.Accepts(slot)
}

func (g Grouped) String() string {
	if g.Inner == nil {
		return "{}"
	}

	return "{" + g.Inner.String() + "}"
}

// Typed is an argument of a concrete type.
type Typed struct {
	Type types.Type
}

// Accepts implements Arg.
func (t Typed) Accepts(slot types.Type) bool {
	if t.Type == nil || slot == nil {
		return false
	}

	return types.AssignableTo(t.Type, slot)
}

func (t Typed) String() string {
	if t.Type == nil {
		return "<nil>"
	}

	return t.Type.String()
}

// Wrap applies one grouping layer to a probe.
func Wrap(a Arg) Arg {
	return Grouped{Inner: a}
}

// Sequence returns n wrapped wildcards.
func Sequence(n int) []Arg {
	if n <= 0 {
		return nil
	}

	seq := make([]Arg, n)
	for i := range seq {
		seq[i] = Wrap(Wildcard{})
	}

	return seq
}

// IsWildcard reports whether a is a wildcard under any number of grouping layers.
func IsWildcard(a Arg) bool {
	for {
		switch v := a.(type) {
		case Wildcard:
			return true
		case Grouped:
			a = v.Inner
		default:
			return false
		}
	}
}

// IsComposite reports whether a slot of type t needs its own grouping to be
// initialized: structs and arrays.
func IsComposite(t types.Type) bool {
	if t == nil {
		return false
	}

	switch t.Underlying().(type) {
	case *types.Struct, *types.Array:
		return true
	default:
		return false
	}
}

// Expr renders a probe as a Go expression calling fn, the name of a function
// that returns the wildcard value. Grouping layers become parentheses.
// Typed arguments have no source form and report false.
func Expr(a Arg, fn string) (ast.Expr, bool) {
	switch v := a.(type) {
	case Wildcard:
		return &ast.CallExpr{Fun: ast.NewIdent(fn)}, true
	case Grouped:
		inner, ok := Expr(v.Inner, fn)
		if !ok {
			return nil, false
		}

		return &ast.ParenExpr{X: inner}, true
	default:
		return nil, false
	}
}
