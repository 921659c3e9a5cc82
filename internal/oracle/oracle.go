package oracle

import (
	"errors"
	"fmt"
	"go/types"

	"arity-generator/internal/probe"
)

// ErrMisuse reports an oracle call that can never be answered: a negative
// probe count, a nil type, or a type that is only constructible by key.
var ErrMisuse = errors.New("oracle misuse")

// Oracle answers whether a record type can be positionally constructed
// from n adapted probes. Implementations must be pure: the same (type, n)
// always yields the same outcome.
type Oracle interface {
	Check(t types.Type, n int) (bool, error)
}

// Kind names an oracle backend.
type Kind string

const (
	KindStructural Kind = "structural"
	KindChecker    Kind = "checker"
)

// New returns the oracle backend for kind.
func New(kind Kind) (Oracle, error) {
	switch kind {
	case KindStructural, "":
		return Structural{}, nil
	case KindChecker:
		return NewChecker(nil), nil
	default:
		return nil, fmt.Errorf("unknown oracle %q (want %s or %s)", kind, KindStructural, KindChecker)
	}
}

// Structural applies positional composite-literal rules to the go/types
// representation of the record.
type Structural struct{}

// Check implements Oracle.
func (Structural) Check(t types.Type, n int) (bool, error) {
	return IsListInitializableN(t, n)
}

// IsListInitializable reports whether t can be constructed positionally from
// exactly args. Slots past the last argument take their zero value.
func IsListInitializable(t types.Type, args ...probe.Arg) bool {
	s, err := shapeOf(t)
	if err != nil {
		return false
	}

	if s.bounded && len(args) > s.size {
		return false
	}

	for i, a := range args {
		if !a.Accepts(s.slot(i)) {
			return false
		}
	}

	return true
}

// IsListInitializableN reports whether t can be constructed from n wrapped
// wildcard probes.
func IsListInitializableN(t types.Type, n int) (bool, error) {
	if n < 0 {
		return false, fmt.Errorf("%w: negative probe count %d", ErrMisuse, n)
	}

	if _, err := shapeOf(t); errors.Is(err, ErrMisuse) {
		return false, err
	}

	return IsListInitializable(t, probe.Sequence(n)...), nil
}

// errNotComposite marks types that have no composite literal form at all.
// It is not misuse: such types simply fail the zero-probe base case.
var errNotComposite = errors.New("not a composite type")

// shape describes how a composite literal of a type lays out positional elements.
type shape struct {
	bounded bool
	size    int
	slot    func(i int) types.Type
}

func shapeOf(t types.Type) (shape, error) {
	if t == nil {
		return shape{}, fmt.Errorf("%w: nil type", ErrMisuse)
	}

	switch u := t.Underlying().(type) {
	case *types.Struct:
		return shape{
			bounded: true,
			size:    u.NumFields(),
			slot:    func(i int) types.Type { return u.Field(i).Type() },
		}, nil

	case *types.Array:
		return shape{
			bounded: true,
			size:    int(u.Len()),
			slot:    func(int) types.Type { return u.Elem() },
		}, nil

	case *types.Slice:
		return shape{
			slot: func(int) types.Type { return u.Elem() },
		}, nil

	case *types.Map:
		return shape{}, fmt.Errorf("%w: %s is constructed by key, not by position", ErrMisuse, t)

	default:
		return shape{}, errNotComposite
	}
}
