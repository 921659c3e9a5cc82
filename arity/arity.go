// Package arity discovers the top-level field count of a record type by
// probing how it can be positionally constructed.
//
// The count is never read from the field list. Instead the package asks a
// construction oracle whether T{p1, ..., pN} is well formed for growing N and
// narrows in on the boundary, so the same procedure works for any type the
// oracle can reason about:
//
//	n, err := arity.MemberCount(t)
//	ok := arity.IsListInitializable(t, types.Typ[types.Int], types.Typ[types.String])
//	ok, err = arity.IsListInitializableN(t, 3)
//
// Types are go/types values, typically obtained from golang.org/x/tools/go/packages.
package arity

import (
	"fmt"
	"go/types"

	"arity-generator/internal/oracle"
	"arity-generator/internal/probe"
	"arity-generator/internal/search"
)

var (
	// ErrIndeterminate is returned when a type rejects the zero-probe
	// construction or still accepts probes past the configured maximum.
	ErrIndeterminate = search.ErrIndeterminate
	// ErrMisuse is returned for requests that can never be answered, such as a
	// negative probe count or a map type.
	ErrMisuse = oracle.ErrMisuse
)

// DefaultMaxProbe is the largest count MemberCount resolves by default.
const DefaultMaxProbe = search.DefaultMaxProbe

type options struct {
	oracle oracle.Oracle
	engine search.Engine
	cfg    search.Config
}

// Option configures MemberCount.
type Option func(*options)

// WithMaxProbe sets the largest count that can be resolved.
func WithMaxProbe(n int) Option {
	return func(o *options) {
		o.cfg.MaxProbe = n
	}
}

// WithChecker probes by type-checking synthetic composite literals instead of
// applying slot rules to the type structure. The type must be a package-level
// named type.
func WithChecker() Option {
	return func(o *options) {
		o.oracle = oracle.NewChecker(nil)
	}
}

// WithLinearSearch probes 0, 1, 2, ... instead of the exponential search.
func WithLinearSearch() Option {
	return func(o *options) {
		o.engine = search.Linear
	}
}

// MemberCount returns the number of top-level fields of t.
func MemberCount(t types.Type, opts ...Option) (int, error) {
	o := options{
		oracle: oracle.Structural{},
		engine: search.Exponential,
		cfg:    search.DefaultConfig(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	res, err := o.engine(func(n int) (bool, error) {
		return o.oracle.Check(t, n)
	}, o.cfg)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", t, err)
	}

	return res.Count, nil
}

// IsListInitializable reports whether t can be constructed positionally from
// values of exactly the given types. Fields past the last argument take their
// zero value.
func IsListInitializable(t types.Type, args ...types.Type) bool {
	probes := make([]probe.Arg, len(args))
	for i, a := range args {
		probes[i] = probe.Typed{Type: a}
	}

	return oracle.IsListInitializable(t, probes...)
}

// IsListInitializableN reports whether t can be constructed from n wildcard
// values.
func IsListInitializableN(t types.Type, n int) (bool, error) {
	return oracle.IsListInitializableN(t, n)
}
