// Package search finds the boundary of a monotonic predicate: the largest N
// for which a construction attempt with N probes still succeeds.
package search

import (
	"errors"
	"fmt"
)

//go:generate go tool stringer -type=Phase -output=phase_string.go

// Phase is the stage of a search.
type Phase int

const (
	// Growing doubles the candidate until the predicate first fails.
	Growing Phase = iota
	// Narrowing binary-searches the bracket found while growing.
	Narrowing
	// Done means the boundary has been found.
	Done
)

// DefaultMaxProbe is the largest field count resolved without configuration.
const DefaultMaxProbe = 256

// ErrIndeterminate is returned when the boundary cannot be located: the
// zero-probe base case fails, or the predicate still holds past MaxProbe.
var ErrIndeterminate = errors.New("indeterminate field count")

// Predicate reports whether a construction with n probes succeeds.
type Predicate func(n int) (bool, error)

// Config bounds a search.
type Config struct {
	// MaxProbe is the largest count the search may report. The search probes
	// at most MaxProbe+1 to confirm the boundary.
	MaxProbe int
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{MaxProbe: DefaultMaxProbe}
}

func (c Config) limit() int {
	if c.MaxProbe <= 0 {
		return DefaultMaxProbe + 1
	}

	return c.MaxProbe + 1
}

// State is the transient bracket of a running search. Upper is -1 until the
// first failing candidate is known.
type State struct {
	Lower int
	Upper int
	Phase Phase
}

// Step records one predicate call.
type Step struct {
	N     int
	OK    bool
	Phase Phase
}

// Result is the outcome of a successful search.
type Result struct {
	// Count is the boundary N*: the predicate holds for N* and fails for N*+1.
	Count int
	// Calls is the number of predicate evaluations.
	Calls int
	// Trace lists every evaluation in order.
	Trace []Step
}

// Engine is a search strategy.
type Engine func(check Predicate, cfg Config) (Result, error)

// recorder counts and traces predicate calls.
type recorder struct {
	check Predicate
	trace []Step
}

func (r *recorder) call(n int, phase Phase) (bool, error) {
	ok, err := r.check(n)
	if err != nil {
		return false, fmt.Errorf("probe with %d values: %w", n, err)
	}

	r.trace = append(r.trace, Step{N: n, OK: ok, Phase: phase})

	return ok, nil
}

func (r *recorder) result(count int) Result {
	return Result{Count: count, Calls: len(r.trace), Trace: r.trace}
}

// Exponential locates the boundary with O(log F) predicate calls: it doubles
// the candidate until the predicate fails, then binary-searches the bracket.
func Exponential(check Predicate, cfg Config) (Result, error) {
	rec := &recorder{check: check}
	limit := cfg.limit()

	ok, err := rec.call(0, Growing)
	if err != nil {
		return Result{}, err
	}

	if !ok {
		return rec.result(0), fmt.Errorf("%w: zero-value construction rejected", ErrIndeterminate)
	}

	st := State{Lower: 0, Upper: -1, Phase: Growing}

	for n := 1; st.Upper < 0; {
		ok, err := rec.call(n, Growing)
		if err != nil {
			return Result{}, err
		}

		if !ok {
			st.Upper = n

			break
		}

		st.Lower = n
		if n >= limit {
			return rec.result(st.Lower), fmt.Errorf("%w: construction still accepted with %d values", ErrIndeterminate, n)
		}

		n = min(n*2, limit)
	}

	st.Phase = Narrowing
	for st.Upper-st.Lower > 1 {
		mid := st.Lower + (st.Upper-st.Lower)/2

		ok, err := rec.call(mid, Narrowing)
		if err != nil {
			return Result{}, err
		}

		if ok {
			st.Lower = mid
		} else {
			st.Upper = mid
		}
	}

	st.Phase = Done

	return rec.result(st.Lower), nil
}

// Linear probes N = 0, 1, 2, ... until the predicate fails. It is the
// reference the exponential engine is validated against.
func Linear(check Predicate, cfg Config) (Result, error) {
	rec := &recorder{check: check}
	limit := cfg.limit()

	for n := 0; n <= limit; n++ {
		ok, err := rec.call(n, Growing)
		if err != nil {
			return Result{}, err
		}

		if ok {
			continue
		}

		if n == 0 {
			return rec.result(0), fmt.Errorf("%w: zero-value construction rejected", ErrIndeterminate)
		}

		return rec.result(n - 1), nil
	}

	return rec.result(limit), fmt.Errorf("%w: construction still accepted with %d values", ErrIndeterminate, limit)
}

// ByName returns the engine registered under name.
func ByName(name string) (Engine, error) {
	switch name {
	case "exponential", "":
		return Exponential, nil
	case "linear":
		return Linear, nil
	default:
		return nil, fmt.Errorf("unknown search engine %q", name)
	}
}
