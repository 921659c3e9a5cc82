package search

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundary returns a predicate that holds for n <= f.
func boundary(f int) Predicate {
	return func(n int) (bool, error) {
		return n <= f, nil
	}
}

func TestExponential_FindsBoundary(t *testing.T) {
	for f := 0; f <= DefaultMaxProbe; f++ {
		res, err := Exponential(boundary(f), DefaultConfig())
		require.NoError(t, err, "f=%d", f)
		assert.Equal(t, f, res.Count, "f=%d", f)
	}
}

func TestExponential_AgreesWithLinear(t *testing.T) {
	for f := 0; f <= 200; f++ {
		exp, err := Exponential(boundary(f), DefaultConfig())
		require.NoError(t, err)

		lin, err := Linear(boundary(f), DefaultConfig())
		require.NoError(t, err)

		assert.Equal(t, lin.Count, exp.Count, "f=%d", f)
		assert.Equal(t, f+2, lin.Calls, "linear probes 0..f+1")
	}
}

func TestExponential_LogarithmicCalls(t *testing.T) {
	for _, f := range []int{1, 2, 3, 7, 8, 9, 31, 32, 33, 100, 129, 255} {
		res, err := Exponential(boundary(f), DefaultConfig())
		require.NoError(t, err)

		maxCalls := 2*bits.Len(uint(f)) + 2
		assert.LessOrEqual(t, res.Calls, maxCalls, "f=%d", f)
	}
}

func TestExponential_Trace(t *testing.T) {
	res, err := Exponential(boundary(5), DefaultConfig())
	require.NoError(t, err)

	want := []Step{
		{N: 0, OK: true, Phase: Growing},
		{N: 1, OK: true, Phase: Growing},
		{N: 2, OK: true, Phase: Growing},
		{N: 4, OK: true, Phase: Growing},
		{N: 8, OK: false, Phase: Growing},
		{N: 6, OK: false, Phase: Narrowing},
		{N: 5, OK: true, Phase: Narrowing},
	}
	assert.Equal(t, want, res.Trace)
	assert.Equal(t, len(want), res.Calls)
}

func TestExponential_ZeroFields(t *testing.T) {
	res, err := Exponential(boundary(0), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, 2, res.Calls)
}

func TestEngines_ZeroProbeRejected(t *testing.T) {
	never := func(int) (bool, error) { return false, nil }

	for name, engine := range map[string]Engine{"exponential": Exponential, "linear": Linear} {
		_, err := engine(never, DefaultConfig())
		require.ErrorIs(t, err, ErrIndeterminate, name)
	}
}

func TestEngines_Ceiling(t *testing.T) {
	cfg := Config{MaxProbe: 10}

	for name, engine := range map[string]Engine{"exponential": Exponential, "linear": Linear} {
		res, err := engine(boundary(10), cfg)
		require.NoError(t, err, name)
		assert.Equal(t, 10, res.Count, name)

		_, err = engine(boundary(11), cfg)
		require.ErrorIs(t, err, ErrIndeterminate, name)

		always := func(int) (bool, error) { return true, nil }
		_, err = engine(always, cfg)
		require.ErrorIs(t, err, ErrIndeterminate, name)
	}
}

func TestExponential_NeverProbesPastCeiling(t *testing.T) {
	cfg := Config{MaxProbe: 20}

	var maxSeen int
	check := func(n int) (bool, error) {
		maxSeen = max(maxSeen, n)

		return true, nil
	}

	_, err := Exponential(check, cfg)
	require.ErrorIs(t, err, ErrIndeterminate)
	assert.Equal(t, 21, maxSeen)
}

func TestEngines_PropagateOracleErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := func(n int) (bool, error) {
		if n == 2 {
			return false, boom
		}

		return true, nil
	}

	for name, engine := range map[string]Engine{"exponential": Exponential, "linear": Linear} {
		_, err := engine(failing, DefaultConfig())
		require.ErrorIs(t, err, boom, name)
		assert.NotErrorIs(t, err, ErrIndeterminate, name)
	}
}

func TestConfig_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxProbe+1, Config{}.limit())
	assert.Equal(t, DefaultMaxProbe+1, Config{MaxProbe: -4}.limit())
	assert.Equal(t, 8, Config{MaxProbe: 7}.limit())
}

func TestByName(t *testing.T) {
	e, err := ByName("linear")
	require.NoError(t, err)
	res, err := e(boundary(4), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)

	_, err = ByName("")
	require.NoError(t, err)

	_, err = ByName("ternary")
	require.Error(t, err)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "Growing", Growing.String())
	assert.Equal(t, "Narrowing", Narrowing.String())
	assert.Equal(t, "Done", Done.String())
	assert.Equal(t, "Phase(7)", Phase(7).String())
}
