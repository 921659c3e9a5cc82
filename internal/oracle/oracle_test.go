package oracle

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arity-generator/internal/probe"
)

const corpusSrc = `package corpus

type Empty struct{}

type Triple struct {
	A int
	B *int
	C float32
}

type Tagged struct {
	F float32
	U struct{ I, J int }
}

type Embeds struct {
	Triple
	Extra string
}

type Blank struct {
	_ int
	A int
	_ [2]byte
}

type Pair struct {
	L, R Triple
}

type hidden struct {
	a, b int
	c    []string
}

type Box[T any] struct {
	V T
	N int
}

type Inst = Box[Triple]

type Vec [3]float64

type IDs []int

type Lookup map[string]int

type Code int

type Handler func()

type Any interface{}
`

// corpusCounts are the true field counts of the positional corpus types.
var corpusCounts = map[string]int{
	"Empty":  0,
	"Triple": 3,
	"Tagged": 2,
	"Embeds": 2,
	"Blank":  3,
	"Pair":   2,
	"hidden": 3,
	"Inst":   2,
	"Vec":    3,
}

func wideSrc(n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "package wide\n\ntype Wide struct {\n")
	for i := range n {
		fmt.Fprintf(&sb, "\tF%d int\n", i)
	}
	sb.WriteString("}\n")

	return sb.String()
}

func loadPkg(t *testing.T, path, src string) *types.Package {
	t.Helper()

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "corpus.go", src, 0)
	require.NoError(t, err)

	var conf types.Config
	pkg, err := conf.Check(path, fset, []*ast.File{f}, nil)
	require.NoError(t, err)

	return pkg
}

func lookup(t *testing.T, pkg *types.Package, name string) types.Type {
	t.Helper()

	obj := pkg.Scope().Lookup(name)
	require.NotNil(t, obj, "type %s not found", name)

	return obj.Type()
}

func oracles() map[string]Oracle {
	return map[string]Oracle{
		"structural": Structural{},
		"checker":    NewChecker(nil),
	}
}

func TestOracle_MonotonicPrefix(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)

	for oname, o := range oracles() {
		for name, want := range corpusCounts {
			t.Run(oname+"/"+name, func(t *testing.T) {
				typ := lookup(t, pkg, name)
				for n := 0; n <= want+3; n++ {
					ok, err := o.Check(typ, n)
					require.NoError(t, err)
					assert.Equal(t, n <= want, ok, "Check(%s, %d)", name, n)
				}
			})
		}
	}
}

func TestOracle_TripleScenario(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)
	triple := lookup(t, pkg, "Triple")

	for name, o := range oracles() {
		ok, err := o.Check(triple, 3)
		require.NoError(t, err, name)
		assert.True(t, ok, name)

		ok, err = o.Check(triple, 4)
		require.NoError(t, err, name)
		assert.False(t, ok, name)
	}
}

func TestOracle_NotConstructible(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)

	for oname, o := range oracles() {
		for _, name := range []string{"Code", "Handler", "Any"} {
			ok, err := o.Check(lookup(t, pkg, name), 0)
			require.NoError(t, err, "%s/%s", oname, name)
			assert.False(t, ok, "%s/%s", oname, name)
		}
	}
}

func TestOracle_SliceNeverOverflows(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)
	ids := lookup(t, pkg, "IDs")

	for name, o := range oracles() {
		for _, n := range []int{0, 1, 17, 64} {
			ok, err := o.Check(ids, n)
			require.NoError(t, err, name)
			assert.True(t, ok, "%s: Check(IDs, %d)", name, n)
		}
	}
}

func TestOracle_Misuse(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)
	triple := lookup(t, pkg, "Triple")
	lookupT := lookup(t, pkg, "Lookup")

	for name, o := range oracles() {
		_, err := o.Check(triple, -1)
		require.ErrorIs(t, err, ErrMisuse, name)

		_, err = o.Check(lookupT, 0)
		require.ErrorIs(t, err, ErrMisuse, name)

		_, err = o.Check(nil, 0)
		require.ErrorIs(t, err, ErrMisuse, name)
	}
}

func TestChecker_RequiresInstantiation(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)

	_, err := NewChecker(nil).Check(lookup(t, pkg, "Box"), 0)
	require.ErrorIs(t, err, ErrMisuse)

	_, err = NewChecker(nil).Check(types.NewStruct(nil, nil), 0)
	require.ErrorIs(t, err, ErrMisuse)
}

func TestChecker_Source(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)

	src, err := NewChecker(nil).Source(lookup(t, pkg, "Inst"), 2)
	require.NoError(t, err)

	assert.Contains(t, src, "package corpus")
	assert.Contains(t, src, "var _ = Box[Triple]{(_arityProbe()), (_arityProbe())}")
	assert.NotContains(t, src, "import")
}

func TestChecker_CrossPackageTypeArgs(t *testing.T) {
	dep := loadPkg(t, "example.com/dep", "package dep\n\ntype Item struct{ A, B int }\n")

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "use.go", `package use

import "example.com/dep"

type Box[T any] struct {
	V T
	N int
	M int
}

type Items = Box[dep.Item]
`, 0)
	require.NoError(t, err)

	conf := types.Config{Importer: importerFunc(func(path string) (*types.Package, error) {
		require.Equal(t, "example.com/dep", path)

		return dep, nil
	})}
	use, err := conf.Check("example.com/use", fset, []*ast.File{f}, nil)
	require.NoError(t, err)

	items := lookup(t, use, "Items")
	c := NewChecker(nil)

	src, err := c.Source(items, 1)
	require.NoError(t, err)
	assert.Contains(t, src, `import _arity_p0 "example.com/dep"`)

	for n := 0; n <= 4; n++ {
		ok, err := c.Check(items, n)
		require.NoError(t, err)
		assert.Equal(t, n <= 3, ok, "Check(Items, %d)", n)
	}
}

func TestOracle_Wide(t *testing.T) {
	pkg := loadPkg(t, "example.com/wide", wideSrc(40))
	wide := lookup(t, pkg, "Wide")

	for name, o := range oracles() {
		for _, n := range []int{0, 39, 40} {
			ok, err := o.Check(wide, n)
			require.NoError(t, err, name)
			assert.True(t, ok, "%s: Check(Wide, %d)", name, n)
		}

		ok, err := o.Check(wide, 41)
		require.NoError(t, err, name)
		assert.False(t, ok, name)
	}
}

func TestIsListInitializable_Typed(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)
	triple := lookup(t, pkg, "Triple")

	intT := types.Typ[types.Int]
	ptr := types.NewPointer(intT)
	f32 := types.Typ[types.Float32]

	typed := func(ts ...types.Type) []probe.Arg {
		args := make([]probe.Arg, len(ts))
		for i, typ := range ts {
			args[i] = probe.Typed{Type: typ}
		}

		return args
	}

	assert.True(t, IsListInitializable(triple))
	assert.True(t, IsListInitializable(triple, typed(intT, ptr, f32)...))
	assert.True(t, IsListInitializable(triple, typed(intT, ptr)...))
	assert.False(t, IsListInitializable(triple, typed(types.Typ[types.String])...))
	assert.False(t, IsListInitializable(triple, typed(intT, ptr, f32, intT)...))
	assert.False(t, IsListInitializable(lookup(t, pkg, "Code")))
}

func TestIsListInitializable_AdapterFlipsComposites(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)
	tagged := lookup(t, pkg, "Tagged")

	bare := []probe.Arg{probe.Wildcard{}, probe.Wildcard{}}
	wrapped := []probe.Arg{probe.Wrap(probe.Wildcard{}), probe.Wrap(probe.Wildcard{})}

	assert.False(t, IsListInitializable(tagged, bare...))
	assert.True(t, IsListInitializable(tagged, wrapped...))
}

func TestIsListInitializable_AdapterTransparentForScalars(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)
	triple := lookup(t, pkg, "Triple")

	for n := 0; n <= 4; n++ {
		bare := make([]probe.Arg, n)
		for i := range bare {
			bare[i] = probe.Wildcard{}
		}

		assert.Equal(t,
			IsListInitializable(triple, bare...),
			IsListInitializable(triple, probe.Sequence(n)...),
			"n=%d", n)
	}
}

func TestIsListInitializableN_Idempotent(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)
	pair := lookup(t, pkg, "Pair")

	first, err := IsListInitializableN(pair, 2)
	require.NoError(t, err)

	for range 5 {
		again, err := IsListInitializableN(pair, 2)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNew(t *testing.T) {
	o, err := New(KindStructural)
	require.NoError(t, err)
	assert.IsType(t, Structural{}, o)

	o, err = New(KindChecker)
	require.NoError(t, err)
	assert.IsType(t, &Checker{}, o)

	_, err = New("magic")
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, verdictOverflow, classify("too many values in struct literal of type T"))
	assert.Equal(t, verdictOverflow, classify("index 3 is out of bounds (>= 3)"))
	assert.Equal(t, verdictAbsorbed, classify("too few values in struct literal of type T"))
	assert.Equal(t, verdictAbsorbed, classify("implicit assignment to unexported field a in struct literal of type hidden"))
	assert.Equal(t, verdictAbsorbed, classify("cannot use (_arityProbe()) (value of struct type _arityWildcard) as int value in struct literal"))
	assert.Equal(t, verdictRejected, classify("invalid composite literal type Code"))
	assert.Equal(t, verdictRejected, classify("undefined: Nope"))
}

func TestClassify_UnrelatedCannotUse(t *testing.T) {
	// Only mismatches on the wildcard itself are absorbed.
	assert.Equal(t, verdictRejected, classify("cannot use generic type Box[T any] without instantiation"))
	assert.Equal(t, verdictRejected, classify("cannot use x (variable of type string) as int value in assignment"))
	assert.Equal(t, verdictRejected, classify("Empty redeclared in this block"))
	assert.Equal(t, verdictRejected, classify("x declared and not used"))
}

// TestChecker_DiagnosticWording runs the checker against the current
// toolchain and asserts every diagnostic it raises is one classify knows.
// A go/types wording change shows up here rather than as a wrong count.
func TestChecker_DiagnosticWording(t *testing.T) {
	pkg := loadPkg(t, "example.com/corpus", corpusSrc)
	c := NewChecker(nil)

	tests := []struct {
		name string
		n    int
		want verdict
		msg  string
	}{
		{name: "Triple", n: 2, want: verdictAbsorbed, msg: "too few values in struct literal"},
		{name: "Triple", n: 3, want: verdictAbsorbed, msg: "cannot use (" + probeFunc + "())"},
		{name: "Triple", n: 4, want: verdictOverflow, msg: "too many values in struct literal"},
		{name: "hidden", n: 3, want: verdictAbsorbed, msg: "implicit assignment to unexported field"},
		{name: "Vec", n: 4, want: verdictOverflow, msg: "is out of bounds"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.name, tt.n), func(t *testing.T) {
			diags, err := c.diagnose(lookup(t, pkg, tt.name), tt.n)
			require.NoError(t, err)
			require.NotEmpty(t, diags)

			var found bool
			for _, d := range diags {
				assert.NotEqual(t, verdictRejected, classify(d.Msg), "unclassified diagnostic %q", d.Msg)

				if strings.Contains(d.Msg, tt.msg) {
					found = true

					assert.Equal(t, tt.want, classify(d.Msg), d.Msg)
				}
			}

			assert.True(t, found, "no diagnostic containing %q in %v", tt.msg, diags)
		})
	}
}
