package oracle

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"arity-generator/internal/probe"
)

const (
	probeFile = "arity_probe.go"
	probeFunc = "_arityProbe"
	probeType = "_arityWildcard"
)

// Checker probes a record by type-checking a synthetic composite literal
// T{probe, ...} with go/types and classifying the reported diagnostics.
//
// The literal is checked inside a mirror of the record's package so that
// unexported records resolve. Nothing is compiled or executed.
type Checker struct {
	lookup func(path string) *types.Package
}

// NewChecker returns a checker oracle. lookup resolves packages referenced by
// the type arguments of instantiated records; when nil or when it returns nil,
// the transitive imports of the record's package are searched.
func NewChecker(lookup func(path string) *types.Package) *Checker {
	return &Checker{lookup: lookup}
}

// Check implements Oracle.
func (c *Checker) Check(t types.Type, n int) (bool, error) {
	diags, err := c.diagnose(t, n)
	if err != nil {
		return false, err
	}

	return accepted(diags), nil
}

// diagnose type-checks the attempt for (t, n) and returns its diagnostics.
func (c *Checker) diagnose(t types.Type, n int) ([]types.Error, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative probe count %d", ErrMisuse, n)
	}

	src, home, imports, err := c.prepare(t, n)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, probeFile, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing probe for %s: %w", t, err)
	}

	var diags []types.Error
	conf := types.Config{
		Importer: importerFunc(func(path string) (*types.Package, error) {
			if _, ok := imports[path]; !ok {
				return nil, fmt.Errorf("unexpected import %q", path)
			}

			return c.resolve(home, path)
		}),
		Error: func(err error) {
			var te types.Error
			if errors.As(err, &te) {
				diags = append(diags, te)
			}
		},
	}

	// Errors are delivered through conf.Error; the returned error is the first of them.
	_ = types.NewChecker(&conf, fset, mirror(home), nil).Files([]*ast.File{file})

	return diags, nil
}

// Source returns the synthetic file the oracle type-checks for (t, n).
func (c *Checker) Source(t types.Type, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: negative probe count %d", ErrMisuse, n)
	}

	src, _, _, err := c.prepare(t, n)

	return src, err
}

func (c *Checker) prepare(t types.Type, n int) (string, *types.Package, map[string]string, error) {
	if t == nil {
		return "", nil, nil, fmt.Errorf("%w: nil type", ErrMisuse)
	}

	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return "", nil, nil, fmt.Errorf("%w: checker oracle needs a named type, got %s", ErrMisuse, t)
	}

	obj := named.Obj()
	home := obj.Pkg()
	if home == nil {
		return "", nil, nil, fmt.Errorf("%w: %s is predeclared", ErrMisuse, t)
	}

	if obj.Parent() != nil && obj.Parent() != home.Scope() {
		return "", nil, nil, fmt.Errorf("%w: %s is not declared at package level", ErrMisuse, t)
	}

	if named.TypeParams().Len() > 0 && named.TypeArgs().Len() == 0 {
		return "", nil, nil, fmt.Errorf("%w: generic type %s must be instantiated", ErrMisuse, t)
	}

	if _, isMap := named.Underlying().(*types.Map); isMap {
		return "", nil, nil, fmt.Errorf("%w: %s is constructed by key, not by position", ErrMisuse, t)
	}

	imports := make(map[string]string)
	qualifier := func(p *types.Package) string {
		if p.Path() == home.Path() {
			return ""
		}

		alias, ok := imports[p.Path()]
		if !ok {
			alias = fmt.Sprintf("_arity_p%d", len(imports))
			imports[p.Path()] = alias
		}

		return alias
	}

	typeExpr := types.TypeString(named, qualifier)

	var sb strings.Builder
	fmt.Fprintf(&sb, "package %s\n\n", home.Name())

	paths := make([]string, 0, len(imports))
	for p := range imports {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	for _, p := range paths {
		fmt.Fprintf(&sb, "import %s %q\n", imports[p], p)
	}

	fmt.Fprintf(&sb, "\ntype %s struct{}\n\nfunc %s() (_ %s) { return }\n\n", probeType, probeFunc, probeType)
	sb.WriteString("var _ = " + typeExpr + "{")

	for i, a := range probe.Sequence(n) {
		if i > 0 {
			sb.WriteString(", ")
		}

		e, _ := probe.Expr(a, probeFunc)
		sb.WriteString(types.ExprString(e))
	}

	sb.WriteString("}\n")

	return sb.String(), home, imports, nil
}

func (c *Checker) resolve(home *types.Package, path string) (*types.Package, error) {
	if c.lookup != nil {
		if p := c.lookup(path); p != nil {
			return p, nil
		}
	}

	if p := findImport(home, path, make(map[*types.Package]bool)); p != nil {
		return p, nil
	}

	return nil, fmt.Errorf("package %q is not reachable from %s", path, home.Path())
}

func findImport(from *types.Package, path string, seen map[*types.Package]bool) *types.Package {
	if seen[from] {
		return nil
	}

	seen[from] = true

	for _, imp := range from.Imports() {
		if imp.Path() == path {
			return imp
		}

		if p := findImport(imp, path, seen); p != nil {
			return p
		}
	}

	return nil
}

// mirror returns a fresh package sharing the objects of orig. Checking the
// probe file against it leaves orig's scope untouched.
func mirror(orig *types.Package) *types.Package {
	m := types.NewPackage(orig.Path(), orig.Name())

	scope := orig.Scope()
	for _, name := range scope.Names() {
		m.Scope().Insert(scope.Lookup(name))
	}

	return m
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) {
	return f(path)
}

// verdict classifies one diagnostic of a construction attempt.
type verdict int

const (
	// verdictAbsorbed: the diagnostic does not concern arity (wildcard type
	// mismatch, missing trailing values, visibility).
	verdictAbsorbed verdict = iota
	// verdictOverflow: more values than the record has slots.
	verdictOverflow
	// verdictRejected: the literal is not a valid construction at all.
	verdictRejected
)

// absorbedRules are the go/types diagnostics that say nothing about arity.
// The phrases follow the go/types wording as of Go 1.24 (literals.go and
// assignments.go); TestChecker_DiagnosticWording pins them. A rule with a
// subject only matches diagnostics that name it, so an unrelated
// "cannot use" elsewhere in the file still rejects the attempt.
var absorbedRules = []struct {
	phrase  string
	subject string
}{
	{phrase: "too few values in struct literal"},
	{phrase: "implicit assignment to unexported field"},
	{phrase: "cannot use", subject: probeFunc + "()"},
}

var overflowMessages = []string{
	"too many values in struct literal",
	"is out of bounds",
}

func classify(msg string) verdict {
	for _, m := range overflowMessages {
		if strings.Contains(msg, m) {
			return verdictOverflow
		}
	}

	for _, r := range absorbedRules {
		if strings.Contains(msg, r.phrase) && strings.Contains(msg, r.subject) {
			return verdictAbsorbed
		}
	}

	return verdictRejected
}

func accepted(diags []types.Error) bool {
	for _, d := range diags {
		if classify(d.Msg) != verdictAbsorbed {
			return false
		}
	}

	return true
}
