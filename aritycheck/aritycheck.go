// Package aritycheck defines an analyzer that reports field-count drift
// between types linked by //arity: directives.
//
//	//arity:mirror example.com/legacy.Order
//	type Order struct { ... }
//
// requires Order to have as many positional slots as legacy.Order, and
//
//	//arity:count 3
//	type Point struct { ... }
//
// requires Point to have exactly three.
package aritycheck

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"arity-generator/internal/directive"
	"arity-generator/internal/oracle"
	"arity-generator/internal/search"
)

const doc = `report field-count drift between types linked by //arity: directives

A type annotated with //arity:mirror <ref> must have the same number of
positional fields as <ref>; //arity:count <n> pins the count to n.`

// Analyzer is the aritycheck analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "aritycheck",
	Doc:      doc,
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

var maxProbe int

func init() {
	Analyzer.Flags.IntVar(&maxProbe, "max-probe", search.DefaultMaxProbe,
		"largest field count resolved before a type is reported as indeterminate")
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	c := &checker{pass: pass, cfg: search.Config{MaxProbe: maxProbe}}

	insp.Preorder([]ast.Node{(*ast.GenDecl)(nil)}, func(n ast.Node) {
		decl := n.(*ast.GenDecl)
		if decl.Tok != token.TYPE {
			return
		}

		for _, spec := range decl.Specs {
			c.checkSpec(decl, spec.(*ast.TypeSpec))
		}
	})

	return nil, nil
}

type checker struct {
	pass *analysis.Pass
	cfg  search.Config
}

func (c *checker) checkSpec(decl *ast.GenDecl, spec *ast.TypeSpec) {
	directives, err := directive.Parse(directive.ForTypeSpec(decl, spec))
	if err != nil {
		c.pass.Reportf(spec.Name.Pos(), "invalid arity directive: %v", err)

		return
	}

	if len(directives) == 0 {
		return
	}

	obj := c.pass.TypesInfo.Defs[spec.Name]
	if obj == nil {
		return
	}

	name := obj.Name()

	count, err := c.count(obj.Type())
	if err != nil {
		c.pass.Reportf(spec.Name.Pos(), "cannot count %s: %v", name, err)

		return
	}

	for _, d := range directives {
		switch d.Kind {
		case directive.KindCount:
			if count != d.Count {
				c.pass.Reportf(spec.Name.Pos(), "%s has %d fields, pinned to %d", name, count, d.Count)
			}
		case directive.KindMirror:
			c.checkMirror(spec, name, count, d.Ref)
		}
	}
}

func (c *checker) checkMirror(spec *ast.TypeSpec, name string, count int, ref string) {
	target := c.lookup(ref)
	if target == nil {
		c.pass.Reportf(spec.Name.Pos(), "cannot resolve %s", ref)

		return
	}

	want, err := c.count(target.Type())
	if err != nil {
		c.pass.Reportf(spec.Name.Pos(), "cannot count %s: %v", ref, err)

		return
	}

	if want != count {
		c.pass.Reportf(spec.Name.Pos(), "%s has %d fields but %s has %d", name, count, ref, want)
	}
}

func (c *checker) count(t types.Type) (int, error) {
	res, err := search.Exponential(func(n int) (bool, error) {
		return oracle.IsListInitializableN(t, n)
	}, c.cfg)
	if err != nil {
		return 0, err
	}

	return res.Count, nil
}

// lookup resolves Name, pkgname.Name or importpath.Name from the package
// under analysis and its transitive imports.
func (c *checker) lookup(ref string) *types.TypeName {
	dot := strings.LastIndex(ref, ".")
	if dot < 0 {
		return typeName(c.pass.Pkg, ref)
	}

	qual, name := ref[:dot], ref[dot+1:]
	if qual == c.pass.Pkg.Path() || qual == c.pass.Pkg.Name() {
		return typeName(c.pass.Pkg, name)
	}

	if pkg := findPackage(c.pass.Pkg, qual, make(map[*types.Package]bool)); pkg != nil {
		return typeName(pkg, name)
	}

	return nil
}

func typeName(pkg *types.Package, name string) *types.TypeName {
	tn, _ := pkg.Scope().Lookup(name).(*types.TypeName)

	return tn
}

func findPackage(from *types.Package, qual string, seen map[*types.Package]bool) *types.Package {
	if seen[from] {
		return nil
	}

	seen[from] = true

	for _, imp := range from.Imports() {
		if imp.Path() == qual || imp.Name() == qual {
			return imp
		}
	}

	for _, imp := range from.Imports() {
		if p := findPackage(imp, qual, seen); p != nil {
			return p
		}
	}

	return nil
}
