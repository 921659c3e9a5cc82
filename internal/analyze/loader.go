package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"arity-generator/internal/directive"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph *TypeGraph
	tags  []string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithBuildTags sets build tags passed to the go command.
func WithBuildTags(tags ...string) Option {
	return func(a *Analyzer) {
		a.tags = tags
	}
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{graph: NewTypeGraph()}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./legacy", "arity-generator/examples/legacy").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	if len(patterns) == 0 {
		return nil, errors.New("no package patterns given")
	}

	cfg := &packages.Config{
		Mode: LoadMode,
	}

	if len(a.tags) > 0 {
		cfg.BuildFlags = []string{"-tags", strings.Join(a.tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// processPackage extracts package-level type names from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := &PackageInfo{
		Path:    pkg.PkgPath,
		Name:    pkg.Name,
		GoFiles: pkg.GoFiles,
		Types:   pkg.Types,
	}

	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	docs, err := collectDirectives(pkg.Syntax)
	if err != nil {
		return err
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}

		id := TypeID{PkgPath: pkg.PkgPath, Name: name}
		info := &TypeInfo{
			ID:         id,
			Kind:       KindOf(typeName.Type()),
			GoType:     typeName.Type(),
			Exported:   typeName.Exported(),
			Alias:      typeName.IsAlias(),
			Pos:        pkg.Fset.Position(typeName.Pos()),
			Directives: docs[name],
		}

		if named, ok := types.Unalias(typeName.Type()).(*types.Named); ok {
			info.Generic = named.TypeParams().Len() > 0 && named.TypeArgs().Len() == 0
		}

		a.graph.Types[id] = info
		pkgInfo.TypeIDs = append(pkgInfo.TypeIDs, id)
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	return nil
}

// collectDirectives maps type names to the //arity: directives on their declarations.
func collectDirectives(files []*ast.File) (map[string][]directive.Directive, error) {
	out := make(map[string][]directive.Directive)

	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				ds, err := directive.Parse(directive.ForTypeSpec(gd, ts))
				if err != nil {
					return nil, fmt.Errorf("type %s: %w", ts.Name.Name, err)
				}

				if len(ds) > 0 {
					out[ts.Name.Name] = ds
				}
			}
		}
	}

	return out, nil
}
