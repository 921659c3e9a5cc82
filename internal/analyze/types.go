package analyze

import (
	"go/token"
	"go/types"

	"arity-generator/internal/common"
	"arity-generator/internal/directive"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "arity-generator/examples/legacy"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the type name qualified by the last element of its package path.
func (t TypeID) Short() string {
	if alias := common.PkgAlias(t.PkgPath); alias != "" {
		return alias + "." + t.Name
	}

	return t.Name
}

// TypeKind represents the construction shape of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindStruct             // positional, bounded
	TypeKindArray              // positional, bounded
	TypeKindSlice              // positional, unbounded
	TypeKindMap                // keyed only
	TypeKindBasic              // no composite literal
	TypeKindPointer            // no composite literal
	TypeKindInterface          // no composite literal
	TypeKindFunc               // no composite literal
	TypeKindChan               // no composite literal
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindStruct:
		return "struct"
	case TypeKindArray:
		return "array"
	case TypeKindSlice:
		return "slice"
	case TypeKindMap:
		return "map"
	case TypeKindBasic:
		return "basic"
	case TypeKindPointer:
		return "pointer"
	case TypeKindInterface:
		return "interface"
	case TypeKindFunc:
		return "func"
	case TypeKindChan:
		return "chan"
	default:
		return common.UnknownStr
	}
}

// Positional reports whether values of this kind can be built from a
// positional composite literal.
func (k TypeKind) Positional() bool {
	return k == TypeKindStruct || k == TypeKindArray || k == TypeKindSlice
}

// KindOf classifies a go/types type by its underlying type.
func KindOf(t types.Type) TypeKind {
	if t == nil {
		return TypeKindUnknown
	}

	switch t.Underlying().(type) {
	case *types.Struct:
		return TypeKindStruct
	case *types.Array:
		return TypeKindArray
	case *types.Slice:
		return TypeKindSlice
	case *types.Map:
		return TypeKindMap
	case *types.Basic:
		return TypeKindBasic
	case *types.Pointer:
		return TypeKindPointer
	case *types.Interface:
		return TypeKindInterface
	case *types.Signature:
		return TypeKindFunc
	case *types.Chan:
		return TypeKindChan
	default:
		return TypeKindUnknown
	}
}

// TypeInfo describes a package-level named type.
type TypeInfo struct {
	ID         TypeID                // Unique identifier
	Kind       TypeKind              // Construction shape
	GoType     types.Type            // The original go/types.Type, probed by the oracles
	Exported   bool                  // Whether the type name is exported
	Generic    bool                  // True for uninstantiated generic types
	Alias      bool                  // True for alias declarations
	Pos        token.Position        // Declaration position
	Directives []directive.Directive // //arity: directives on the declaration
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// TypesPackage returns the go/types package for a loaded package path, or nil.
func (g *TypeGraph) TypesPackage(path string) *types.Package {
	if p := g.Packages[path]; p != nil {
		return p.Types
	}

	return nil
}

// Files returns the Go files of all loaded packages.
func (g *TypeGraph) Files() []string {
	var files []string
	for _, p := range g.Packages {
		files = append(files, p.GoFiles...)
	}

	return files
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path    string         // Import path
	Name    string         // Package name
	Dir     string         // Directory holding the package sources
	GoFiles []string       // Absolute paths of the package's Go files
	Types   *types.Package // Type-checked package
	TypeIDs []TypeID       // Named types defined in this package, in scope order
}
