package analyze

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"arity-generator/internal/match"
)

// ErrTypeNotFound is returned when a type reference matches no loaded type.
var ErrTypeNotFound = errors.New("type not found")

// ErrAmbiguousType is returned when a short reference matches several types.
var ErrAmbiguousType = errors.New("ambiguous type reference")

// Resolve resolves a type reference like:
//   - "arity-generator/examples/legacy.Order" (full)
//   - "legacy.Order" (short, matched on the package path suffix)
//   - "Order" (name only).
func (g *TypeGraph) Resolve(ref string) (*TypeInfo, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrTypeNotFound)
	}

	pkgStr, name := "", ref
	if lastDot := strings.LastIndex(ref, "."); lastDot >= 0 {
		pkgStr, name = ref[:lastDot], ref[lastDot+1:]
		if pkgStr == "" || name == "" {
			return nil, fmt.Errorf("%w: malformed reference %q", ErrTypeNotFound, ref)
		}

		// exact match (for fully qualified import path)
		if t := g.GetType(TypeID{PkgPath: pkgStr, Name: name}); t != nil {
			return t, nil
		}
	}

	var matches []*TypeInfo
	for id, t := range g.Types {
		if id.Name != name {
			continue
		}

		if pkgStr == "" || id.PkgPath == pkgStr || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		if hints := g.suggest(pkgStr, name); len(hints) > 0 {
			return nil, fmt.Errorf("%w: %s (did you mean %s?)", ErrTypeNotFound, ref, strings.Join(hints, " or "))
		}

		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID.String()
		}

		sort.Strings(ids)

		return nil, fmt.Errorf("%w: %s matches %s", ErrAmbiguousType, ref, strings.Join(ids, ", "))
	}
}

// suggest lists up to three loaded types whose names are close to name,
// restricted to packages matching pkgStr when it is set.
func (g *TypeGraph) suggest(pkgStr, name string) []string {
	byName := make(map[string][]TypeID)

	var names []string

	for _, t := range g.Sorted() {
		id := t.ID
		if pkgStr != "" && id.PkgPath != pkgStr && !strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			continue
		}

		if _, ok := byName[id.Name]; !ok {
			names = append(names, id.Name)
		}

		byName[id.Name] = append(byName[id.Name], id)
	}

	var hints []string

	for _, n := range match.Closest(name, names, 3) {
		for _, id := range byName[n] {
			hints = append(hints, id.Short())
		}
	}

	return hints
}

// Sorted returns all types ordered by package path, then by name.
func (g *TypeGraph) Sorted() []*TypeInfo {
	out := make([]*TypeInfo, 0, len(g.Types))
	for _, t := range g.Types {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ID.PkgPath != out[j].ID.PkgPath {
			return out[i].ID.PkgPath < out[j].ID.PkgPath
		}

		return out[i].ID.Name < out[j].ID.Name
	})

	return out
}
