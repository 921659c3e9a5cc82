// Package directive parses //arity: comment directives attached to type
// declarations.
//
//	//arity:mirror example.com/legacy.Order
//	type Order struct { ... }
//
//	//arity:count 4
//	type Point struct { ... }
package directive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
)

// Prefix starts every directive comment.
const Prefix = "//arity:"

// Kind is the directive verb.
type Kind int

const (
	KindUnknown Kind = iota
	// KindMirror requires the annotated type to have the same field count as
	// the referenced type.
	KindMirror
	// KindCount pins the field count of the annotated type.
	KindCount
)

// String returns the directive verb.
func (k Kind) String() string {
	switch k {
	case KindMirror:
		return "mirror"
	case KindCount:
		return "count"
	default:
		return "unknown"
	}
}

// Directive is one parsed //arity: comment.
type Directive struct {
	Kind Kind
	// Ref is the referenced type for KindMirror.
	Ref string
	// Count is the pinned count for KindCount.
	Count int
	Pos   token.Pos
}

// Parse extracts directives from a comment group. Comments without the
// prefix are ignored; malformed directives are errors.
func Parse(doc *ast.CommentGroup) ([]Directive, error) {
	if doc == nil {
		return nil, nil
	}

	var out []Directive

	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, Prefix) {
			continue
		}

		d, err := parseOne(strings.TrimPrefix(c.Text, Prefix))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.TrimSpace(c.Text), err)
		}

		d.Pos = c.Slash
		out = append(out, d)
	}

	return out, nil
}

func parseOne(body string) (Directive, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(body), " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "mirror":
		if arg == "" || strings.ContainsAny(arg, " \t") {
			return Directive{}, errors.New("mirror needs exactly one type reference")
		}

		return Directive{Kind: KindMirror, Ref: arg}, nil

	case "count":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return Directive{}, fmt.Errorf("count needs a non-negative integer, got %q", arg)
		}

		return Directive{Kind: KindCount, Count: n}, nil

	default:
		return Directive{}, fmt.Errorf("unknown directive %q", verb)
	}
}

// ForTypeSpec returns the doc comment that applies to a type spec: its own
// doc, or the enclosing declaration's doc when the declaration is not grouped.
func ForTypeSpec(decl *ast.GenDecl, spec *ast.TypeSpec) *ast.CommentGroup {
	if spec.Doc != nil {
		return spec.Doc
	}

	if decl != nil && !decl.Lparen.IsValid() {
		return decl.Doc
	}

	return nil
}
