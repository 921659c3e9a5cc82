package gen

import "text/template"

// templateData holds all data needed for the constants template.
type templateData struct {
	PackageName      string
	GenerateComments bool
	Consts           []constData
	Guards           []guardData
}

// constData is one field-count constant.
type constData struct {
	Name  string
	Count int
	Type  string
}

// guardData is a constant expression that only compiles when Left == Right.
// Converting a negative constant to uint is a compile error, so one of the
// two differences breaks the build as soon as the counts disagree.
type guardData struct {
	Left    string
	Right   string
	Comment string
}

var fileTemplate = template.Must(template.New("arity").Parse(Header + `

package {{.PackageName}}
{{if .Consts}}
// Field counts.
const (
{{range .Consts}}{{if $.GenerateComments}}	// {{.Name}} is the field count of {{.Type}}.
{{end}}	{{.Name}} = {{.Count}}
{{end}})
{{end}}{{if .Guards}}
// Drift guards.
const (
{{range .Guards}}{{if $.GenerateComments}}	// {{.Comment}}
{{end}}	_ = uint({{.Left}}-{{.Right}}) + uint({{.Right}}-{{.Left}})
{{end}})
{{end}}`))
