package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"strconv"

	"arity-generator/internal/analyze"
	"arity-generator/internal/resolve"
)

// Header marks every generated file.
const Header = "// Code generated by arity-generator. DO NOT EDIT."

// ErrNameCollision is returned when two records map to the same constant.
var ErrNameCollision = errors.New("constant name collision")

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where the generated file is written.
	OutputDir string
	// Filename is the generated file name.
	Filename string
	// GenerateComments enables a doc comment per constant and guard.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "arity",
		OutputDir:        "./internal/arity",
		Filename:         "arity_gen.go",
		GenerateComments: true,
	}
}

// Generator renders resolved field counts as Go constants.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "arity_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate renders one file holding a constant per resolved record and a
// drift guard per pair and pin whose members resolved. Unresolved records
// are left out; they are reported by resolve.Verify.
func (g *Generator) Generate(plan resolve.Plan, results *resolve.Results) (*GeneratedFile, error) {
	data, err := g.buildTemplateData(plan, results)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, g.config.Filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: g.config.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: g.config.Filename,
		Content:  formatted,
	}, nil
}

func (g *Generator) buildTemplateData(plan resolve.Plan, results *resolve.Results) (*templateData, error) {
	data := &templateData{
		PackageName:      g.config.PackageName,
		GenerateComments: g.config.GenerateComments,
	}

	names := make(map[analyze.TypeID]string)
	owners := make(map[string]analyze.TypeID)

	for _, id := range plan.Records {
		rec, ok := results.Get(id)
		if !ok || !rec.OK() {
			continue
		}

		name := resolve.ConstName(id)
		if prev, taken := owners[name]; taken {
			return nil, fmt.Errorf("%w: %s and %s both map to %s", ErrNameCollision, prev, id, name)
		}

		owners[name] = id
		names[id] = name

		data.Consts = append(data.Consts, constData{
			Name:  name,
			Count: rec.Count,
			Type:  id.String(),
		})
	}

	for _, pair := range plan.Pairs {
		left, lok := names[pair.Legacy]
		right, rok := names[pair.Wrapper]
		if !lok || !rok {
			continue
		}

		data.Guards = append(data.Guards, guardData{
			Left:    left,
			Right:   right,
			Comment: fmt.Sprintf("%s mirrors %s.", pair.Wrapper.Short(), pair.Legacy.Short()),
		})
	}

	for _, pin := range plan.Pins {
		name, ok := names[pin.ID]
		if !ok {
			continue
		}

		data.Guards = append(data.Guards, guardData{
			Left:    name,
			Right:   strconv.Itoa(pin.Want),
			Comment: fmt.Sprintf("%s is pinned to %d fields.", pin.ID.Short(), pin.Want),
		})
	}

	return data, nil
}
