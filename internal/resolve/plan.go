package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"arity-generator/internal/analyze"
	"arity-generator/internal/common"
	"arity-generator/internal/config"
	"arity-generator/internal/diagnostic"
	"arity-generator/internal/directive"
	"arity-generator/internal/search"
)

// Origin tells where a pair or pin was declared.
type Origin string

const (
	OriginConfig    Origin = "config"
	OriginDirective Origin = "directive"
)

// Pair is a legacy record and the wrapper that must keep its field count.
type Pair struct {
	Name    string
	Legacy  analyze.TypeID
	Wrapper analyze.TypeID
	Origin  Origin
	// Location is the directive position, empty for configured pairs.
	Location string
}

// Pin is an expected count declared with //arity:count.
type Pin struct {
	ID       analyze.TypeID
	Want     int
	Location string
}

// Drift is a pair or pin whose counts disagree.
type Drift struct {
	Pair         *Pair
	Pin          *Pin
	LegacyCount  int
	WrapperCount int
}

func (d Drift) String() string {
	if d.Pin != nil {
		return fmt.Sprintf("%s has %d fields, pinned to %d", d.Pin.ID.Short(), d.WrapperCount, d.Pin.Want)
	}

	return fmt.Sprintf("%s has %d fields but %s has %d",
		d.Pair.Legacy.Short(), d.LegacyCount, d.Pair.Wrapper.Short(), d.WrapperCount)
}

// Plan is the work of one run.
type Plan struct {
	// Records are counted and emitted as constants, in plan order.
	// They include every pair member and pinned type.
	Records []analyze.TypeID
	Pairs   []Pair
	Pins    []Pin
}

// BuildPlan resolves the references in cfg against graph and, when
// discovery is enabled, adds pairs and pins declared with directives.
// Unresolvable references are reported as not_found errors.
func BuildPlan(graph *analyze.TypeGraph, cfg *config.Config, diags *diagnostic.Diagnostics) Plan {
	var plan Plan

	records := orderedmap.NewOrderedMap[analyze.TypeID, struct{}]()
	addRecord := func(id analyze.TypeID) {
		if records.Set(id, struct{}{}) {
			plan.Records = append(plan.Records, id)
		}
	}

	for _, ref := range cfg.Records {
		info, err := graph.Resolve(ref)
		if err != nil {
			reportLookup(diags, ref, "records", err)

			continue
		}

		addRecord(info.ID)
	}

	for i, pc := range cfg.Pairs {
		where := fmt.Sprintf("pairs[%d]", i)

		legacy, lerr := graph.Resolve(pc.Legacy)
		if lerr != nil {
			reportLookup(diags, pc.Legacy, where+".legacy", lerr)
		}

		wrapper, werr := graph.Resolve(pc.Wrapper)
		if werr != nil {
			reportLookup(diags, pc.Wrapper, where+".wrapper", werr)
		}

		if lerr != nil || werr != nil {
			continue
		}

		name := pc.Name
		if name == "" {
			name = wrapper.ID.Name
		}

		plan.Pairs = append(plan.Pairs, Pair{Name: name, Legacy: legacy.ID, Wrapper: wrapper.ID, Origin: OriginConfig})
		addRecord(legacy.ID)
		addRecord(wrapper.ID)
	}

	if cfg.Discover {
		discover(graph, &plan, addRecord, diags)
	}

	if len(plan.Records) == 0 {
		diags.AddWarning(diagnostic.CodeEmpty, "no records, pairs or pinned types found", "", "")
	}

	return plan
}

func discover(graph *analyze.TypeGraph, plan *Plan, addRecord func(analyze.TypeID), diags *diagnostic.Diagnostics) {
	for _, info := range graph.Sorted() {
		loc := info.Pos.String()

		for _, d := range info.Directives {
			switch d.Kind {
			case directive.KindMirror:
				legacy, err := lookupFrom(graph, info.ID.PkgPath, d.Ref)
				if err != nil {
					reportLookup(diags, d.Ref, loc, err)

					continue
				}

				if plan.hasPair(legacy.ID, info.ID) {
					diags.AddInfo(diagnostic.CodeDuplicate, "pair is also configured", info.ID.String(), loc)

					continue
				}

				plan.Pairs = append(plan.Pairs, Pair{
					Name:     info.ID.Name,
					Legacy:   legacy.ID,
					Wrapper:  info.ID,
					Origin:   OriginDirective,
					Location: loc,
				})
				addRecord(legacy.ID)
				addRecord(info.ID)
			case directive.KindCount:
				plan.Pins = append(plan.Pins, Pin{ID: info.ID, Want: d.Count, Location: loc})
				addRecord(info.ID)
			}
		}
	}
}

func (p *Plan) hasPair(legacy, wrapper analyze.TypeID) bool {
	for _, pair := range p.Pairs {
		if pair.Legacy == legacy && pair.Wrapper == wrapper {
			return true
		}
	}

	return false
}

// lookupFrom resolves a directive reference. An unqualified name refers to
// the declaring package.
func lookupFrom(graph *analyze.TypeGraph, pkgPath, ref string) (*analyze.TypeInfo, error) {
	if !strings.Contains(ref, ".") {
		if info := graph.GetType(analyze.TypeID{PkgPath: pkgPath, Name: ref}); info != nil {
			return info, nil
		}
	}

	return graph.Resolve(ref)
}

func reportLookup(diags *diagnostic.Diagnostics, ref, location string, err error) {
	code := diagnostic.CodeNotFound
	if errors.Is(err, analyze.ErrAmbiguousType) {
		code = diagnostic.CodeMisuse
	}

	diags.AddError(code, err.Error(), ref, location)
}

// Verify reports unresolved records and drifting pairs and pins.
func Verify(plan Plan, results *Results, diags *diagnostic.Diagnostics) []Drift {
	for el := results.Front(); el != nil; el = el.Next() {
		rec := el.Value
		if rec.OK() {
			continue
		}

		diags.AddError(codeFor(rec.Err), rec.Err.Error(), rec.ID.String(), "")
	}

	var drifts []Drift

	for i := range plan.Pairs {
		pair := &plan.Pairs[i]

		legacy, lok := results.Get(pair.Legacy)
		wrapper, wok := results.Get(pair.Wrapper)
		if !lok || !wok || !legacy.OK() || !wrapper.OK() {
			continue
		}

		if legacy.Count == wrapper.Count {
			continue
		}

		d := Drift{Pair: pair, LegacyCount: legacy.Count, WrapperCount: wrapper.Count}
		drifts = append(drifts, d)
		diags.AddError(diagnostic.CodeDrift, d.String(), pair.Name, pair.Location)
	}

	for i := range plan.Pins {
		pin := &plan.Pins[i]

		rec, ok := results.Get(pin.ID)
		if !ok || !rec.OK() || rec.Count == pin.Want {
			continue
		}

		d := Drift{Pin: pin, WrapperCount: rec.Count}
		drifts = append(drifts, d)
		diags.AddError(diagnostic.CodeDrift, d.String(), pin.ID.String(), pin.Location)
	}

	return drifts
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, search.ErrIndeterminate):
		return diagnostic.CodeIndeterminate
	case errors.Is(err, ErrEngineMismatch):
		return diagnostic.CodeEngineMismatch
	case errors.Is(err, analyze.ErrTypeNotFound):
		return diagnostic.CodeNotFound
	default:
		return diagnostic.CodeMisuse
	}
}

// ConstName is the generated constant for a record, e.g. LegacyOrderFieldCount.
func ConstName(id analyze.TypeID) string {
	return common.ExportedName(common.PkgAlias(id.PkgPath)) + common.ExportedName(id.Name) + "FieldCount"
}
