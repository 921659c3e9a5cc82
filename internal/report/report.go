// Package report renders resolution results as aligned terminal tables.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"arity-generator/internal/diagnostic"
	"arity-generator/internal/resolve"
)

// Status of a table row.
type Status string

const (
	StatusOK    Status = "ok"
	StatusDrift Status = "drift"
	StatusError Status = "error"
	StatusStale Status = "stale"
)

const columnGap = "  "

// Reporter writes tables to an output stream.
type Reporter struct {
	w     io.Writer
	color bool
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithColor toggles ANSI colours.
func WithColor(enabled bool) Option {
	return func(r *Reporter) {
		r.color = enabled
	}
}

// New creates a Reporter writing to w. Colours are on only when w is a
// terminal that supports them, unless overridden.
func New(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{w: w, color: isTerminal(w) && color.SupportColor()}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Counts writes one row per record.
func (r *Reporter) Counts(results *resolve.Results) error {
	t := table{header: []string{"TYPE", "FIELDS", "PROBES", "STATUS"}}

	for el := results.Front(); el != nil; el = el.Next() {
		rec := el.Value

		count, status := strconv.Itoa(rec.Count), StatusOK
		if !rec.OK() {
			count, status = "-", StatusError
		}

		t.add(string(status), rec.ID.String(), count, strconv.Itoa(rec.Calls), string(status))
	}

	return r.render(t)
}

// Drifts writes one row per drifting pair or pin.
func (r *Reporter) Drifts(drifts []resolve.Drift) error {
	if len(drifts) == 0 {
		return nil
	}

	t := table{header: []string{"SUBJECT", "EXPECTED", "ACTUAL", "DETAIL"}}

	for _, d := range drifts {
		if d.Pin != nil {
			t.add(string(StatusDrift), d.Pin.ID.Short(), strconv.Itoa(d.Pin.Want), strconv.Itoa(d.WrapperCount), "pinned count")

			continue
		}

		t.add(string(StatusDrift), d.Pair.Wrapper.Short(), strconv.Itoa(d.LegacyCount), strconv.Itoa(d.WrapperCount),
			"mirrors "+d.Pair.Legacy.Short())
	}

	return r.render(t)
}

// Diagnostics writes every diagnostic, errors first.
func (r *Reporter) Diagnostics(diags *diagnostic.Diagnostics) error {
	for _, d := range diags.All() {
		line := d.Severity.String() + ": " + d.String()

		switch d.Severity {
		case diagnostic.DiagnosticError:
			line = r.paint(color.Red, line)
		case diagnostic.DiagnosticWarning:
			line = r.paint(color.Yellow, line)
		}

		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}

	return nil
}

// Stale reports a generated file that no longer matches the sources.
func (r *Reporter) Stale(path string) error {
	msg := fmt.Sprintf("%s: %s is out of date, run arity-generator gen", StatusStale, path)
	_, err := fmt.Fprintln(r.w, r.paint(r.statusColor(string(StatusStale)), msg))

	return err
}

// Summary writes a one-line verdict.
func (r *Reporter) Summary(records, drifts, errs int) error {
	msg := fmt.Sprintf("%d records, %d drifted, %d errors", records, drifts, errs)

	style := color.Green
	if drifts > 0 || errs > 0 {
		style = color.Red
	}

	_, err := fmt.Fprintln(r.w, r.paint(style, msg))

	return err
}

func (r *Reporter) paint(c color.Color, s string) string {
	if !r.color {
		return s
	}

	return c.Sprint(s)
}

func (r *Reporter) statusColor(s string) color.Color {
	switch Status(s) {
	case StatusOK:
		return color.Green
	case StatusDrift, StatusStale:
		return color.Yellow
	default:
		return color.Red
	}
}

type table struct {
	header []string
	rows   [][]string
	// tags colour the last cell of each row; empty leaves it plain.
	tags []string
}

func (t *table) add(tag string, cells ...string) {
	t.rows = append(t.rows, cells)
	t.tags = append(t.tags, tag)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	return widths
}

func (r *Reporter) render(t table) error {
	widths := t.widths()
	last := len(t.header) - 1

	line := func(cells []string, tag string) string {
		var sb strings.Builder

		for i, cell := range cells {
			if i == last {
				if tag != "" {
					cell = r.paint(r.statusColor(tag), cell)
				}

				sb.WriteString(cell)

				break
			}

			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString(columnGap)
		}

		return sb.String()
	}

	if _, err := fmt.Fprintln(r.w, r.paint(color.Bold, line(t.header, ""))); err != nil {
		return err
	}

	for i, row := range t.rows {
		if _, err := fmt.Fprintln(r.w, line(row, t.tags[i])); err != nil {
			return err
		}
	}

	return nil
}
