// Package observability provides formatted console output for merge runs.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nmrenyi/rosenwald-benchmark/internal/types"
)

const (
	// ruleWidth is the width of the separator lines around the summary
	ruleWidth = 60
	// maxFilesToShow is the number of file names listed per group in scan output
	maxFilesToShow = 3
)

// Printer handles human-readable output. Styling degrades to plain text
// when out is not a terminal.
type Printer struct {
	out     io.Writer
	verbose bool

	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	title lipgloss.Style
	box   lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:   out,
		ok:    r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		title: r.NewStyle().Bold(true),
		box:   r.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}

// SetVerbose enables [VERBOSE] diagnostic lines.
func (p *Printer) SetVerbose(v bool) {
	p.verbose = v
}

// Verbosef prints a diagnostic line when verbose mode is on.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Verbosef(format string, args ...any) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "[VERBOSE] %s\n", strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// PrintStart announces the run.
//
//nolint:errcheck
func (p *Printer) PrintStart() {
	fmt.Fprintln(p.out, "Starting file combination process...")
	fmt.Fprintln(p.out)
}

// PrintDone closes the run.
//
//nolint:errcheck
func (p *Printer) PrintDone() {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.ok.Render("✅ Done!"))
}

// PrintMerged reports one written output file.
//
//nolint:errcheck
func (p *Printer) PrintMerged(res *types.MergeResult) {
	if res == nil {
		return
	}
	fmt.Fprintf(p.out, "%s Created %s (%d lines)\n", p.ok.Render("✓"), filepath.Base(res.OutputPath), res.Lines)
	if res.HeaderMismatch {
		fmt.Fprintf(p.out, "%s  Warning: Header of %s differs from %s\n",
			p.warn.Render("⚠️"), filepath.Base(res.Secondary), filepath.Base(res.Primary))
	}
}

// PrintSkipped reports a group that was not merged.
//
//nolint:errcheck
func (p *Printer) PrintSkipped(o types.GroupOutcome) {
	fmt.Fprintf(p.out, "%s  Warning: %s\n", p.warn.Render("⚠️"), o.Reason)
}

// PrintFailed reports a group whose merge failed while the run continues.
//
//nolint:errcheck
func (p *Printer) PrintFailed(o types.GroupOutcome) {
	fmt.Fprintf(p.out, "%s Failed to merge %s: %s\n", p.fail.Render("✗"), o.Identifier, o.Reason)
}

// PrintOutcome dispatches on the outcome status.
func (p *Printer) PrintOutcome(o types.GroupOutcome, res *types.MergeResult) {
	switch o.Status {
	case types.StatusMerged:
		p.PrintMerged(res)
	case types.StatusSkipped:
		p.PrintSkipped(o)
	case types.StatusFailed:
		p.PrintFailed(o)
	}
}

// PrintSummary outputs the run counters.
//
//nolint:errcheck
func (p *Printer) PrintSummary(s types.Summary) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(p.out, "\n%s\n", rule)
	fmt.Fprintln(p.out, p.title.Render("Summary:"))
	fmt.Fprintf(p.out, "  Files processed: %d\n", s.Processed)
	fmt.Fprintf(p.out, "  Files skipped: %d\n", s.Skipped)
	if s.Failed > 0 {
		fmt.Fprintf(p.out, "  Files failed: %d\n", s.Failed)
	}
	fmt.Fprintf(p.out, "  Total lines written: %d\n", s.TotalLines)
	fmt.Fprintf(p.out, "  Output directory: %s\n", s.OutputDir)
	fmt.Fprintln(p.out, rule)
}

// PrintGroups lists groups and whether each one is a complete pair.
//
//nolint:errcheck
func (p *Printer) PrintGroups(groups []types.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(p.out, "No matching files found")
		return
	}

	var sb strings.Builder
	complete := 0
	for _, g := range groups {
		mark := p.ok.Render("✓")
		if g.Complete() {
			complete++
		} else {
			mark = p.warn.Render("⚠")
		}
		sb.WriteString(fmt.Sprintf("%s %s  (%d files)\n", mark, g.Identifier, len(g.Files)))

		count := min(len(g.Files), maxFilesToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("    %s\n", shorten(filepath.Base(g.Files[i]))))
		}
		if len(g.Files) > maxFilesToShow {
			sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(g.Files)-maxFilesToShow))
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d groups, %d complete, %d incomplete", len(groups), complete, len(groups)-complete))

	fmt.Fprintln(p.out, p.box.Render(p.title.Render("GROUPS")+"\n\n"+sb.String()))
}

// shorten keeps the informative tail of long export names.
func shorten(name string) string {
	const keep = 40
	r := []rune(name)
	if len(r) <= keep {
		return name
	}
	return "..." + string(r[len(r)-keep:])
}
