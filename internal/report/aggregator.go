package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/alexisbeaulieu97/eetest/internal/model"
)

const rule = "++++++++++++++++++++++++++++++++++++++++++++++++++"

// Options configures an Aggregator.
type Options struct {
	Color bool
	Table bool
	// Echo prints each line as soon as it is recorded.
	Echo bool
}

// Aggregator collects one line per executed target and prints them once the
// run is over. With Echo set, lines are also printed as they are recorded. It is not safe for concurrent use.
type Aggregator struct {
	out     io.Writer
	opts    Options
	styles  styles
	lines   []string
	results []model.TargetResult
}

// New creates an Aggregator writing to out.
func New(out io.Writer, opts Options) *Aggregator {
	return &Aggregator{out: out, opts: opts, styles: newStyles(out, opts.Color)}
}

// Banner announces a target and the command about to run.
func (a *Aggregator) Banner(name, invocation string) {
	for _, line := range []string{
		rule,
		fmt.Sprintf("+    RUNNING TARGET => %s", name),
		fmt.Sprintf("+ %s", invocation),
		rule,
	} {
		fmt.Fprintln(a.out, a.styles.banner.Render(line))
	}
}

// Skip prints a diagnostic for a filtered target.
func (a *Aggregator) Skip(name, reason string) {
	fmt.Fprintln(a.out, a.styles.skip.Render(fmt.Sprintf("[SKIP] %s %s", name, reason)))
}

// Record appends the line for res and returns it.
func (a *Aggregator) Record(res model.TargetResult) string {
	line := a.Line(res)
	a.lines = append(a.lines, line)
	a.results = append(a.results, res)
	if a.opts.Echo {
		fmt.Fprintln(a.out, line)
	}
	return line
}

// Line formats the pass/fail marker for res.
func (a *Aggregator) Line(res model.TargetResult) string {
	prefix := fmt.Sprintf("++++ %s -> ", res.Target)
	if res.Passed() {
		return prefix + a.styles.ok.Render("OK")
	}
	line := prefix + a.styles.ko.Render("KO")
	if res.OutputFile != "" {
		line += fmt.Sprintf(" (See details %s)", res.OutputFile)
	}
	return line
}

// Lines returns the recorded lines in processing order.
func (a *Aggregator) Lines() []string {
	return append([]string(nil), a.lines...)
}

// Results returns the recorded results in processing order.
func (a *Aggregator) Results() []model.TargetResult {
	return append([]model.TargetResult(nil), a.results...)
}

// Failed counts recorded failures.
func (a *Aggregator) Failed() int {
	n := 0
	for _, r := range a.results {
		if !r.Passed() {
			n++
		}
	}
	return n
}

// SummaryHeader introduces the final block when lines were already echoed.
const SummaryHeader = "Summary:"

// Print writes every recorded line, then the summary table when enabled.
func (a *Aggregator) Print() {
	if a.opts.Echo && len(a.lines) > 0 {
		fmt.Fprintln(a.out, a.styles.banner.Render(SummaryHeader))
	}
	fmt.Fprintln(a.out, strings.Join(a.lines, "\n"))
	if a.opts.Table && len(a.results) > 0 {
		fmt.Fprintln(a.out, a.Table())
	}
}

// Table renders the recorded results as a table.
func (a *Aggregator) Table() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Integration targets (%d run, %d failed)", len(a.results), a.Failed()))
	t.AppendHeader(table.Row{"Target", "Status", "Exit", "Duration", "Details"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Target", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Exit", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	for _, r := range a.results {
		status := a.styles.ok.Render("OK")
		if !r.Passed() {
			status = a.styles.ko.Render("KO")
		}
		details := r.OutputFile
		if r.Error != nil {
			details = r.Error.Error()
		}
		t.AppendRow(table.Row{r.Target, status, r.ExitCode, r.Duration.Truncate(time.Second).String(), details})
	}

	return t.Render()
}
