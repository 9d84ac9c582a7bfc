package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/term"
)

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Reporter writes human-readable benchmark results.
type Reporter struct {
	out   io.Writer
	color bool
}

// NewReporter creates a reporter that writes to out, coloring outcome
// labels when out is a terminal.
func NewReporter(out io.Writer) *Reporter {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Reporter{out: out, color: color}
}

// ReportResult outputs one row.
func (r *Reporter) ReportResult(res Result) {
	label := res.Outcome.String()
	if r.color {
		switch res.Outcome {
		case OutcomeSkip:
			label = skipStyle.Render(label)
		case OutcomeError:
			label = errorStyle.Render(label)
		default:
			label = passStyle.Render(label)
		}
	}

	switch res.Outcome {
	case OutcomeSkip:
		fmt.Fprintf(r.out, "%s: %s\n  Reason: %s\n", label, res.Name, res.Reason)
	case OutcomeError:
		fmt.Fprintf(r.out, "%s: %s\n  Cause: %s\n", label, res.Name, res.Reason)
	default:
		fmt.Fprintf(r.out, "%s: %s\n", label, res.Name)
		fmt.Fprintf(r.out, "  Iterations: %d\n", res.Iterations)
		fmt.Fprintf(r.out, "  Total time: %s\n", formatDuration(res.Total))
		fmt.Fprintf(r.out, "  Per op:     %.2f %s\n", res.PerOpInUnit(), res.Unit)
		fmt.Fprintf(r.out, "  Min/Max:    %s / %s\n", formatDuration(res.Min), formatDuration(res.Max))
		fmt.Fprintf(r.out, "  Ops/sec:    %.2f\n", res.OpsPerSecond())
	}
}

// ReportSummary outputs the final tally.
func (r *Reporter) ReportSummary(s Summary) {
	fmt.Fprintf(r.out, "\n%d rows, %d passed, %d skipped, %d failed\n", s.Total, s.Passed, s.Skipped, s.Failed)
}

// formatDuration renders a duration with a unit fitting its magnitude.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// JSONReporter writes one JSON object per row, tagged with a run ID so
// downstream tooling can group rows from the same invocation.
type JSONReporter struct {
	out   io.Writer
	runID string
}

// NewJSONReporter creates a JSON-lines reporter with a fresh run ID.
func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out, runID: uuid.NewString()}
}

// RunID returns the identifier attached to every row of this run.
func (r *JSONReporter) RunID() string { return r.runID }

type jsonRow struct {
	RunID   string `json:"run_id"`
	Outcome string `json:"outcome"`
	Unit    string `json:"unit"`
	Result
}

// ReportResult writes one row as a JSON line.
func (r *JSONReporter) ReportResult(res Result) {
	row := jsonRow{RunID: r.runID, Outcome: res.Outcome.String(), Unit: res.Unit.String(), Result: res}
	data, err := json.Marshal(row)
	if err != nil {
		fmt.Fprintf(r.out, `{"run_id":%q,"name":%q,"error":"marshal failed"}`+"\n", r.runID, res.Name)
		return
	}
	r.out.Write(append(data, '\n'))
}
