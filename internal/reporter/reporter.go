package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/joshharrison/steploom/internal/planner"
	"github.com/joshharrison/steploom/internal/step"
	"github.com/joshharrison/steploom/internal/ui"
)

// Reporter renders an execution plan for the terminal.
type Reporter struct {
	Plan *planner.ExecutionPlan
}

// New creates a new Reporter.
func New(plan *planner.ExecutionPlan) *Reporter {
	return &Reporter{Plan: plan}
}

// PrintSummary writes a terminal-friendly plan summary: the header, a
// per-wave breakdown with step placement and a footer with worker load.
func (r *Reporter) PrintSummary(w io.Writer) {
	p := r.Plan

	fmt.Fprintf(w, "\n%s\n", ui.BoldCyan("⏱ Steploom Plan"))
	fmt.Fprintf(w, "%s\n", ui.Cyan("═══════════════"))
	fmt.Fprintf(w, "Order:     %s\n", ui.Bold(orderString(p.Order)))
	fmt.Fprintf(w, "Elapsed:   %s ticks on %d workers\n", ui.Bold(p.Elapsed), p.Config.Workers)
	fmt.Fprintf(w, "Bound:     %d ticks", p.LowerBound)
	if over := p.Elapsed - p.LowerBound; over > 0 {
		fmt.Fprintf(w, " %s", ui.Yellow(fmt.Sprintf("(+%d waiting on workers)", over)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Waves:     %d\n", p.TotalWaves)
	fmt.Fprintf(w, "Steps:     %d total\n\n", p.TotalSteps)

	// --- Per-wave breakdown ---
	for _, wave := range p.Waves {
		critical := false
		for _, ps := range wave.Steps {
			critical = critical || ps.IsCritical
		}
		fmt.Fprintf(w, "  🌊 %s %d  %s  (%d steps)\n",
			ui.BoldWhite("Wave"), wave.Index+1, ui.WaveStatus(critical), len(wave.Steps))

		for _, ps := range wave.Steps {
			printStep(w, ps)
		}
		fmt.Fprintln(w)
	}

	// --- Footer ---
	fmt.Fprintf(w, "%s\n", ui.Cyan("───────────────"))
	for _, l := range p.Workers {
		fmt.Fprintf(w, "%s  %5.1f%%  %s\n",
			ui.Bold(ui.WorkerLabel(l.Worker)), l.Utilization*100,
			ui.Dim(strings.Join(step.Strings(l.Steps), " ")))
	}

	if len(p.CriticalPath) > 0 {
		fmt.Fprintf(w, "Critical:  %s\n",
			ui.BoldYellow("⚡ "+strings.Join(step.Strings(p.CriticalPath), " → ")))
	}
}

// printStep writes a single step line for the summary.
func printStep(w io.Writer, ps planner.PlannedStep) {
	critical := " "
	if ps.IsCritical {
		critical = ui.BoldYellow("⚡")
	}

	slack := ""
	if ps.Slack > 0 {
		slack = ui.Dim(fmt.Sprintf("slack %d", ps.Slack))
	}

	fmt.Fprintf(w, "    %s %-8s %s  %s  %s  %s\n",
		ui.StatusIcon("done"),
		ui.StepPrefix(string(ps.Step)),
		ui.WorkerLabel(ps.Worker),
		ui.Dim(fmt.Sprintf("[%d-%d)", ps.Start, ps.Finish)),
		critical, slack)
}

// PrintTimeline writes the tick table: one row per tick with the step each
// worker holds and the steps completed so far.
func (r *Reporter) PrintTimeline(w io.Writer) {
	p := r.Plan
	workers := p.Config.Workers

	// occupancy[worker][tick]
	occupancy := make([][]step.Step, workers)
	for i := range occupancy {
		occupancy[i] = make([]step.Step, p.Elapsed)
	}
	finishes := make(map[int][]step.Step)
	for _, ps := range p.Steps {
		if ps.Worker >= workers {
			continue
		}
		for t := ps.Start; t < ps.Finish && t < p.Elapsed; t++ {
			occupancy[ps.Worker][t] = ps.Step
		}
		finishes[ps.Finish] = append(finishes[ps.Finish], ps.Step)
	}

	width := 1
	for s := range p.Steps {
		if len(s) > width {
			width = len(s)
		}
	}
	for i := 0; i < workers; i++ {
		if l := len(ui.WorkerLabel(i)); l > width {
			width = l
		}
	}

	fmt.Fprintf(w, "%-6s", "Tick")
	for i := 0; i < workers; i++ {
		fmt.Fprintf(w, " %-*s", width, ui.WorkerLabel(i))
	}
	fmt.Fprintln(w, " Done")

	done := make(step.Set, len(p.Steps))
	for t := 0; t < p.Elapsed; t++ {
		for _, s := range finishes[t] {
			done.Add(s)
		}

		fmt.Fprintf(w, "%-6d", t)
		for i := 0; i < workers; i++ {
			cell := "."
			if s := occupancy[i][t]; s != "" {
				cell = string(s)
			}
			fmt.Fprintf(w, " %-*s", width, cell)
		}
		fmt.Fprintf(w, " %s\n", orderString(completedInOrder(p, done)))
	}
}

// completedInOrder lists the done steps by finish tick, then name.
func completedInOrder(p *planner.ExecutionPlan, done step.Set) []step.Step {
	out := done.Sorted()
	sort.SliceStable(out, func(i, j int) bool {
		return p.Steps[out[i]].Finish < p.Steps[out[j]].Finish
	})
	return out
}

func orderString(steps []step.Step) string {
	return step.Join(steps, " ")
}

// JSON returns the plan as indented JSON.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Plan, "", "  ")
}
