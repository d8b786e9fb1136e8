package main

import (
	"fmt"
	"io"

	"github.com/joshharrison/steploom/internal/cpm"
	"github.com/joshharrison/steploom/internal/graph"
	"github.com/joshharrison/steploom/internal/planner"
	"github.com/joshharrison/steploom/internal/step"
	"github.com/joshharrison/steploom/internal/ui"
)

func printASCIIDAG(w io.Writer, plan *planner.ExecutionPlan, g *graph.Graph) {
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Step Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("═══════════════════════"))
	fmt.Fprintln(w)

	for _, wave := range plan.Waves {
		fmt.Fprintf(w, "%s 🌊 Wave %d %s\n", ui.Cyan("──"), wave.Index+1, ui.Cyan("──────────────────────────────"))
		for _, ps := range wave.Steps {
			crit := " "
			if ps.IsCritical {
				crit = ui.BoldYellow("⚡")
			}
			fmt.Fprintf(w, "  %s %s %s\n", crit, ui.StepPrefix(string(ps.Step)),
				ui.Dim(fmt.Sprintf("%d ticks", ps.Duration)))

			// Show edges
			for _, next := range g.Dependents(ps.Step) {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(next))
			}
		}
		fmt.Fprintln(w)
	}
}

func printDOT(w io.Writer, g *graph.Graph, result *cpm.CPMResult) {
	fmt.Fprintln(w, "digraph steploom {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	critical := func(s step.Step) bool {
		ss, ok := result.Steps[s]
		return ok && ss.IsCritical
	}

	for _, s := range g.Steps() {
		ss := result.Steps[s]
		label := fmt.Sprintf("%s\\n%d", s, ss.Duration)
		attrs := fmt.Sprintf(`label="%s"`, label)
		if ss.IsCritical {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %q [%s];\n", string(s), attrs)
	}

	fmt.Fprintln(w)

	for _, e := range g.Edges() {
		style := ""
		if critical(e.Before) && critical(e.After) {
			style = ` [color=red, penwidth=2]`
		}
		fmt.Fprintf(w, "  %q -> %q%s;\n", string(e.Before), string(e.After), style)
	}

	fmt.Fprintln(w, "}")
}
