package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored steploom logo to stderr.
func PrintLogo() {
	w := os.Stderr
	frame := color.New(color.FgCyan)
	steps := color.New(color.FgYellow)
	rails := color.New(color.FgCyan, color.Faint)
	sep := color.New(color.FgCyan)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +--------------------------+")
	steps.Fprintln(w, "   |  A--B--C     X--Y        |")
	rails.Fprintln(w, "   |   \\    \\     |          |")
	sep.Fprintln(w, "   |==========================|")
	brand.Fprintln(w, "   |  S  T  E  P  L  O  O  M  |")
	sep.Fprintln(w, "   |==========================|")
	rails.Fprintln(w, "   |  W1 W2 W3 W4 W5 W6 W7 W8 |")
	frame.Fprintln(w, "   +--------------------------+")
	tag.Fprintf(w, "   %s Dependency-ordered step scheduling\n", Dim("⏱"))
	fmt.Fprintln(w)
}

// stepColors is a palette of distinct bold colors for differentiating steps.
var stepColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// stepColorIndex hashes a step name to a palette index.
func stepColorIndex(name string) int {
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(stepColors)))
}

// StepName returns the step name in its palette color.
func StepName(name string) string {
	return stepColors[stepColorIndex(name)](name)
}

// StepPrefix returns a colored [step] prefix string.
// Each step gets a distinct color from the palette.
func StepPrefix(name string) string {
	return Dim("[") + StepName(name) + Dim("]")
}

// WorkerLabel returns the 1-based label used for worker columns.
func WorkerLabel(id int) string {
	return fmt.Sprintf("W%d", id+1)
}

// StatusIcon returns a colored status icon for compact table display.
func StatusIcon(status string) string {
	switch status {
	case "done":
		return Green("✓")
	case "busy":
		return Cyan("●")
	case "stalled":
		return Red("✗")
	default:
		return Dim("◌")
	}
}

// WaveStatus returns a colored wave status string.
func WaveStatus(critical bool) string {
	if critical {
		return BoldRed("critical")
	}
	return Dim("slack")
}
