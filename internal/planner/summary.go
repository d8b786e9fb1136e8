package planner

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/joshharrison/steploom/internal/step"
)

const defaultSummaryTemplate = `Steps:        {{.TotalSteps}} in {{.TotalWaves}} waves
Order:        {{.Order}}
Elapsed:      {{.Elapsed}} ticks on {{.Workers}} {{if eq .Workers 1}}worker{{else}}workers{{end}}
Lower bound:  {{.LowerBound}} ticks
Critical:     {{.CriticalPath}}
{{- if gt .Elapsed .LowerBound}}
Idle cost:    {{.Overrun}} ticks over the critical path
{{- end}}
{{range .Loads}}
  W{{.Worker}}  {{printf "%5.1f" .Percent}}%  {{.Steps}}
{{- end}}
`

// SummaryData is the data passed to the summary template.
type SummaryData struct {
	TotalSteps   int
	TotalWaves   int
	Order        string
	Elapsed      int
	Workers      int
	LowerBound   int
	Overrun      int
	CriticalPath string
	Loads        []SummaryLoad
}

// SummaryLoad is one worker line in the summary template.
type SummaryLoad struct {
	Worker  int
	Percent float64
	Steps   string
}

// NewSummaryData flattens a plan into template-friendly values.
func NewSummaryData(plan *ExecutionPlan) SummaryData {
	data := SummaryData{
		TotalSteps:   plan.TotalSteps,
		TotalWaves:   plan.TotalWaves,
		Order:        step.Join(plan.Order, ","),
		Elapsed:      plan.Elapsed,
		Workers:      plan.Config.Workers,
		LowerBound:   plan.LowerBound,
		Overrun:      plan.Elapsed - plan.LowerBound,
		CriticalPath: strings.Join(step.Strings(plan.CriticalPath), " -> "),
	}
	if data.Order == "" {
		data.Order = "-"
	}
	for _, l := range plan.Workers {
		data.Loads = append(data.Loads, SummaryLoad{
			Worker:  l.Worker + 1,
			Percent: l.Utilization * 100,
			Steps:   strings.Join(step.Strings(l.Steps), " "),
		})
	}
	return data
}

// RenderSummary renders the plan summary using either a custom template file
// or the built-in default.
func RenderSummary(plan *ExecutionPlan, templatePath string) (string, error) {
	tmplText := defaultSummaryTemplate

	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return "", fmt.Errorf("read summary template %s: %w", templatePath, err)
		}
		tmplText = string(data)
	}

	tmpl, err := template.New("summary").Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("parse summary template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, NewSummaryData(plan)); err != nil {
		return "", fmt.Errorf("execute summary template: %w", err)
	}

	return buf.String(), nil
}
