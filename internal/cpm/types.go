package cpm

import "github.com/joshharrison/steploom/internal/step"

// CPMResult holds the complete critical path analysis.
type CPMResult struct {
	Steps         map[step.Step]*StepSchedule
	CriticalPath  []step.Step // ordered steps on critical path
	TotalDuration int         // lower bound with unlimited workers
	Waves         []Wave      // parallelizable groups
	TopoOrder     []step.Step
}

// StepSchedule holds the scheduling info for a single step.
type StepSchedule struct {
	Step       step.Step
	Duration   int
	ES, EF     int // earliest start/finish
	LS, LF     int // latest start/finish
	Slack      int
	IsCritical bool
	Wave       int // which parallel wave this belongs to
}

// Wave represents a group of steps that can execute in parallel.
type Wave struct {
	Index      int
	Steps      []step.Step
	IsCritical bool // true if wave contains critical path steps
}
