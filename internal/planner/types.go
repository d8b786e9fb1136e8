package planner

import (
	"github.com/joshharrison/steploom/internal/resolve"
	"github.com/joshharrison/steploom/internal/step"
)

// StepDeps holds per-step predecessor and successor lists for dependency tracking.
type StepDeps struct {
	Predecessors map[step.Step][]step.Step `json:"predecessors"`
	Successors   map[step.Step][]step.Step `json:"successors"`
}

// ExecutionPlan is the complete outcome of scheduling a graph.
type ExecutionPlan struct {
	TotalSteps   int                        `json:"total_steps"`
	TotalWaves   int                        `json:"total_waves"`
	Order        []step.Step                `json:"order"`       // single-worker completion order
	Elapsed      int                        `json:"elapsed"`     // ticks with Config.Workers workers
	LowerBound   int                        `json:"lower_bound"` // ticks with unlimited workers
	CriticalPath []step.Step                `json:"critical_path"`
	Waves        []ExecutionWave            `json:"waves"`
	Steps        map[step.Step]*PlannedStep `json:"steps"`
	Workers      []WorkerLoad               `json:"workers"`
	Deps         StepDeps                   `json:"deps"`
	Config       PlanConfig                 `json:"config"`
}

// ExecutionWave is a group of steps whose earliest start coincides.
type ExecutionWave struct {
	Index     int           `json:"index"`
	Steps     []PlannedStep `json:"steps"`
	DependsOn []int         `json:"depends_on"`
}

// PlannedStep is a single step with its simulated and analysed timing.
type PlannedStep struct {
	Step       step.Step `json:"step"`
	Duration   int       `json:"duration"`
	Worker     int       `json:"worker"`
	Start      int       `json:"start"`
	Finish     int       `json:"finish"`
	Slack      int       `json:"slack"`
	IsCritical bool      `json:"is_critical"`
	WaveIndex  int       `json:"wave_index"`
}

// WorkerLoad summarises how a worker slot spent the run.
type WorkerLoad struct {
	Worker      int         `json:"worker"`
	BusyTicks   int         `json:"busy_ticks"`
	Steps       []step.Step `json:"steps"`
	Utilization float64     `json:"utilization"` // BusyTicks / Elapsed
}

// PlanConfig holds the configuration a plan was produced under.
type PlanConfig struct {
	Workers    int          `json:"workers"`
	BaseOffset int          `json:"base_offset"`
	Rank       step.Rank    `json:"rank"`
	Resolver   resolve.Kind `json:"resolver"`
}
