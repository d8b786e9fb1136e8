package planner

import (
	"errors"
	"fmt"

	"github.com/joshharrison/steploom/internal/cpm"
	"github.com/joshharrison/steploom/internal/graph"
	"github.com/joshharrison/steploom/internal/resolve"
	"github.com/joshharrison/steploom/internal/sim"
	"github.com/joshharrison/steploom/internal/step"
)

// ErrIncompleteSchedule is returned when the simulation result does not
// cover every step of the graph.
var ErrIncompleteSchedule = errors.New("schedule does not cover every step")

// Generate creates an ExecutionPlan from the critical path analysis, the
// single-worker order and a simulation run of the same graph.
func Generate(g *graph.Graph, cpmResult *cpm.CPMResult, order []step.Step, run *sim.Result, config PlanConfig) (*ExecutionPlan, error) {
	if cpmResult == nil || run == nil {
		return nil, errors.New("planner: analysis and simulation results are required")
	}
	if config.Workers == 0 {
		config.Workers = run.Workers
	}
	if config.Rank == "" {
		config.Rank = step.RankAlphabet
	}
	if config.Resolver == "" {
		config.Resolver = resolve.KindFrontier
	}

	byStep := make(map[step.Step]sim.Assignment, len(run.Assignments))
	for _, a := range run.Assignments {
		byStep[a.Step] = a
	}
	if len(byStep) != g.Len() {
		return nil, fmt.Errorf("%w: %d of %d steps assigned", ErrIncompleteSchedule, len(byStep), g.Len())
	}

	plan := &ExecutionPlan{
		TotalSteps:   g.Len(),
		TotalWaves:   len(cpmResult.Waves),
		Order:        append([]step.Step(nil), order...),
		Elapsed:      run.Elapsed,
		LowerBound:   cpmResult.TotalDuration,
		CriticalPath: cpmResult.CriticalPath,
		Steps:        make(map[step.Step]*PlannedStep, g.Len()),
		Config:       config,
	}

	for _, wave := range cpmResult.Waves {
		ew := ExecutionWave{
			Index:     wave.Index,
			DependsOn: []int{},
		}

		// Each wave depends on the previous one
		if wave.Index > 0 {
			ew.DependsOn = []int{wave.Index - 1}
		}

		for _, s := range wave.Steps {
			schedule, ok := cpmResult.Steps[s]
			if !ok {
				return nil, fmt.Errorf("step %s: %w", s, graph.ErrUnknownStep)
			}
			a, ok := byStep[s]
			if !ok {
				return nil, fmt.Errorf("%w: step %s never started", ErrIncompleteSchedule, s)
			}

			ps := PlannedStep{
				Step:       s,
				Duration:   a.Duration,
				Worker:     a.Worker,
				Start:      a.Start,
				Finish:     a.Finish,
				Slack:      schedule.Slack,
				IsCritical: schedule.IsCritical,
				WaveIndex:  wave.Index,
			}
			ew.Steps = append(ew.Steps, ps)
			plan.Steps[s] = &ps
		}

		plan.Waves = append(plan.Waves, ew)
	}

	plan.Deps = buildDeps(g)
	plan.Workers = workerLoads(run)

	return plan, nil
}

func buildDeps(g *graph.Graph) StepDeps {
	deps := StepDeps{
		Predecessors: make(map[step.Step][]step.Step, g.Len()),
		Successors:   make(map[step.Step][]step.Step, g.Len()),
	}
	for _, s := range g.Steps() {
		deps.Predecessors[s] = append([]step.Step{}, g.Prerequisites(s)...)
		deps.Successors[s] = append([]step.Step{}, g.Dependents(s)...)
	}
	return deps
}

func workerLoads(run *sim.Result) []WorkerLoad {
	loads := make([]WorkerLoad, run.Workers)
	for i := range loads {
		loads[i] = WorkerLoad{Worker: i, Steps: []step.Step{}}
	}
	for _, a := range run.Assignments {
		l := &loads[a.Worker]
		l.BusyTicks += a.Duration
		l.Steps = append(l.Steps, a.Step)
	}
	if run.Elapsed > 0 {
		for i := range loads {
			loads[i].Utilization = float64(loads[i].BusyTicks) / float64(run.Elapsed)
		}
	}
	return loads
}
