package cpm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/joshharrison/steploom/internal/graph"
	"github.com/joshharrison/steploom/internal/resolve"
	"github.com/joshharrison/steploom/internal/step"
)

// Analyze performs critical path method analysis on a dependency graph,
// costing each step with duration.
func Analyze(g *graph.Graph, duration step.DurationFunc) (*CPMResult, error) {
	if duration == nil {
		return nil, errors.New("cpm: duration function is required")
	}

	order, err := topoSort(g)
	if err != nil {
		return nil, err
	}

	result := &CPMResult{
		Steps:     make(map[step.Step]*StepSchedule),
		TopoOrder: order,
	}

	// Initialize schedules
	for _, s := range order {
		result.Steps[s] = &StepSchedule{Step: s, Duration: duration(s)}
	}

	// Forward pass: compute ES and EF
	for _, s := range order {
		ss := result.Steps[s]
		// ES = max(EF of all predecessors)
		es := 0
		for _, pred := range g.Prerequisites(s) {
			if ef := result.Steps[pred].EF; ef > es {
				es = ef
			}
		}
		ss.ES = es
		ss.EF = es + ss.Duration
	}

	// Total project duration
	totalDuration := 0
	for _, ss := range result.Steps {
		if ss.EF > totalDuration {
			totalDuration = ss.EF
		}
	}
	result.TotalDuration = totalDuration

	// Backward pass in reverse topological order: leaves finish at the
	// project end, everything else by the earliest LS of its dependents.
	for i := len(order) - 1; i >= 0; i-- {
		s := order[i]
		ss := result.Steps[s]

		lf := totalDuration
		for _, succ := range g.Dependents(s) {
			if ls := result.Steps[succ].LS; ls < lf {
				lf = ls
			}
		}
		ss.LF = lf
		ss.LS = lf - ss.Duration
		ss.Slack = ss.LS - ss.ES
		ss.IsCritical = ss.Slack == 0
	}

	// Build critical path (critical steps in topological order)
	for _, s := range order {
		if result.Steps[s].IsCritical {
			result.CriticalPath = append(result.CriticalPath, s)
		}
	}

	// Compute waves: group steps by earliest start time
	result.Waves = computeWaves(result)

	return result, nil
}

// topoSort performs Kahn's algorithm, always taking the smallest ready step.
func topoSort(g *graph.Graph) ([]step.Step, error) {
	f := resolve.NewFrontier(g)

	order := make([]step.Step, 0, g.Len())
	for f.Len() > 0 {
		s, _ := f.Pop()
		order = append(order, s)
		f.Complete(s)
	}

	if len(order) != g.Len() {
		return nil, fmt.Errorf("topological sort failed: %w (%d of %d steps sorted)",
			graph.ErrCyclicDependency, len(order), g.Len())
	}

	return order, nil
}

// computeWaves groups steps by their earliest start time.
func computeWaves(result *CPMResult) []Wave {
	// Group steps by ES
	esGroups := make(map[int][]step.Step)
	for _, s := range result.TopoOrder {
		es := result.Steps[s].ES
		esGroups[es] = append(esGroups[es], s)
	}

	// Sort ES values
	esValues := make([]int, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Ints(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		steps := esGroups[es]
		step.Sort(steps)

		hasCritical := false
		for _, s := range steps {
			result.Steps[s].Wave = i
			if result.Steps[s].IsCritical {
				hasCritical = true
			}
		}

		// Sort critical steps first within wave
		sort.SliceStable(steps, func(a, b int) bool {
			aCrit := result.Steps[steps[a]].IsCritical
			bCrit := result.Steps[steps[b]].IsCritical
			if aCrit != bCrit {
				return aCrit
			}
			return false
		})

		waves[i] = Wave{
			Index:      i,
			Steps:      steps,
			IsCritical: hasCritical,
		}
	}

	return waves
}
