package graph

import (
	"fmt"

	"github.com/joshharrison/steploom/internal/parse"
	"github.com/joshharrison/steploom/internal/step"
)

// BuildFromPairs constructs a Graph from parsed pairs. Both ends of every pair
// and every isolated step get an explicit entry.
func BuildFromPairs(pairs []parse.Pair, isolated ...step.Step) (*Graph, error) {
	prereqs := make(map[step.Step][]step.Step)
	for _, s := range isolated {
		if _, ok := prereqs[s]; !ok {
			prereqs[s] = nil
		}
	}
	for _, p := range pairs {
		prereqs[p.After] = append(prereqs[p.After], p.Before)
		if _, ok := prereqs[p.Before]; !ok {
			prereqs[p.Before] = nil
		}
	}
	return build(prereqs)
}

// FromPrerequisites constructs a Graph from a step -> prerequisites mapping.
// Every prerequisite must have its own entry; a missing one is an
// InvalidGraphError rather than an implicit root.
func FromPrerequisites(m map[step.Step][]step.Step) (*Graph, error) {
	for _, s := range sortedKeys(m) {
		for _, p := range m[s] {
			if _, ok := m[p]; !ok {
				return nil, &InvalidGraphError{Step: s, Missing: p}
			}
		}
	}

	prereqs := make(map[step.Step][]step.Step, len(m))
	for s, ps := range m {
		prereqs[s] = append([]step.Step(nil), ps...)
	}
	return build(prereqs)
}

func build(prereqs map[step.Step][]step.Step) (*Graph, error) {
	g := &Graph{
		prereqs:    make(map[step.Step][]step.Step, len(prereqs)),
		dependents: make(map[step.Step][]step.Step, len(prereqs)),
	}

	g.steps = sortedKeys(prereqs)

	// Dedup edges; a self-loop is the shortest possible cycle.
	for _, s := range g.steps {
		seen := make(step.Set)
		g.prereqs[s] = []step.Step{}
		for _, p := range prereqs[s] {
			if p == s {
				return nil, &CycleError{Path: []step.Step{s, s}}
			}
			if seen.Has(p) {
				continue
			}
			seen.Add(p)
			g.prereqs[s] = append(g.prereqs[s], p)
			g.dependents[p] = append(g.dependents[p], s)
		}
	}

	// Sort adjacency lists for deterministic ordering
	for _, s := range g.steps {
		step.Sort(g.prereqs[s])
		step.Sort(g.dependents[s])
	}

	for _, s := range g.steps {
		if len(g.prereqs[s]) == 0 {
			g.roots = append(g.roots, s)
		}
		if len(g.dependents[s]) == 0 {
			g.leaves = append(g.leaves, s)
		}
	}

	if cycle := g.DetectCycle(); cycle != nil {
		return nil, &CycleError{Path: cycle}
	}

	return g, nil
}

// DetectCycle returns a cycle path (first step repeated at the end) if one
// exists, or nil if the graph is acyclic.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (g *Graph) DetectCycle() []step.Step {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[step.Step]int, len(g.steps))
	var stack []step.Step

	var dfs func(s step.Step) []step.Step
	dfs = func(s step.Step) []step.Step {
		color[s] = gray
		stack = append(stack, s)
		for _, next := range g.dependents[s] {
			if color[next] == gray {
				// Found a cycle: it runs from next's stack slot to here
				start := len(stack) - 1
				for stack[start] != next {
					start--
				}
				cycle := append([]step.Step(nil), stack[start:]...)
				return append(cycle, next)
			}
			if color[next] == white {
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[s] = black
		return nil
	}

	for _, s := range g.steps {
		if color[s] == white {
			if cycle := dfs(s); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Len returns the number of steps in the graph.
func (g *Graph) Len() int {
	return len(g.steps)
}

// Steps returns all steps in ascending order.
func (g *Graph) Steps() []step.Step {
	return append([]step.Step(nil), g.steps...)
}

// Has reports whether s has an entry in the graph.
func (g *Graph) Has(s step.Step) bool {
	_, ok := g.prereqs[s]
	return ok
}

// Prerequisites returns the sorted direct prerequisites of s.
func (g *Graph) Prerequisites(s step.Step) []step.Step {
	return g.prereqs[s]
}

// Dependents returns the sorted steps that directly wait on s.
func (g *Graph) Dependents(s step.Step) []step.Step {
	return g.dependents[s]
}

// Roots returns steps with no prerequisites, ascending.
func (g *Graph) Roots() []step.Step {
	return g.roots
}

// Leaves returns steps nothing depends on, ascending.
func (g *Graph) Leaves() []step.Step {
	return g.leaves
}

// Edges returns every constraint, ordered by dependent then prerequisite.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, s := range g.steps {
		for _, p := range g.prereqs[s] {
			edges = append(edges, Edge{Before: p, After: s})
		}
	}
	return edges
}

// Mapping returns a copy of the step -> prerequisites mapping.
func (g *Graph) Mapping() map[step.Step][]step.Step {
	m := make(map[step.Step][]step.Step, len(g.prereqs))
	for s, ps := range g.prereqs {
		m[s] = append([]step.Step{}, ps...)
	}
	return m
}

// Closure returns the subgraph made of the targets and all of their
// transitive prerequisites.
func (g *Graph) Closure(targets ...step.Step) (*Graph, error) {
	keep := make(step.Set)
	queue := make([]step.Step, 0, len(targets))
	for _, t := range targets {
		if !g.Has(t) {
			return nil, fmt.Errorf("closure of %s: %w", t, ErrUnknownStep)
		}
		queue = append(queue, t)
	}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if keep.Has(s) {
			continue
		}
		keep.Add(s)
		queue = append(queue, g.prereqs[s]...)
	}

	sub := make(map[step.Step][]step.Step, keep.Len())
	for s := range keep {
		sub[s] = g.prereqs[s]
	}
	return FromPrerequisites(sub)
}

func sortedKeys(m map[step.Step][]step.Step) []step.Step {
	keys := make([]step.Step, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	step.Sort(keys)
	return keys
}
