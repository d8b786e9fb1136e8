package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshharrison/steploom/internal/step"
)

var (
	// ErrInvalidGraph marks a prerequisite mapping that references a step with no entry.
	ErrInvalidGraph = errors.New("invalid dependency graph")
	// ErrCyclicDependency marks a graph that is not a DAG.
	ErrCyclicDependency = errors.New("dependency cycle detected")
	// ErrUnknownStep is returned when a lookup names a step not in the graph.
	ErrUnknownStep = errors.New("unknown step")
)

// Edge is a single "Before must finish before After" constraint.
type Edge struct {
	Before step.Step `json:"before"`
	After  step.Step `json:"after"`
}

// Graph is an immutable dependency graph. Every step has an entry in
// prereqs, even when it has no prerequisites.
type Graph struct {
	steps      []step.Step               // all steps, ascending
	prereqs    map[step.Step][]step.Step // step -> steps that must finish first
	dependents map[step.Step][]step.Step // step -> steps waiting on it
	roots      []step.Step               // steps with no prerequisites
	leaves     []step.Step               // steps nothing depends on
}

// InvalidGraphError names the step whose prerequisite has no entry.
type InvalidGraphError struct {
	Step    step.Step
	Missing step.Step
}

func (e *InvalidGraphError) Error() string {
	return fmt.Sprintf("%s: step %s requires %s, which has no entry", ErrInvalidGraph, e.Step, e.Missing)
}

func (e *InvalidGraphError) Unwrap() error { return ErrInvalidGraph }

// CycleError carries the detected cycle, first step repeated at the end.
type CycleError struct {
	Path []step.Step
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(step.Strings(e.Path), " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }
