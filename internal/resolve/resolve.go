// Package resolve decides which steps may start next.
//
// Ready is the reference rule: a step is offered when it is not excluded and
// all of its prerequisites are done, smallest step first. Frontier maintains
// the same answer incrementally for large graphs.
package resolve

import (
	"errors"
	"fmt"

	"github.com/joshharrison/steploom/internal/graph"
	"github.com/joshharrison/steploom/internal/step"
)

// ErrUnknownResolver is returned by New for an unrecognised Kind.
var ErrUnknownResolver = errors.New("unknown resolver")

// Kind names a Resolver implementation.
type Kind string

const (
	KindFrontier Kind = "frontier"
	KindScan     Kind = "scan"
)

// Resolver yields ready steps for a running simulation. Assign and Complete
// keep stateful implementations in step with the caller.
type Resolver interface {
	// Ready returns ready, unassigned steps in ascending order.
	Ready(done, assigned step.Set) []step.Step
	// Assign records that s has been handed to a worker.
	Assign(s step.Step)
	// Complete records that s has finished.
	Complete(s step.Step)
}

// New returns a fresh resolver of the given kind for g.
func New(kind Kind, g *graph.Graph) (Resolver, error) {
	switch kind {
	case KindFrontier, "":
		return NewFrontier(g), nil
	case KindScan:
		return Scan{Graph: g}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResolver, kind)
	}
}

// Ready returns every step not in excluded whose prerequisites are all in
// done, sorted ascending.
func Ready(g *graph.Graph, done, excluded step.Set) []step.Step {
	var out []step.Step
	// Steps() is already sorted and unique
	for _, s := range g.Steps() {
		if excluded.Has(s) {
			continue
		}
		if done.ContainsAll(g.Prerequisites(s)) {
			out = append(out, s)
		}
	}
	return out
}

// Scan recomputes Ready from scratch on every call.
type Scan struct {
	Graph *graph.Graph
}

func (s Scan) Ready(done, assigned step.Set) []step.Step {
	return Ready(s.Graph, done, assigned)
}

func (Scan) Assign(step.Step)   {}
func (Scan) Complete(step.Step) {}
