package resolve

import (
	"github.com/google/btree"
	"github.com/joshharrison/steploom/internal/graph"
	"github.com/joshharrison/steploom/internal/step"
)

// Frontier tracks unfinished-prerequisite counts and keeps the currently
// ready, unassigned steps in an ordered tree.
type Frontier struct {
	g       *graph.Graph
	pending map[step.Step]int
	ready   *btree.BTreeG[step.Step]
}

// NewFrontier seeds a frontier with the graph's roots.
func NewFrontier(g *graph.Graph) *Frontier {
	f := &Frontier{
		g:       g,
		pending: make(map[step.Step]int, g.Len()),
		ready:   btree.NewG(16, step.Less),
	}
	for _, s := range g.Steps() {
		n := len(g.Prerequisites(s))
		f.pending[s] = n
		if n == 0 {
			f.ready.ReplaceOrInsert(s)
		}
	}
	return f
}

// Ready returns the ready steps in ascending order. done is tracked
// internally; assigned filters steps handed out without Assign.
func (f *Frontier) Ready(_ step.Set, assigned step.Set) []step.Step {
	out := make([]step.Step, 0, f.ready.Len())
	f.ready.Ascend(func(s step.Step) bool {
		if !assigned.Has(s) {
			out = append(out, s)
		}
		return true
	})
	return out
}

// Assign removes s from the ready set.
func (f *Frontier) Assign(s step.Step) {
	f.ready.Delete(s)
}

// Complete releases the dependents of s, promoting any whose last
// prerequisite this was.
func (f *Frontier) Complete(s step.Step) {
	f.ready.Delete(s)
	for _, d := range f.g.Dependents(s) {
		f.pending[d]--
		if f.pending[d] == 0 {
			f.ready.ReplaceOrInsert(d)
		}
	}
}

// Len returns how many steps are ready and unassigned.
func (f *Frontier) Len() int {
	return f.ready.Len()
}

// Pop removes and returns the smallest ready step.
func (f *Frontier) Pop() (step.Step, bool) {
	return f.ready.DeleteMin()
}
