package sim

import (
	"fmt"

	"github.com/joshharrison/steploom/internal/graph"
	"github.com/joshharrison/steploom/internal/resolve"
	"github.com/joshharrison/steploom/internal/step"
	"go.uber.org/zap"
)

// Simulation advances a fixed pool of workers over a dependency graph one
// tick at a time. It is single-threaded; all state is owned by Tick.
type Simulation struct {
	graph    *graph.Graph
	duration step.DurationFunc
	resolver resolve.Resolver
	log      *zap.Logger

	workers  []Worker
	done     step.Set
	assigned step.Set // done plus in progress
	elapsed  int
	order    []step.Step

	events      []Event
	assignments []Assignment
	slot        map[step.Step]int // step -> index into assignments
	terminated  bool
}

// New creates a simulation with every worker idle at tick zero.
func New(g *graph.Graph, cfg Config) (*Simulation, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, cfg.Workers)
	}
	if cfg.Duration == nil {
		return nil, ErrNoDuration
	}

	r, err := resolve.New(cfg.Resolver, g)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := make([]Worker, cfg.Workers)
	for i := range workers {
		workers[i] = Worker{ID: i, Status: StatusIdle}
	}

	return &Simulation{
		graph:    g,
		duration: cfg.Duration,
		resolver: r,
		log:      logger,
		workers:  workers,
		done:     make(step.Set, g.Len()),
		assigned: make(step.Set, g.Len()),
		slot:     make(map[step.Step]int, g.Len()),
	}, nil
}

// Tick applies one transition: completions, the termination check,
// assignments, then the clock advance. It returns true once the simulation
// has terminated; further calls are no-ops.
func (s *Simulation) Tick() bool {
	if s.terminated {
		return true
	}

	// Completion phase
	for i := range s.workers {
		w := &s.workers[i]
		if w.Idle() {
			continue
		}
		w.Remaining--
		if w.Remaining > 0 {
			continue
		}

		finished := w.Step
		s.done.Add(finished)
		s.resolver.Complete(finished)
		if len(s.workers) == 1 {
			s.order = append(s.order, finished)
		}
		s.events = append(s.events, Event{Tick: s.elapsed, Kind: EventFinished, Worker: w.ID, Step: finished})
		s.assignments[s.slot[finished]].Finish = s.elapsed
		*w = Worker{ID: w.ID, Status: StatusIdle}
	}

	// Termination check
	if s.done.Len() == s.graph.Len() && s.allIdle() {
		s.terminated = true
		s.log.Debug("simulation terminated", zap.Int("elapsed", s.elapsed))
		return true
	}

	// Assignment phase: smallest candidate to lowest-index idle worker
	candidates := s.resolver.Ready(s.done, s.assigned)
	for i := range s.workers {
		if len(candidates) == 0 {
			break
		}
		w := &s.workers[i]
		if !w.Idle() {
			continue
		}

		next := candidates[0]
		candidates = candidates[1:]

		d := s.duration(next)
		if d < 1 {
			// a zero-length step would never be observed by the completion phase
			d = 1
		}
		*w = Worker{ID: w.ID, Status: StatusBusy, Step: next, Remaining: d}
		s.assigned.Add(next)
		s.resolver.Assign(next)
		s.events = append(s.events, Event{Tick: s.elapsed, Kind: EventStarted, Worker: w.ID, Step: next})
		s.slot[next] = len(s.assignments)
		s.assignments = append(s.assignments, Assignment{Step: next, Worker: w.ID, Start: s.elapsed, Duration: d})
	}

	if ce := s.log.Check(zap.DebugLevel, "tick"); ce != nil {
		ce.Write(
			zap.Int("tick", s.elapsed),
			zap.Strings("done", step.Strings(s.done.Sorted())),
			zap.Strings("busy", s.busySteps()),
		)
	}

	// Clock advance
	s.elapsed++
	return false
}

// Run ticks until termination and returns the result.
func (s *Simulation) Run() (*Result, error) {
	for !s.Tick() {
		if s.allIdle() {
			return nil, fmt.Errorf("%w: %d of %d done at tick %d",
				ErrStalled, s.done.Len(), s.graph.Len(), s.elapsed)
		}
	}

	return &Result{
		Order:       append([]step.Step(nil), s.order...),
		Elapsed:     s.elapsed,
		Workers:     len(s.workers),
		Assignments: append([]Assignment(nil), s.assignments...),
		Events:      append([]Event(nil), s.events...),
	}, nil
}

// Elapsed returns the ticks advanced so far.
func (s *Simulation) Elapsed() int {
	return s.elapsed
}

// Workers returns a snapshot of the worker pool.
func (s *Simulation) Workers() []Worker {
	return append([]Worker(nil), s.workers...)
}

// Done returns the completed steps in ascending order.
func (s *Simulation) Done() []step.Step {
	return s.done.Sorted()
}

// Terminated reports whether the simulation has finished.
func (s *Simulation) Terminated() bool {
	return s.terminated
}

func (s *Simulation) allIdle() bool {
	for _, w := range s.workers {
		if !w.Idle() {
			return false
		}
	}
	return true
}

func (s *Simulation) busySteps() []string {
	var out []string
	for _, w := range s.workers {
		if !w.Idle() {
			out = append(out, string(w.Step))
		}
	}
	return out
}

// Order returns the single-worker completion order where every step costs one
// tick: a topological order that always takes the smallest ready step.
func Order(g *graph.Graph, logger *zap.Logger) ([]step.Step, error) {
	res, err := Schedule(g, Config{Workers: 1, Duration: step.Uniform(1), Logger: logger})
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

// Schedule runs a full simulation of g under cfg.
func Schedule(g *graph.Graph, cfg Config) (*Result, error) {
	s, err := New(g, cfg)
	if err != nil {
		return nil, err
	}
	return s.Run()
}
