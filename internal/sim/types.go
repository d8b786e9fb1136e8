package sim

import (
	"errors"

	"github.com/joshharrison/steploom/internal/resolve"
	"github.com/joshharrison/steploom/internal/step"
	"go.uber.org/zap"
)

var (
	// ErrInvalidWorkers is returned for a pool smaller than one worker.
	ErrInvalidWorkers = errors.New("worker count must be >= 1")
	// ErrNoDuration is returned when Config.Duration is nil.
	ErrNoDuration = errors.New("duration function is required")
	// ErrStalled is returned when every worker is idle, nothing is ready and
	// steps remain. A graph built by the graph package never reaches this.
	ErrStalled = errors.New("simulation stalled with steps remaining")
)

// Config holds simulation configuration.
type Config struct {
	Workers  int
	Duration step.DurationFunc
	Resolver resolve.Kind
	Logger   *zap.Logger // tick trace at debug level; nil disables
}

// Status represents the state of a worker slot.
type Status string

const (
	StatusIdle Status = "idle"
	StatusBusy Status = "busy"
)

// Worker is one simulated execution slot. When busy, Remaining is > 0.
type Worker struct {
	ID        int       `json:"id"`
	Status    Status    `json:"status"`
	Step      step.Step `json:"step,omitempty"`
	Remaining int       `json:"remaining,omitempty"`
}

// Idle reports whether the worker can take a step.
func (w Worker) Idle() bool {
	return w.Status == StatusIdle
}

// EventKind distinguishes timeline events.
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventFinished EventKind = "finished"
)

// Event is a point-in-time change to a worker.
type Event struct {
	Tick   int       `json:"tick"`
	Kind   EventKind `json:"kind"`
	Worker int       `json:"worker"`
	Step   step.Step `json:"step"`
}

// Assignment records when and where a step ran. The step occupies ticks
// [Start, Finish).
type Assignment struct {
	Step     step.Step `json:"step"`
	Worker   int       `json:"worker"`
	Start    int       `json:"start"`
	Finish   int       `json:"finish"`
	Duration int       `json:"duration"`
}

// Result is the outcome of a completed simulation.
type Result struct {
	Order       []step.Step  `json:"order,omitempty"` // completion order, single-worker runs only
	Elapsed     int          `json:"elapsed"`
	Workers     int          `json:"workers"`
	Assignments []Assignment `json:"assignments"` // in start order
	Events      []Event      `json:"events"`
}
