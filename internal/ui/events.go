package ui

import (
	"fmt"
	"io"

	"github.com/joshharrison/steploom/internal/sim"
)

// FormatEvent renders a single simulation event as one human-readable line.
func FormatEvent(ev sim.Event) string {
	tick := Dim(fmt.Sprintf("t=%-4d", ev.Tick))
	worker := WorkerLabel(ev.Worker)
	switch ev.Kind {
	case sim.EventStarted:
		return fmt.Sprintf("%s %s %s %s", tick, worker, StatusIcon("busy"), StepPrefix(string(ev.Step)))
	case sim.EventFinished:
		return fmt.Sprintf("%s %s %s %s", tick, worker, StatusIcon("done"), StepPrefix(string(ev.Step)))
	default:
		return fmt.Sprintf("%s %s %s %s", tick, worker, StatusIcon(""), StepPrefix(string(ev.Step)))
	}
}

// WriteEvents writes events to w, one per line, in the order they occurred.
func WriteEvents(w io.Writer, events []sim.Event) error {
	for _, ev := range events {
		if _, err := fmt.Fprintln(w, FormatEvent(ev)); err != nil {
			return err
		}
	}
	return nil
}
