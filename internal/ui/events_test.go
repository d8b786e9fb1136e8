package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/joshharrison/steploom/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestFormatEvent(t *testing.T) {
	withoutColor(t)

	assert.Equal(t, "t=3    W2 ● [F]", FormatEvent(sim.Event{Tick: 3, Kind: sim.EventStarted, Worker: 1, Step: "F"}))
	assert.Equal(t, "t=9    W2 ✓ [F]", FormatEvent(sim.Event{Tick: 9, Kind: sim.EventFinished, Worker: 1, Step: "F"}))
}

func TestWriteEvents(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	require.NoError(t, WriteEvents(&buf, []sim.Event{
		{Tick: 0, Kind: sim.EventStarted, Worker: 0, Step: "A"},
		{Tick: 1, Kind: sim.EventFinished, Worker: 0, Step: "A"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[A]")
	assert.True(t, strings.HasPrefix(lines[1], "t=1"))
}

func TestStepColorStable(t *testing.T) {
	assert.Equal(t, stepColorIndex("alpha"), stepColorIndex("alpha"))
	assert.Equal(t, "W1", WorkerLabel(0))
}
