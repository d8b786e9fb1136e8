package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshharrison/steploom/internal/parse"
	"github.com/joshharrison/steploom/internal/resolve"
	"github.com/joshharrison/steploom/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 5, c.Scheduler.Workers)
	assert.Equal(t, 60, c.Scheduler.BaseOffset)
	assert.Equal(t, step.RankAlphabet, c.Scheduler.Rank)
	assert.Equal(t, resolve.KindFrontier, c.Scheduler.Resolver)
	assert.Equal(t, parse.FormatAuto, c.Input.Format)
	assert.Equal(t, "off", c.Log.Level)
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steploom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[scheduler]
workers = 2
base_offset = 0

[input]
strict = true

[log]
level = "debug"
format = "json"
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Scheduler.Workers)
	assert.Equal(t, 0, c.Scheduler.BaseOffset)
	assert.Equal(t, step.RankAlphabet, c.Scheduler.Rank, "unset keys keep their defaults")
	assert.True(t, c.Input.Strict)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestParse_UnknownKeys(t *testing.T) {
	_, err := Parse(`
[scheduler]
workers = 2
wrokers = 3
`)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "scheduler.wrokers")
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero workers":    "[scheduler]\nworkers = 0",
		"negative offset": "[scheduler]\nbase_offset = -1",
		"rank":            "[scheduler]\nrank = \"roman\"",
		"resolver":        "[scheduler]\nresolver = \"magic\"",
		"input format":    "[input]\nformat = \"yaml\"",
		"log format":      "[log]\nformat = \"xml\"",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(doc)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("[scheduler\nworkers = 2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}
