package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joshharrison/steploom/internal/planner"
	"github.com/joshharrison/steploom/internal/step"
)

func testPlan() *planner.ExecutionPlan {
	return &planner.ExecutionPlan{
		TotalSteps:   2,
		TotalWaves:   2,
		Order:        []step.Step{"A", "B"},
		Elapsed:      3,
		LowerBound:   3,
		CriticalPath: []step.Step{"A", "B"},
		Steps: map[step.Step]*planner.PlannedStep{
			"A": {Step: "A", Duration: 1, Finish: 1, IsCritical: true},
			"B": {Step: "B", Duration: 2, Start: 1, Finish: 3, IsCritical: true, WaveIndex: 1},
		},
		Config: planner.PlanConfig{Workers: 1},
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "plan.json")

	rec := NewRecord(testPlan(), "input.txt")
	if err := Save(path, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.ID != rec.ID {
		t.Errorf("expected ID %s, got %s", rec.ID, loaded.ID)
	}
	if loaded.Input != "input.txt" {
		t.Errorf("expected input input.txt, got %s", loaded.Input)
	}
	if !loaded.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created at mismatch: %v vs %v", loaded.CreatedAt, rec.CreatedAt)
	}
	if loaded.Plan.Elapsed != 3 || loaded.Plan.Steps["B"].Start != 1 {
		t.Errorf("plan did not round-trip: %+v", loaded.Plan)
	}
}

func TestNewRecord_UniqueIDs(t *testing.T) {
	a := NewRecord(testPlan(), "-")
	b := NewRecord(testPlan(), "-")
	if a.ID == b.ID {
		t.Error("expected distinct record IDs")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed record")
	}

	future := filepath.Join(dir, "future.json")
	os.WriteFile(future, []byte(`{"version":99,"plan":{}}`), 0644)
	if _, err := Load(future); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}

	empty := filepath.Join(dir, "empty.json")
	os.WriteFile(empty, []byte(`{"input":"x"}`), 0644)
	if _, err := Load(empty); err == nil {
		t.Error("expected error for record without a plan")
	}
}

func TestArchiveAndListHistory(t *testing.T) {
	dir := t.TempDir()

	// Empty history
	paths, err := ListHistory(dir)
	if err != nil {
		t.Fatalf("ListHistory (empty): %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected 0 history entries, got %d", len(paths))
	}
	if _, err := LoadLatest(dir); !errors.Is(err, ErrNoHistory) {
		t.Errorf("expected ErrNoHistory, got %v", err)
	}

	older := NewRecord(testPlan(), "old.txt")
	older.CreatedAt = time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	newer := NewRecord(testPlan(), "new.txt")
	newer.CreatedAt = time.Date(2026, 2, 20, 11, 0, 0, 0, time.UTC)

	for _, rec := range []*Record{older, newer} {
		if _, err := Archive(dir, rec); err != nil {
			t.Fatalf("Archive: %v", err)
		}
	}

	paths, err = ListHistory(dir)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(paths))
	}

	latest, err := LoadLatest(dir)
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	// Newest first
	if latest.Input != "new.txt" {
		t.Errorf("expected newest record, got %s", latest.Input)
	}
}
