package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshharrison/steploom/internal/planner"
	"github.com/tidwall/gjson"
)

// DefaultDir is where archived records live unless a directory is given.
const DefaultDir = ".steploom"

// FormatVersion is written into every record.
const FormatVersion = 1

const historyDir = "history"

var (
	// ErrNoHistory is returned when no archived record exists.
	ErrNoHistory = errors.New("no archived runs")
	// ErrUnsupportedVersion is returned for records written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported record version")
)

// Record is a persisted scheduling run: the plan plus where it came from.
type Record struct {
	Version   int                    `json:"version"`
	ID        uuid.UUID              `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Input     string                 `json:"input"` // file path, or "-" for stdin
	Plan      *planner.ExecutionPlan `json:"plan"`
}

// NewRecord wraps a plan in a fresh record.
func NewRecord(plan *planner.ExecutionPlan, input string) *Record {
	return &Record{
		Version:   FormatVersion,
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Input:     input,
		Plan:      plan,
	}
}

// Save writes rec to path as indented JSON, creating parent directories.
func Save(path string, rec *Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create record dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a record from disk.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	if v := gjson.GetBytes(data, "version"); v.Exists() && v.Int() > FormatVersion {
		return nil, fmt.Errorf("%w: %s has version %d", ErrUnsupportedVersion, path, v.Int())
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	if rec.Plan == nil {
		return nil, fmt.Errorf("parse record %s: missing plan", path)
	}
	return &rec, nil
}

// Archive saves rec under dir's history, named so that names sort by
// creation time, and returns the written path.
func Archive(dir string, rec *Record) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	name := fmt.Sprintf("%s-%s.json", rec.CreatedAt.UTC().Format("20060102-150405.000"), rec.ID)
	path := filepath.Join(dir, historyDir, name)
	if err := Save(path, rec); err != nil {
		return "", err
	}
	return path, nil
}

// ListHistory returns archived record paths, newest first.
func ListHistory(dir string) ([]string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	entries, err := os.ReadDir(filepath.Join(dir, historyDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, historyDir, e.Name()))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// LoadLatest loads the most recently archived record.
func LoadLatest(dir string) (*Record, error) {
	paths, err := ListHistory(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoHistory
	}
	return Load(paths[0])
}
