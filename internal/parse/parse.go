package parse

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/joshharrison/steploom/internal/step"
	"github.com/tidwall/gjson"
)

var (
	// ErrMalformedLine marks a text statement that does not match the grammar.
	ErrMalformedLine = errors.New("malformed dependency statement")
	// ErrMalformedJSON marks JSON input of the wrong shape.
	ErrMalformedJSON = errors.New("malformed dependency JSON")
	// ErrDuplicatePrerequisite is returned in strict mode for a repeated pair.
	ErrDuplicatePrerequisite = errors.New("duplicate prerequisite")
)

var statementRe = regexp.MustCompile(
	`^Step ([A-Za-z0-9_-]+) must be finished before step ([A-Za-z0-9_-]+) can begin\.$`,
)

// Format selects the input syntax.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Pair is one "Before must finish before After can begin" constraint.
type Pair struct {
	Before step.Step `json:"before"`
	After  step.Step `json:"after"`
}

// Input is the parsed form of a dependency document.
type Input struct {
	Pairs []Pair
	Steps []step.Step // declared steps, including ones no pair mentions
}

// Options tunes parsing.
type Options struct {
	// Strict rejects repeated pairs instead of collapsing them.
	Strict bool
}

// MalformedLineError reports the offending line of a text document.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, ErrMalformedLine, e.Text)
}

func (e *MalformedLineError) Unwrap() error { return ErrMalformedLine }

// DuplicatePrerequisiteError reports a pair seen more than once.
type DuplicatePrerequisiteError struct {
	Pair Pair
	Line int // 1-based line, or JSON edge index
}

func (e *DuplicatePrerequisiteError) Error() string {
	return fmt.Sprintf("%s: %s before %s (at %d)", ErrDuplicatePrerequisite, e.Pair.Before, e.Pair.After, e.Line)
}

func (e *DuplicatePrerequisiteError) Unwrap() error { return ErrDuplicatePrerequisite }

// Parse reads a dependency document in the given format.
func Parse(r io.Reader, format Format, opts Options) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if format == FormatAuto || format == "" {
		format = Detect(data)
	}

	switch format {
	case FormatText:
		return ParseText(data, opts)
	case FormatJSON:
		return ParseJSON(data, opts)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

// Detect guesses the format from the first non-space byte.
func Detect(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatText
}

// ParseText parses one statement per line. Blank lines are skipped.
func ParseText(data []byte, opts Options) (*Input, error) {
	in := &Input{}
	seen := make(map[Pair]bool)

	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		m := statementRe.FindStringSubmatch(line)
		if m == nil {
			return nil, &MalformedLineError{Line: lineNo, Text: line}
		}

		p := Pair{Before: step.Step(m[1]), After: step.Step(m[2])}
		if seen[p] {
			if opts.Strict {
				return nil, &DuplicatePrerequisiteError{Pair: p, Line: lineNo}
			}
			continue
		}
		seen[p] = true
		in.Pairs = append(in.Pairs, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}

	return in, nil
}

// ParseJSON accepts either an array of {"before","after"} objects or an
// object {"steps": [...], "edges": [...]}.
func ParseJSON(data []byte, opts Options) (*Input, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedJSON)
	}

	doc := gjson.ParseBytes(data)
	in := &Input{}

	var edges gjson.Result
	switch {
	case doc.IsArray():
		edges = doc
	case doc.IsObject():
		edges = doc.Get("edges")
		steps := doc.Get("steps")
		if steps.Exists() && !steps.IsArray() {
			return nil, fmt.Errorf("%w: \"steps\" must be an array", ErrMalformedJSON)
		}
		var stepErr error
		steps.ForEach(func(key, value gjson.Result) bool {
			s := value.String()
			if value.Type != gjson.String || s == "" {
				stepErr = fmt.Errorf("%w: steps[%d] must be a non-empty string", ErrMalformedJSON, key.Int())
				return false
			}
			in.Steps = append(in.Steps, step.Step(s))
			return true
		})
		if stepErr != nil {
			return nil, stepErr
		}
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrMalformedJSON)
	}

	if edges.Exists() && !edges.IsArray() {
		return nil, fmt.Errorf("%w: \"edges\" must be an array", ErrMalformedJSON)
	}

	seen := make(map[Pair]bool)
	var edgeErr error
	edges.ForEach(func(key, value gjson.Result) bool {
		idx := int(key.Int())
		before := value.Get("before")
		after := value.Get("after")
		if before.Type != gjson.String || after.Type != gjson.String ||
			before.String() == "" || after.String() == "" {
			edgeErr = fmt.Errorf("%w: edge %d needs string \"before\" and \"after\"", ErrMalformedJSON, idx)
			return false
		}

		p := Pair{Before: step.Step(before.String()), After: step.Step(after.String())}
		if seen[p] {
			if opts.Strict {
				edgeErr = &DuplicatePrerequisiteError{Pair: p, Line: idx}
				return false
			}
			return true
		}
		seen[p] = true
		in.Pairs = append(in.Pairs, p)
		return true
	})
	if edgeErr != nil {
		return nil, edgeErr
	}

	return in, nil
}
