package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/joshharrison/steploom/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const example = `Step C must be finished before step A can begin.
Step C must be finished before step F can begin.
Step A must be finished before step B can begin.
Step A must be finished before step D can begin.
Step B must be finished before step E can begin.
Step D must be finished before step E can begin.
Step F must be finished before step E can begin.
`

func TestParseText_Example(t *testing.T) {
	in, err := Parse(strings.NewReader(example), FormatAuto, Options{})
	require.NoError(t, err)
	require.Len(t, in.Pairs, 7)
	assert.Equal(t, Pair{Before: "C", After: "A"}, in.Pairs[0])
	assert.Equal(t, Pair{Before: "F", After: "E"}, in.Pairs[6])
	assert.Empty(t, in.Steps)
}

func TestParseText_BlankLinesAndTokens(t *testing.T) {
	doc := "\nStep build must be finished before step test can begin.\n\n" +
		"Step 10 must be finished before step 2 can begin.\n"
	in, err := ParseText([]byte(doc), Options{})
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{Before: "build", After: "test"},
		{Before: "10", After: "2"},
	}, in.Pairs)
}

func TestParseText_Malformed(t *testing.T) {
	doc := "Step C must be finished before step A can begin.\nStep C before A\n"
	_, err := ParseText([]byte(doc), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedLine))

	var mle *MalformedLineError
	require.ErrorAs(t, err, &mle)
	assert.Equal(t, 2, mle.Line)
	assert.Equal(t, "Step C before A", mle.Text)
}

func TestParseText_Duplicates(t *testing.T) {
	doc := "Step A must be finished before step B can begin.\n" +
		"Step A must be finished before step B can begin.\n"

	in, err := ParseText([]byte(doc), Options{})
	require.NoError(t, err)
	assert.Len(t, in.Pairs, 1, "duplicates collapse by default")

	_, err = ParseText([]byte(doc), Options{Strict: true})
	var dup *DuplicatePrerequisiteError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 2, dup.Line)
	assert.ErrorIs(t, err, ErrDuplicatePrerequisite)
}

func TestParseJSON_Array(t *testing.T) {
	doc := `[{"before":"C","after":"A"},{"before":"A","after":"B"}]`
	in, err := Parse(strings.NewReader(doc), FormatAuto, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"C", "A"}, {"A", "B"}}, in.Pairs)
}

func TestParseJSON_ObjectWithIsolatedSteps(t *testing.T) {
	doc := `{"steps":["X","Y"],"edges":[{"before":"Y","after":"Z"}]}`
	in, err := ParseJSON([]byte(doc), Options{})
	require.NoError(t, err)
	assert.Equal(t, []step.Step{"X", "Y"}, in.Steps)
	assert.Equal(t, []Pair{{"Y", "Z"}}, in.Pairs)
}

func TestParseJSON_StepsOnly(t *testing.T) {
	in, err := ParseJSON([]byte(`{"steps":["X"]}`), Options{})
	require.NoError(t, err)
	assert.Equal(t, []step.Step{"X"}, in.Steps)
	assert.Empty(t, in.Pairs)
}

func TestParseJSON_Errors(t *testing.T) {
	cases := map[string]string{
		"invalid":        `[{"before":`,
		"scalar":         `42`,
		"missing after":  `[{"before":"A"}]`,
		"numeric step":   `[{"before":1,"after":"A"}]`,
		"edges not list": `{"edges":{"before":"A","after":"B"}}`,
		"bad steps":      `{"steps":[1]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(doc), Options{})
			assert.ErrorIs(t, err, ErrMalformedJSON)
		})
	}
}

func TestParseJSON_StrictDuplicate(t *testing.T) {
	doc := `[{"before":"A","after":"B"},{"before":"A","after":"B"}]`
	_, err := ParseJSON([]byte(doc), Options{Strict: true})
	var dup *DuplicatePrerequisiteError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 1, dup.Line)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatJSON, Detect([]byte("  [ ]")))
	assert.Equal(t, FormatJSON, Detect([]byte("{}")))
	assert.Equal(t, FormatText, Detect([]byte("Step A must")))
	assert.Equal(t, FormatText, Detect(nil))
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse(strings.NewReader(""), Format("yaml"), Options{})
	assert.Error(t, err)
}
