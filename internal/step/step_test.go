package step

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Letters(t *testing.T) {
	assert.True(t, Less("A", "B"))
	assert.False(t, Less("B", "A"))
	assert.Equal(t, 0, Compare("C", "C"))
}

func TestCompare_NumericTokens(t *testing.T) {
	assert.True(t, Less("9", "10"), "integers compare numerically")
	assert.True(t, Less("10", "1a"), "integers sort before other tokens")
	assert.True(t, Less("1a", "9a"))
	assert.True(t, Less("07", "7"), "numerically equal tokens fall back to bytes")
}

func TestSort(t *testing.T) {
	steps := []Step{"F", "C", "10", "A", "2"}
	Sort(steps)
	assert.Equal(t, []Step{"2", "10", "A", "C", "F"}, steps)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "CABDFE", Join([]Step{"C", "A", "B", "D", "F", "E"}, " "))
	assert.Equal(t, "build test ship", Join([]Step{"build", "test", "ship"}, " "))
	assert.Equal(t, "", Join(nil, " "))
}

func TestSet(t *testing.T) {
	s := NewSet("B", "A")
	s.Add("C")
	s.Add("A")

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("A"))
	assert.False(t, s.Has("Z"))
	assert.Equal(t, []Step{"A", "B", "C"}, s.Sorted())
	assert.True(t, s.ContainsAll([]Step{"A", "C"}))
	assert.False(t, s.ContainsAll([]Step{"A", "D"}))
	assert.True(t, s.ContainsAll(nil))

	c := s.Clone()
	c.Add("D")
	assert.False(t, s.Has("D"), "clone must not alias the original")

	var empty Set
	assert.False(t, empty.Has("A"))
}

func TestNewDuration_Alphabet(t *testing.T) {
	d, err := NewDuration(RankAlphabet, 0, []Step{"A", "B", "F"})
	require.NoError(t, err)
	assert.Equal(t, 1, d("A"))
	assert.Equal(t, 2, d("B"))
	assert.Equal(t, 6, d("F"))
	// outside the universe still ranks by letter
	assert.Equal(t, 24, d("X"))

	d60, err := NewDuration(RankAlphabet, 60, []Step{"A", "Z"})
	require.NoError(t, err)
	assert.Equal(t, 61, d60("A"))
	assert.Equal(t, 86, d60("Z"))
}

func TestNewDuration_Ordinal(t *testing.T) {
	d, err := NewDuration(RankOrdinal, 10, []Step{"lint", "build", "test", "build"})
	require.NoError(t, err)
	assert.Equal(t, 11, d("build"))
	assert.Equal(t, 12, d("lint"))
	assert.Equal(t, 13, d("test"))
}

func TestNewDuration_Errors(t *testing.T) {
	_, err := NewDuration(RankAlphabet, 0, []Step{"A", "build"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrankable))

	_, err = NewDuration(RankAlphabet, -1, nil)
	assert.ErrorIs(t, err, ErrNegativeOffset)

	_, err = NewDuration("weird", 0, nil)
	assert.ErrorIs(t, err, ErrUnrankable)
}

func TestUniform(t *testing.T) {
	d := Uniform(1)
	assert.Equal(t, 1, d("A"))
	assert.Equal(t, 1, d("anything"))
}
