package step

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrankable is returned when a rank policy cannot place a step.
	ErrUnrankable = errors.New("step cannot be ranked")
	// ErrNegativeOffset is returned for a base offset below zero.
	ErrNegativeOffset = errors.New("base offset must be >= 0")
)

// DurationFunc maps a step to the number of ticks it occupies a worker.
type DurationFunc func(Step) int

// Rank selects how a step's zero-based rank is derived.
type Rank string

const (
	// RankAlphabet ranks single uppercase letters: A=0, B=1, ... Z=25.
	RankAlphabet Rank = "alphabet"
	// RankOrdinal ranks a step by its position among all known steps.
	RankOrdinal Rank = "ordinal"
)

// Uniform returns a DurationFunc that costs n ticks for every step.
func Uniform(n int) DurationFunc {
	return func(Step) int { return n }
}

// NewDuration builds rank(s) + 1 + baseOffset for the given policy.
// steps is the universe of known steps; it is consulted up front so the
// returned function never fails.
func NewDuration(policy Rank, baseOffset int, steps []Step) (DurationFunc, error) {
	if baseOffset < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeOffset, baseOffset)
	}

	ranks := make(map[Step]int, len(steps))
	switch policy {
	case RankAlphabet, "":
		for _, s := range steps {
			r, ok := alphabetRank(s)
			if !ok {
				return nil, fmt.Errorf("%w: %q is not a single uppercase letter", ErrUnrankable, s)
			}
			ranks[s] = r
		}
	case RankOrdinal:
		sorted := NewSet(steps...).Sorted()
		for i, s := range sorted {
			ranks[s] = i
		}
	default:
		return nil, fmt.Errorf("%w: unknown rank policy %q", ErrUnrankable, policy)
	}

	return func(s Step) int {
		r, ok := ranks[s]
		if !ok {
			// Not in the universe: fall back to the letter rank when there is one.
			r, _ = alphabetRank(s)
		}
		return r + 1 + baseOffset
	}, nil
}

func alphabetRank(s Step) (int, bool) {
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, false
	}
	return int(s[0] - 'A'), true
}
