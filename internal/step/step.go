package step

import (
	"sort"
	"strconv"
	"strings"
)

// Step identifies a unit of work. Steps compare by value.
type Step string

// Compare orders two steps. Base-10 integer tokens sort first, numerically;
// all other tokens follow, byte-wise.
func Compare(a, b Step) int {
	ai, aok := asInt(a)
	bi, bok := asInt(b)
	switch {
	case aok && bok:
		if ai < bi {
			return -1
		}
		if ai > bi {
			return 1
		}
		// "07" and "7" are numerically equal but distinct steps
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(string(a), string(b))
}

// Less reports whether a sorts before b.
func Less(a, b Step) bool {
	return Compare(a, b) < 0
}

// Sort sorts steps ascending in place.
func Sort(steps []Step) {
	sort.Slice(steps, func(i, j int) bool { return Less(steps[i], steps[j]) })
}

// Strings converts steps to plain strings, preserving order.
func Strings(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = string(s)
	}
	return out
}

// Join renders a sequence of steps. Single-character tokens are concatenated
// ("CABDFE"); longer tokens are separated by sep.
func Join(steps []Step, sep string) string {
	for _, s := range steps {
		if len(s) != 1 {
			return strings.Join(Strings(steps), sep)
		}
	}
	return strings.Join(Strings(steps), "")
}

func asInt(s Step) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Set is an unordered collection of steps.
type Set map[Step]struct{}

// NewSet returns a set holding the given steps.
func NewSet(steps ...Step) Set {
	s := make(Set, len(steps))
	for _, st := range steps {
		s[st] = struct{}{}
	}
	return s
}

// Add inserts st into the set.
func (s Set) Add(st Step) {
	s[st] = struct{}{}
}

// Has reports whether st is in the set. A nil set holds nothing.
func (s Set) Has(st Step) bool {
	_, ok := s[st]
	return ok
}

// Len returns the number of steps in the set.
func (s Set) Len() int {
	return len(s)
}

// ContainsAll reports whether every step in steps is in the set.
func (s Set) ContainsAll(steps []Step) bool {
	for _, st := range steps {
		if !s.Has(st) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for st := range s {
		c[st] = struct{}{}
	}
	return c
}

// Sorted returns the members in ascending step order.
func (s Set) Sorted() []Step {
	out := make([]Step, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	Sort(out)
	return out
}
