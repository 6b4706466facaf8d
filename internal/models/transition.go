package models

import (
	"fmt"
	"regexp"
	"strconv"
)

// TransitionArrow separates the levels in a canonical transition key
const TransitionArrow = "→"

// Precompiled so ParseTransition stays cheap on hot request paths
var transitionRegex = regexp.MustCompile(`^\s*(\d+)\s*(?:→|->|-|~)\s*(\d+)\s*$`)

// Transition is one upgrade step, identified by its start and end level
type Transition struct {
	From int
	To   int
}

// Key returns the canonical label, e.g. "10 → 11"
func (t Transition) Key() string {
	return fmt.Sprintf("%d %s %d", t.From, TransitionArrow, t.To)
}

func (t Transition) String() string {
	return t.Key()
}

// Valid reports whether the transition goes strictly upward from a non-negative level
func (t Transition) Valid() bool {
	return t.From >= 0 && t.To > t.From
}

// Less orders transitions ascending by level
func (t Transition) Less(o Transition) bool {
	if t.From != o.From {
		return t.From < o.From
	}
	return t.To < o.To
}

// ParseTransition parses "10 → 11", "10→11", "10 -> 11" or "10-11"
func ParseTransition(s string) (Transition, error) {
	m := transitionRegex.FindStringSubmatch(s)
	if m == nil {
		return Transition{}, fmt.Errorf("%w: malformed transition %q", ErrInvalidInput, s)
	}
	from, err := strconv.Atoi(m[1])
	if err != nil {
		return Transition{}, fmt.Errorf("%w: transition %q: %v", ErrInvalidInput, s, err)
	}
	to, err := strconv.Atoi(m[2])
	if err != nil {
		return Transition{}, fmt.Errorf("%w: transition %q: %v", ErrInvalidInput, s, err)
	}
	t := Transition{From: from, To: to}
	if !t.Valid() {
		return Transition{}, fmt.Errorf("%w: transition %q must go to a higher level", ErrInvalidInput, s)
	}
	return t, nil
}
