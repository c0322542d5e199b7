// Package round tracks the per-participant targets and completion of a single
// block shuffle round.
package round

import (
	"slices"
	"strings"

	"github.com/pixil98/go-blockshuffle/internal/material"
)

// TargetSetSize is the number of materials assigned to each participant.
const TargetSetSize = 3

// TargetSet is the group of materials a participant may stand on to finish a round.
type TargetSet [TargetSetSize]material.Material

// Contains reports whether m is one of the targets.
func (t TargetSet) Contains(m material.Material) bool {
	return slices.Contains(t[:], m)
}

// Names returns the display names of the targets in order.
func (t TargetSet) Names() []string {
	return material.Names(t[:])
}

// Key returns the identity a participant name is tracked under. Names that
// differ only in case are the same participant.
func Key(name string) string {
	return strings.ToLower(name)
}

// State holds the assignments and completion flags for the active round.
// Targets and completion always share the same key set: entries are only
// ever added through Assign and never removed. Lookups go through Key, while
// Participants reports names as they were assigned.
type State struct {
	order     []string
	targets   map[string]TargetSet
	completed map[string]bool
}

// NewState returns an empty round state.
func NewState() *State {
	return &State{
		targets:   map[string]TargetSet{},
		completed: map[string]bool{},
	}
}

// Assign sets the targets for a participant and resets their completion flag.
func (s *State) Assign(name string, t TargetSet) {
	k := Key(name)
	if _, ok := s.targets[k]; !ok {
		s.order = append(s.order, name)
	}
	s.targets[k] = t
	s.completed[k] = false
}

// Has reports whether the participant is part of this round.
func (s *State) Has(name string) bool {
	_, ok := s.targets[Key(name)]
	return ok
}

// Targets returns the targets assigned to a participant.
func (s *State) Targets(name string) (TargetSet, bool) {
	t, ok := s.targets[Key(name)]
	return t, ok
}

// Completed reports whether the participant has finished the round.
func (s *State) Completed(name string) bool {
	return s.completed[Key(name)]
}

// MarkCompleted flags a participant as complete. It returns true only on the
// transition from incomplete to complete.
func (s *State) MarkCompleted(name string) bool {
	k := Key(name)
	done, ok := s.completed[k]
	if !ok || done {
		return false
	}
	s.completed[k] = true
	return true
}

// AllCompleted reports whether the round has participants and every one of
// them is complete.
func (s *State) AllCompleted() bool {
	if len(s.completed) == 0 {
		return false
	}
	for _, done := range s.completed {
		if !done {
			return false
		}
	}
	return true
}

// Participants returns the participant names in assignment order.
func (s *State) Participants() []string {
	return slices.Clone(s.order)
}

// Incomplete returns the participants that have not finished, in assignment order.
func (s *State) Incomplete() []string {
	var out []string
	for _, name := range s.order {
		if !s.completed[Key(name)] {
			out = append(out, name)
		}
	}
	return out
}

// Len returns the number of participants in the round.
func (s *State) Len() int {
	return len(s.targets)
}
