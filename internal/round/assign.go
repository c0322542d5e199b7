package round

import (
	"math/rand/v2"

	"github.com/pixil98/go-blockshuffle/internal/material"
)

// Assign builds a round state for the given roster. When the pool holds at
// least TargetSetSize ids per participant, every participant receives a
// disjoint slice of the shuffled pool. Otherwise every slot is drawn
// independently with replacement, so ids may repeat within and across sets.
func Assign(names []string, pool []material.Material, rng *rand.Rand) *State {
	s := NewState()
	if len(names) == 0 || len(pool) == 0 {
		return s
	}

	shuffled := make([]material.Material, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	unique := len(shuffled) >= len(names)*TargetSetSize

	next := 0
	for _, name := range names {
		var t TargetSet
		for k := range t {
			if unique {
				t[k] = shuffled[next]
				next++
			} else {
				t[k] = shuffled[rng.IntN(len(shuffled))]
			}
		}
		s.Assign(name, t)
	}

	return s
}
