package scheduler

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrNotEnoughParticipants = errors.New("not enough participants to seed a bracket (minimum 2)")
	ErrSeedNotParticipant    = errors.New("seed id is not among the bracket participants")
	ErrDuplicateSeed         = errors.New("seed ids must be unique")
)

// PlannedMatch is one slot pair inside a planned round. A nil slot waits
// for an upstream winner.
type PlannedMatch struct {
	Order int
	Home  *int
	Away  *int
}

// PlannedRound is one bracket round. Number is the explicit adjacency used
// by advancement: round N feeds round N+1, established here, never derived
// from labels at runtime.
type PlannedRound struct {
	Number  int
	Label   string
	Matches []PlannedMatch
}

// BracketPlan is the full single-elimination layout produced by SeedBracket.
type BracketPlan struct {
	Rounds []PlannedRound
}

// SeedBracket builds a single-elimination bracket for the given
// participants, honoring the ordered seed list.
//
// For a non-power-of-two field of N participants the plan opens with a
// play-in round of N - nextPowerOfTwo(N)/2 matches consuming shuffled
// non-seeded participants; its winners, the seeds, and the remaining
// participants populate a main round of nextPowerOfTwo(N)/2 slots. Seeds
// land on the standard recursive seeding order; every other slot is a
// random draw. All later rounds are laid out empty down to the final.
//
// If the seed list is so long that fewer non-seeded participants exist
// than the play-in needs, the lowest seeds drop into the play-in.
func SeedBracket(participantIDs []int, seedIDs []int, rng *rand.Rand) (*BracketPlan, error) {
	n := len(participantIDs)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	inField := make(map[int]bool, n)
	for _, id := range participantIDs {
		inField[id] = true
	}
	seen := make(map[int]bool, len(seedIDs))
	for _, id := range seedIDs {
		if !inField[id] {
			return nil, fmt.Errorf("%w: %d", ErrSeedNotParticipant, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateSeed, id)
		}
		seen[id] = true
	}

	pow := nextPowerOfTwo(n)
	prev := pow / 2
	playInMatches := 0
	mainSize := pow
	if n != pow {
		playInMatches = n - prev
		mainSize = prev
	}

	nonSeeds := make([]int, 0, n-len(seedIDs))
	for _, id := range participantIDs {
		if !seen[id] {
			nonSeeds = append(nonSeeds, id)
		}
	}
	rng.Shuffle(len(nonSeeds), func(i, j int) {
		nonSeeds[i], nonSeeds[j] = nonSeeds[j], nonSeeds[i]
	})

	// The play-in eats non-seeds first; with an oversized seed list it eats
	// the lowest seeds too.
	seeds := append([]int(nil), seedIDs...)
	playInPool := make([]int, 0, 2*playInMatches)
	for len(playInPool) < 2*playInMatches && len(nonSeeds) > 0 {
		playInPool = append(playInPool, nonSeeds[len(nonSeeds)-1])
		nonSeeds = nonSeeds[:len(nonSeeds)-1]
	}
	for len(playInPool) < 2*playInMatches && len(seeds) > 0 {
		playInPool = append(playInPool, seeds[len(seeds)-1])
		seeds = seeds[:len(seeds)-1]
	}

	// Main-round slots: seeds on the recursive order, the rest a shuffled
	// mix of leftover participants and nil play-in placeholders.
	slots := make([]*int, mainSize)
	order := bracketOrder(mainSize)
	for slotIdx, seedNum := range order {
		if seedNum <= len(seeds) {
			id := seeds[seedNum-1]
			slots[slotIdx] = &id
		}
	}
	remainder := make([]*int, 0, mainSize-len(seeds))
	for i := range nonSeeds {
		id := nonSeeds[i]
		remainder = append(remainder, &id)
	}
	for i := 0; i < playInMatches; i++ {
		remainder = append(remainder, nil)
	}
	rng.Shuffle(len(remainder), func(i, j int) {
		remainder[i], remainder[j] = remainder[j], remainder[i]
	})
	ri := 0
	for i := range slots {
		if slots[i] == nil && ri < len(remainder) {
			slots[i] = remainder[ri]
			ri++
		}
	}

	plan := &BracketPlan{}
	roundNumber := 1

	if playInMatches > 0 {
		round := PlannedRound{Number: roundNumber, Label: RoundLabelForSize(prev * 2)}
		for i := 0; i < playInMatches; i++ {
			home, away := playInPool[2*i], playInPool[2*i+1]
			round.Matches = append(round.Matches, PlannedMatch{Order: i, Home: &home, Away: &away})
		}
		plan.Rounds = append(plan.Rounds, round)
		roundNumber++
	}

	for size := mainSize; size >= 2; size /= 2 {
		round := PlannedRound{Number: roundNumber, Label: RoundLabelForSize(size)}
		for i := 0; i < size/2; i++ {
			pm := PlannedMatch{Order: i}
			if size == mainSize {
				pm.Home = slots[2*i]
				pm.Away = slots[2*i+1]
			}
			round.Matches = append(round.Matches, pm)
		}
		plan.Rounds = append(plan.Rounds, round)
		roundNumber++
	}

	return plan, nil
}
