package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func concreteSlots(plan *BracketPlan) []int {
	ids := make([]int, 0)
	for _, round := range plan.Rounds {
		for _, m := range round.Matches {
			if m.Home != nil {
				ids = append(ids, *m.Home)
			}
			if m.Away != nil {
				ids = append(ids, *m.Away)
			}
		}
	}
	return ids
}

func TestBracketOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2}, bracketOrder(2))
	assert.Equal(t, []int{1, 4, 3, 2}, bracketOrder(4))
	assert.Equal(t, []int{1, 8, 5, 4, 3, 6, 7, 2}, bracketOrder(8))
}

func TestNextPowerOfTwo(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16, 17: 32} {
		assert.Equalf(t, want, nextPowerOfTwo(n), "n=%d", n)
	}
}

func TestRoundLabels(t *testing.T) {
	assert.Equal(t, "Final", RoundLabelForSize(2))
	assert.Equal(t, "Semifinals", RoundLabelForSize(4))
	assert.Equal(t, "Quarterfinals", RoundLabelForSize(8))
	assert.Equal(t, "Round 64", RoundLabelForSize(64))

	assert.Less(t, RoundRank("Round 64"), RoundRank("Round of 32"))
	assert.Less(t, RoundRank("Quarterfinals"), RoundRank("Semifinals"))
	assert.Less(t, RoundRank("Semifinals"), RoundRank("Final"))
	assert.Greater(t, RoundRank("Girone A"), RoundRank("Final"))
}

func TestSeedBracketPowerOfTwo(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	plan, err := SeedBracket(ids, []int{1, 2}, testRng())
	require.NoError(t, err)

	require.Len(t, plan.Rounds, 3)
	assert.Equal(t, "Quarterfinals", plan.Rounds[0].Label)
	assert.Equal(t, "Semifinals", plan.Rounds[1].Label)
	assert.Equal(t, "Final", plan.Rounds[2].Label)
	assert.Equal(t, 1, plan.Rounds[0].Number)
	assert.Equal(t, 3, plan.Rounds[2].Number)
	assert.Len(t, plan.Rounds[0].Matches, 4)
	assert.Len(t, plan.Rounds[1].Matches, 2)
	assert.Len(t, plan.Rounds[2].Matches, 1)

	// Every participant placed exactly once, all in the first round.
	placed := concreteSlots(plan)
	assert.ElementsMatch(t, ids, placed)

	// Seed 1 opens the draw; seed 2 anchors the opposite half.
	require.NotNil(t, plan.Rounds[0].Matches[0].Home)
	assert.Equal(t, 1, *plan.Rounds[0].Matches[0].Home)
	require.NotNil(t, plan.Rounds[0].Matches[3].Away)
	assert.Equal(t, 2, *plan.Rounds[0].Matches[3].Away)
}

func TestSeedBracketPlayIn(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6}
	plan, err := SeedBracket(ids, []int{1, 2}, testRng())
	require.NoError(t, err)

	// 6 participants: play-in of 6-4=2 matches, then semifinals of 4 slots.
	require.Len(t, plan.Rounds, 3)
	playIn, main := plan.Rounds[0], plan.Rounds[1]
	assert.Len(t, playIn.Matches, 2)
	assert.Len(t, main.Matches, 2)
	assert.Equal(t, main.Number, playIn.Number+1)

	for _, m := range playIn.Matches {
		require.NotNil(t, m.Home)
		require.NotNil(t, m.Away)
	}

	// Exactly two main-round slots wait for play-in winners.
	nilSlots := 0
	for _, m := range main.Matches {
		if m.Home == nil {
			nilSlots++
		}
		if m.Away == nil {
			nilSlots++
		}
	}
	assert.Equal(t, 2, nilSlots)

	// All six appear exactly once across play-in and main round.
	assert.ElementsMatch(t, ids, concreteSlots(plan))
}

func TestSeedBracketOversizedSeedListDropsIntoPlayIn(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6}
	plan, err := SeedBracket(ids, []int{1, 2, 3, 4, 5}, testRng())
	require.NoError(t, err)

	assert.ElementsMatch(t, ids, concreteSlots(plan))
	assert.Len(t, plan.Rounds[0].Matches, 2)

	// Top seed survives into the main round untouched.
	found := false
	for _, m := range plan.Rounds[1].Matches {
		if m.Home != nil && *m.Home == 1 || m.Away != nil && *m.Away == 1 {
			found = true
		}
	}
	assert.True(t, found, "seed 1 should be placed directly in the main round")
}

func TestSeedBracketTwoParticipants(t *testing.T) {
	plan, err := SeedBracket([]int{11, 12}, nil, testRng())
	require.NoError(t, err)
	require.Len(t, plan.Rounds, 1)
	assert.Equal(t, "Final", plan.Rounds[0].Label)
	assert.ElementsMatch(t, []int{11, 12}, concreteSlots(plan))
}

func TestSeedBracketErrors(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int
		seeds   []int
		wantErr error
	}{
		{name: "single participant", ids: []int{1}, wantErr: ErrNotEnoughParticipants},
		{name: "seed outside field", ids: []int{1, 2, 3, 4}, seeds: []int{9}, wantErr: ErrSeedNotParticipant},
		{name: "duplicate seed", ids: []int{1, 2, 3, 4}, seeds: []int{1, 1}, wantErr: ErrDuplicateSeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SeedBracket(tt.ids, tt.seeds, testRng())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
