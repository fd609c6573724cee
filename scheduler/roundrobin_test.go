package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoundRobin(t *testing.T) {
	tests := []struct {
		name    string
		pairIDs []int
		legs    int
		want    int
	}{
		{name: "four pairs single leg", pairIDs: []int{1, 2, 3, 4}, legs: 1, want: 6},
		{name: "four pairs double leg", pairIDs: []int{1, 2, 3, 4}, legs: 2, want: 12},
		{name: "two pairs", pairIDs: []int{7, 9}, legs: 1, want: 1},
		{name: "five pairs single leg", pairIDs: []int{1, 2, 3, 4, 5}, legs: 1, want: 10},
		{name: "one pair yields nothing", pairIDs: []int{1}, legs: 1, want: 0},
		{name: "empty input", pairIDs: nil, legs: 2, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateRoundRobin(tt.pairIDs, tt.legs)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestGenerateRoundRobinEveryPairMeetsOnce(t *testing.T) {
	ids := []int{10, 20, 30, 40, 50}
	matches := GenerateRoundRobin(ids, 1)

	seen := make(map[[2]int]int)
	for _, m := range matches {
		key := [2]int{m.Home, m.Away}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		seen[key]++
		assert.NotEqual(t, m.Home, m.Away)
	}
	assert.Len(t, seen, 10)
	for key, count := range seen {
		assert.Equalf(t, 1, count, "pairing %v generated %d times", key, count)
	}
}

func TestGenerateRoundRobinSecondLegMirrorsImmediately(t *testing.T) {
	matches := GenerateRoundRobin([]int{1, 2, 3}, 2)
	require.Len(t, matches, 6)

	for i := 0; i < len(matches); i += 2 {
		first, second := matches[i], matches[i+1]
		assert.Equal(t, first.Home, second.Away)
		assert.Equal(t, first.Away, second.Home)
	}
}

func TestGenerateRoundRobinDeterministic(t *testing.T) {
	a := GenerateRoundRobin([]int{3, 1, 2}, 1)
	b := GenerateRoundRobin([]int{3, 1, 2}, 1)
	assert.Equal(t, a, b)
}
