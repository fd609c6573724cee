package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movipadel/tornei-app/models"
)

func baraondaPlayers(males, females int) []models.Participant {
	out := make([]models.Participant, 0, males+females)
	id := 1
	for i := 0; i < males; i++ {
		out = append(out, models.Participant{ID: id, Name: "M", Sex: "m"})
		id++
	}
	for i := 0; i < females; i++ {
		out = append(out, models.Participant{ID: id, Name: "F", Sex: "f"})
		id++
	}
	return out
}

func playedCounts(turns []TurnPlan) map[int]int {
	counts := make(map[int]int)
	for _, turn := range turns {
		for _, m := range turn.Matches {
			for _, p := range []int{m.Home.P1, m.Home.P2, m.Away.P1, m.Away.P2} {
				counts[p]++
			}
		}
	}
	return counts
}

func TestGenerateBaraondaMisto5v5Exact(t *testing.T) {
	players := baraondaPlayers(5, 5)
	rules := BaraondaRules{
		Category:         models.CategoryMisto,
		MatchesPerTurn:   2,
		Turns:            8,
		MatchesPerPlayer: 6,
	}

	turns, err := GenerateBaraonda(players, rules, nil)
	require.NoError(t, err)
	require.Len(t, turns, 8)

	total := 0
	for i, turn := range turns {
		assert.Equal(t, i+1, turn.Number)
		assert.LessOrEqual(t, len(turn.Matches), 2)
		total += len(turn.Matches)
	}
	assert.Equal(t, 15, total)

	// Every player plays exactly six matches.
	counts := playedCounts(turns)
	require.Len(t, counts, 10)
	for id, played := range counts {
		assert.Equalf(t, 6, played, "player %d", id)
	}

	// Teams are always one man and one woman, and no player meets
	// themselves across the net.
	sex := make(map[int]string)
	for _, p := range players {
		sex[p.ID] = p.Sex
	}
	partnered := make(map[pairKey]bool)
	for _, turn := range turns {
		for _, m := range turn.Matches {
			for _, team := range []TeamPlan{m.Home, m.Away} {
				assert.NotEqual(t, sex[team.P1], sex[team.P2])
				partnered[keyOf(team.P1, team.P2)] = true
			}
			seen := map[int]bool{m.Home.P1: true, m.Home.P2: true, m.Away.P1: true, m.Away.P2: true}
			assert.Len(t, seen, 4)
		}
	}

	// Full coverage: every man partners every woman at least once.
	for m := 1; m <= 5; m++ {
		for f := 6; f <= 10; f++ {
			assert.Truef(t, partnered[keyOf(m, f)], "players %d and %d never partnered", m, f)
		}
	}
}

func TestGenerateBaraondaMisto5v5NoPlayerInTwoMatchesPerTurn(t *testing.T) {
	players := baraondaPlayers(5, 5)
	rules := BaraondaRules{Category: models.CategoryMisto, MatchesPerTurn: 2, Turns: 8, MatchesPerPlayer: 6}

	turns, err := GenerateBaraonda(players, rules, nil)
	require.NoError(t, err)

	for _, turn := range turns {
		seen := make(map[int]bool)
		for _, m := range turn.Matches {
			for _, p := range []int{m.Home.P1, m.Home.P2, m.Away.P1, m.Away.P2} {
				assert.Falsef(t, seen[p], "player %d twice in turn %d", p, turn.Number)
				seen[p] = true
			}
		}
	}
}

func TestGenerateBaraondaHeuristicEquity(t *testing.T) {
	// Six men, one court, six turns: 24 play slots over 6 players must
	// land everyone on exactly 4 matches with the default quota.
	players := baraondaPlayers(6, 0)
	rules := BaraondaRules{Category: models.CategoryMaschile, MatchesPerTurn: 1, Turns: 6}

	turns, err := GenerateBaraonda(players, rules, nil)
	require.NoError(t, err)
	require.Len(t, turns, 6)

	for _, turn := range turns {
		require.Len(t, turn.Matches, 1)
	}
	counts := playedCounts(turns)
	require.Len(t, counts, 6)
	for id, played := range counts {
		assert.Equalf(t, 4, played, "player %d", id)
	}
}

func TestGenerateBaraondaHeuristicFewerSlotsThanPlayers(t *testing.T) {
	// Eight men, one court, one turn: only 4 play slots for 8 players, so
	// the derived per-player quota truncates to zero. The turn must still
	// be filled instead of coming out empty.
	players := baraondaPlayers(8, 0)
	rules := BaraondaRules{Category: models.CategoryMaschile, MatchesPerTurn: 1, Turns: 1}

	turns, err := GenerateBaraonda(players, rules, nil)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.Len(t, turns[0].Matches, 1)

	m := turns[0].Matches[0]
	seen := map[int]bool{m.Home.P1: true, m.Home.P2: true, m.Away.P1: true, m.Away.P2: true}
	assert.Len(t, seen, 4)
}

func TestGenerateBaraondaHeuristicMistoTeams(t *testing.T) {
	players := baraondaPlayers(3, 3)
	rules := BaraondaRules{Category: models.CategoryMisto, MatchesPerTurn: 1, Turns: 3}

	turns, err := GenerateBaraonda(players, rules, nil)
	require.NoError(t, err)

	sex := make(map[int]string)
	for _, p := range players {
		sex[p.ID] = p.Sex
	}
	for _, turn := range turns {
		for _, m := range turn.Matches {
			assert.NotEqual(t, sex[m.Home.P1], sex[m.Home.P2])
			assert.NotEqual(t, sex[m.Away.P1], sex[m.Away.P2])
		}
	}
}

func TestGenerateBaraondaErrors(t *testing.T) {
	tests := []struct {
		name    string
		players []models.Participant
		rules   BaraondaRules
		wantErr error
	}{
		{
			name:    "too few players",
			players: baraondaPlayers(3, 0),
			rules:   BaraondaRules{Category: models.CategoryMaschile, MatchesPerTurn: 1, Turns: 4},
			wantErr: ErrTooFewPlayers,
		},
		{
			name:    "misto imbalance",
			players: baraondaPlayers(4, 2),
			rules:   BaraondaRules{Category: models.CategoryMisto, MatchesPerTurn: 1, Turns: 4},
			wantErr: ErrMistoImbalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateBaraonda(tt.players, tt.rules, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
