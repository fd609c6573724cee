package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(home, away, hg, ag int, winner Side) ResultLine {
	return ResultLine{
		HomeIDs:   []int{home},
		AwayIDs:   []int{away},
		HomeGames: hg,
		AwayGames: ag,
		Winner:    winner,
	}
}

func TestComputeStandingsCounters(t *testing.T) {
	entries := []TableEntry{{ID: 1, Name: "Rossi / Bianchi"}, {ID: 2, Name: "Verdi / Neri"}}
	results := []ResultLine{
		line(1, 2, 6, 4, SideHome),
		line(2, 1, 6, 3, SideHome),
	}

	table := ComputeStandings(entries, results, TiebreakFixedPairs)
	require.Len(t, table, 2)

	byID := map[int]int{table[0].EntryID: 0, table[1].EntryID: 1}
	a := table[byID[1]]
	assert.Equal(t, 1, a.Points)
	assert.Equal(t, 2, a.Played)
	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 1, a.Losses)
	assert.Equal(t, 9, a.GamesWon)
	assert.Equal(t, 10, a.GamesLost)
	assert.Equal(t, -1, a.GamesDiff)
}

func TestComputeStandingsIgnoresUndecidedResults(t *testing.T) {
	entries := []TableEntry{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	table := ComputeStandings(entries, []ResultLine{line(1, 2, 5, 5, SideNone)}, TiebreakFixedPairs)
	assert.Equal(t, 0, table[0].Played)
	assert.Equal(t, 0, table[1].Played)
}

func TestComputeStandingsGamesLostBreaksPointsTie(t *testing.T) {
	// 1 and 2 both take one win with identical games won; fewer games lost
	// must rank first under the fixed-pairs policy.
	entries := []TableEntry{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
	results := []ResultLine{
		line(1, 3, 6, 0, SideHome),
		line(2, 3, 6, 4, SideHome),
	}

	table := ComputeStandings(entries, results, TiebreakFixedPairs)
	require.Len(t, table, 3)
	assert.Equal(t, 1, table[0].EntryID)
	assert.Equal(t, 2, table[1].EntryID)
	assert.Equal(t, 3, table[2].EntryID)
}

func TestComputeStandingsPoliciesDiverge(t *testing.T) {
	// A: one win, 13 games won. B: two wins, 10 games won. Fixed pairs
	// ranks by points first (B), baraonda by games won first (A).
	entries := []TableEntry{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}
	results := []ResultLine{
		line(1, 3, 13, 11, SideHome),
		line(2, 3, 6, 0, SideHome),
		line(2, 4, 4, 2, SideHome),
	}

	fixed := ComputeStandings(entries, results, TiebreakFixedPairs)
	assert.Equal(t, 2, fixed[0].EntryID)

	baraonda := ComputeStandings(entries, results, TiebreakBaraonda)
	assert.Equal(t, 1, baraonda[0].EntryID)
}

func TestComputeStandingsNameBreaksFullTie(t *testing.T) {
	entries := []TableEntry{{ID: 2, Name: "Zeta"}, {ID: 1, Name: "Alfa"}}
	table := ComputeStandings(entries, nil, TiebreakFixedPairs)
	assert.Equal(t, "Alfa", table[0].Name)
	assert.Equal(t, "Zeta", table[1].Name)
}

func TestComputeStandingsCreditsEveryPlayerOnASide(t *testing.T) {
	// Baraonda: both players of the winning team get the point and games.
	entries := []TableEntry{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}
	results := []ResultLine{{
		HomeIDs:   []int{1, 2},
		AwayIDs:   []int{3, 4},
		HomeGames: 6,
		AwayGames: 2,
		Winner:    SideHome,
	}}

	table := ComputeStandings(entries, results, TiebreakBaraonda)
	for _, row := range table {
		switch row.EntryID {
		case 1, 2:
			assert.Equal(t, 1, row.Points)
			assert.Equal(t, 6, row.GamesWon)
			assert.Equal(t, 2, row.GamesLost)
		case 3, 4:
			assert.Equal(t, 0, row.Points)
			assert.Equal(t, 1, row.Losses)
		}
	}
}
