package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movipadel/tornei-app/models"
)

func TestEvaluateOneSet(t *testing.T) {
	tests := []struct {
		name      string
		home      *int
		away      *int
		completed bool
		winner    Side
	}{
		{name: "home wins", home: ip(6), away: ip(4), completed: true, winner: SideHome},
		{name: "away wins", home: ip(2), away: ip(6), completed: true, winner: SideAway},
		{name: "tie is not decisive", home: ip(5), away: ip(5), completed: false, winner: SideNone},
		{name: "missing side", home: ip(6), away: nil, completed: false, winner: SideNone},
		{name: "no score", home: nil, away: nil, completed: false, winner: SideNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &models.Match{HomeGames: tt.home, AwayGames: tt.away}
			res := Evaluate(models.ScoringOneSet, m)
			assert.Equal(t, tt.completed, res.Completed)
			assert.Equal(t, tt.winner, res.Winner)
		})
	}
}

func TestEvaluateBestOf3ThirdSetCounts(t *testing.T) {
	// 6-4, 3-6, 10-2: sets split 1-1, third set decides.
	m := &models.Match{
		Set1Home: ip(6), Set1Away: ip(4),
		Set2Home: ip(3), Set2Away: ip(6),
		Set3Home: ip(10), Set3Away: ip(2),
	}
	res := Evaluate(models.ScoringBestOf3, m)

	assert.True(t, res.Completed)
	assert.Equal(t, SideHome, res.Winner)
	assert.True(t, res.Set3Counts)
	assert.Equal(t, 2, res.HomeSets)
	assert.Equal(t, 1, res.AwaySets)
	assert.Equal(t, 19, res.HomeGames)
	assert.Equal(t, 12, res.AwayGames)
}

func TestEvaluateBestOf3StaleThirdSetIgnored(t *testing.T) {
	// 6-4, 6-3 decide the match 2-0; a leftover 10-2 third set must not
	// touch sets, games or winner.
	m := &models.Match{
		Set1Home: ip(6), Set1Away: ip(4),
		Set2Home: ip(6), Set2Away: ip(3),
		Set3Home: ip(10), Set3Away: ip(2),
	}
	res := Evaluate(models.ScoringBestOf3, m)

	assert.True(t, res.Completed)
	assert.Equal(t, SideHome, res.Winner)
	assert.False(t, res.Set3Counts)
	assert.Equal(t, 2, res.HomeSets)
	assert.Equal(t, 0, res.AwaySets)
	assert.Equal(t, 12, res.HomeGames)
	assert.Equal(t, 7, res.AwayGames)

	ApplyResult(models.ScoringBestOf3, m, res)
	assert.Nil(t, m.Set3Home)
	assert.Nil(t, m.Set3Away)
	require.NotNil(t, m.HomeGames)
	assert.Equal(t, 12, *m.HomeGames)
	require.NotNil(t, m.HomeSets)
	assert.Equal(t, 2, *m.HomeSets)
}

func TestEvaluateBestOf3TiedSetGamesStayInTotals(t *testing.T) {
	// A tied opening set decides no set, but its games were played and
	// count toward the totals. The match cannot complete from here.
	m := &models.Match{
		Set1Home: ip(6), Set1Away: ip(6),
		Set2Home: ip(6), Set2Away: ip(3),
	}
	res := Evaluate(models.ScoringBestOf3, m)

	assert.False(t, res.Completed)
	assert.Equal(t, SideNone, res.Winner)
	assert.Equal(t, 1, res.HomeSets)
	assert.Equal(t, 0, res.AwaySets)
	assert.Equal(t, 12, res.HomeGames)
	assert.Equal(t, 9, res.AwayGames)
}

func TestEvaluateBestOf3Incomplete(t *testing.T) {
	tests := []struct {
		name string
		m    *models.Match
	}{
		{name: "only one set played", m: &models.Match{Set1Home: ip(6), Set1Away: ip(4)}},
		{name: "split with no third set", m: &models.Match{
			Set1Home: ip(6), Set1Away: ip(4),
			Set2Home: ip(4), Set2Away: ip(6),
		}},
		{name: "split with tied third set", m: &models.Match{
			Set1Home: ip(6), Set1Away: ip(4),
			Set2Home: ip(4), Set2Away: ip(6),
			Set3Home: ip(8), Set3Away: ip(8),
		}},
		{name: "empty", m: &models.Match{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(models.ScoringBestOf3, tt.m)
			assert.False(t, res.Completed)
			assert.Equal(t, SideNone, res.Winner)
		})
	}
}

func TestEvaluateBestOf3AwayInStraightSets(t *testing.T) {
	m := &models.Match{
		Set1Home: ip(3), Set1Away: ip(6),
		Set2Home: ip(2), Set2Away: ip(6),
	}
	res := Evaluate(models.ScoringBestOf3, m)
	assert.True(t, res.Completed)
	assert.Equal(t, SideAway, res.Winner)
	assert.Equal(t, 0, res.HomeSets)
	assert.Equal(t, 2, res.AwaySets)
}
