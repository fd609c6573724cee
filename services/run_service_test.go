package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movipadel/tornei-app/models"
)

func ip(v int) *int { return &v }

func completedGroupMatch(groupID, home, away, hg, ag int) *models.Match {
	now := time.Now()
	return &models.Match{
		Stage:       models.StageGroup,
		GroupID:     &groupID,
		HomePairID:  &home,
		AwayPairID:  &away,
		HomeGames:   &hg,
		AwayGames:   &ag,
		CompletedAt: &now,
	}
}

func TestQualifiersFromGroupsPicksRankByRank(t *testing.T) {
	pairs := []*models.Pair{
		{ID: 1, DisplayName: "A1"}, {ID: 2, DisplayName: "A2"}, {ID: 3, DisplayName: "A3"},
		{ID: 4, DisplayName: "B1"}, {ID: 5, DisplayName: "B2"}, {ID: 6, DisplayName: "B3"},
	}
	groups := []*models.Group{
		{ID: 100, Name: "Group A", PairIDs: []int{1, 2, 3}},
		{ID: 200, Name: "Group B", PairIDs: []int{4, 5, 6}},
	}
	// Group A finishes 1 > 2 > 3, group B finishes 4 > 5 > 6.
	matches := []*models.Match{
		completedGroupMatch(100, 1, 2, 6, 3),
		completedGroupMatch(100, 1, 3, 6, 1),
		completedGroupMatch(100, 2, 3, 6, 2),
		completedGroupMatch(200, 4, 5, 6, 0),
		completedGroupMatch(200, 4, 6, 6, 2),
		completedGroupMatch(200, 5, 6, 6, 4),
	}
	rules := models.RunRules{Scoring: models.ScoringOneSet, QualifiersCount: 4}

	got := qualifiersFromGroups(pairs, groups, matches, rules)

	// Both winners first, then both runners-up.
	require.Len(t, got, 4)
	assert.ElementsMatch(t, []int{1, 4}, got[:2])
	assert.ElementsMatch(t, []int{2, 5}, got[2:])
}

func TestQualifiersFromGroupsStopsAtTableEnd(t *testing.T) {
	pairs := []*models.Pair{{ID: 1, DisplayName: "A1"}, {ID: 2, DisplayName: "A2"}}
	groups := []*models.Group{{ID: 100, Name: "Group A", PairIDs: []int{1, 2}}}
	matches := []*models.Match{completedGroupMatch(100, 1, 2, 6, 3)}
	rules := models.RunRules{Scoring: models.ScoringOneSet, QualifiersCount: 8}

	got := qualifiersFromGroups(pairs, groups, matches, rules)
	assert.Equal(t, []int{1, 2}, got)
}

func TestResultLineForBaraondaListsBothPlayers(t *testing.T) {
	now := time.Now()
	turnID := 5
	m := &models.Match{
		Stage:         models.StageTurn,
		TurnID:        &turnID,
		HomePlayer1ID: ip(1),
		HomePlayer2ID: ip(2),
		AwayPlayer1ID: ip(3),
		AwayPlayer2ID: ip(4),
		HomeGames:     ip(6),
		AwayGames:     ip(4),
		CompletedAt:   &now,
	}

	line := resultLine(m, models.ScoringOneSet)
	assert.Equal(t, []int{1, 2}, line.HomeIDs)
	assert.Equal(t, []int{3, 4}, line.AwayIDs)
	assert.Equal(t, 6, line.HomeGames)
	assert.Equal(t, 4, line.AwayGames)
}

func TestResultLineForFixedPairs(t *testing.T) {
	now := time.Now()
	m := &models.Match{
		Stage:       models.StageGroup,
		HomePairID:  ip(7),
		AwayPairID:  ip(8),
		HomeGames:   ip(2),
		AwayGames:   ip(6),
		CompletedAt: &now,
	}

	line := resultLine(m, models.ScoringOneSet)
	assert.Equal(t, []int{7}, line.HomeIDs)
	assert.Equal(t, []int{8}, line.AwayIDs)
}
