package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movipadel/tornei-app/models"
)

func TestProjectBracketCarriesWinnersForward(t *testing.T) {
	now := time.Now()
	semi1 := bracketMatch(1, 1, 0, ip(10), ip(20))
	semi1.HomeGames, semi1.AwayGames = ip(6), ip(2)
	semi1.CompletedAt = &now
	semi2 := bracketMatch(2, 1, 1, ip(30), ip(40))
	final := bracketMatch(3, 2, 0, nil, nil)

	projected := ProjectBracket([]*models.Match{semi1, semi2, final}, models.ScoringOneSet)

	var projFinal *models.Match
	for _, m := range projected {
		if m.ID == 3 {
			projFinal = m
		}
	}
	require.NotNil(t, projFinal)
	require.NotNil(t, projFinal.HomePairID)
	assert.Equal(t, 10, *projFinal.HomePairID)
	assert.Nil(t, projFinal.AwayPairID)

	// The projection never writes back to the source rows.
	assert.Nil(t, final.HomePairID)
}

func TestProjectBracketShowsByeOccupant(t *testing.T) {
	bye := bracketMatch(1, 1, 0, ip(10), nil)
	bye.AwayAbsent = true
	other := bracketMatch(2, 1, 1, ip(30), ip(40))
	final := bracketMatch(3, 2, 0, nil, nil)

	projected := ProjectBracket([]*models.Match{bye, other, final}, models.ScoringOneSet)

	for _, m := range projected {
		if m.ID == 3 {
			require.NotNil(t, m.HomePairID)
			assert.Equal(t, 10, *m.HomePairID)
		}
	}
}

func TestProjectBracketLeavesUnplayedAlone(t *testing.T) {
	semi1 := bracketMatch(1, 1, 0, ip(10), ip(20))
	semi2 := bracketMatch(2, 1, 1, ip(30), ip(40))
	final := bracketMatch(3, 2, 0, nil, nil)

	projected := ProjectBracket([]*models.Match{semi1, semi2, final}, models.ScoringOneSet)
	for _, m := range projected {
		if m.ID == 3 {
			assert.Nil(t, m.HomePairID)
			assert.Nil(t, m.AwayPairID)
		}
	}
}
