package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorePatchDistinguishesAbsentFromNull(t *testing.T) {
	var patch ScorePatch
	require.NoError(t, json.Unmarshal([]byte(`{"home_games": 6, "away_games": null}`), &patch))

	assert.True(t, patch.HomeGames.Set)
	require.NotNil(t, patch.HomeGames.Value)
	assert.Equal(t, 6, *patch.HomeGames.Value)

	// Explicit null: field sent, value cleared.
	assert.True(t, patch.AwayGames.Set)
	assert.Nil(t, patch.AwayGames.Value)

	// Never mentioned: leave the stored value alone.
	assert.False(t, patch.Set1Home.Set)
}

func TestScorePatchResetFlag(t *testing.T) {
	var patch ScorePatch
	require.NoError(t, json.Unmarshal([]byte(`{"reset": true}`), &patch))
	assert.True(t, patch.Reset)
	assert.False(t, patch.HomeGames.Set)
}
