package models

import "time"

type MatchStage string

const (
	StageGroup   MatchStage = "group"
	StageBracket MatchStage = "bracket"
	StageTurn    MatchStage = "turn"
)

// Match is the generic persisted match row for all three stages.
//
// A bracket slot is either a concrete pair reference, nil (unresolved,
// awaiting an upstream winner), or structurally absent (a bye: the slot will
// never be filled, HomeAbsent/AwayAbsent set). CompletedAt is non-nil iff
// the score fields represent a decided, non-tied result; a bye match is
// auto-complete with no numeric score.
type Match struct {
	ID          int        `json:"id" db:"id"`
	RunID       int        `json:"run_id" db:"run_id"`
	Stage       MatchStage `json:"stage" db:"stage"`
	GroupID     *int       `json:"group_id,omitempty" db:"group_id"`
	TurnID      *int       `json:"turn_id,omitempty" db:"turn_id"`
	RoundNumber *int       `json:"round_number,omitempty" db:"round_number"`
	RoundLabel  *string    `json:"round_label,omitempty" db:"round_label"`
	OrderInUnit int        `json:"order_in_unit" db:"order_in_unit"`

	HomePairID *int `json:"home_pair_id,omitempty" db:"home_pair_id"`
	AwayPairID *int `json:"away_pair_id,omitempty" db:"away_pair_id"`
	HomeAbsent bool `json:"home_absent" db:"home_absent"`
	AwayAbsent bool `json:"away_absent" db:"away_absent"`

	// Baraonda: two players per side.
	HomePlayer1ID *int `json:"home_player1_id,omitempty" db:"home_player1_id"`
	HomePlayer2ID *int `json:"home_player2_id,omitempty" db:"home_player2_id"`
	AwayPlayer1ID *int `json:"away_player1_id,omitempty" db:"away_player1_id"`
	AwayPlayer2ID *int `json:"away_player2_id,omitempty" db:"away_player2_id"`

	Court    *int       `json:"court,omitempty" db:"court"`
	StartsAt *time.Time `json:"starts_at,omitempty" db:"starts_at"`

	HomeGames *int `json:"home_games,omitempty" db:"home_games"`
	AwayGames *int `json:"away_games,omitempty" db:"away_games"`
	Set1Home  *int `json:"set1_home,omitempty" db:"set1_home"`
	Set1Away  *int `json:"set1_away,omitempty" db:"set1_away"`
	Set2Home  *int `json:"set2_home,omitempty" db:"set2_home"`
	Set2Away  *int `json:"set2_away,omitempty" db:"set2_away"`
	Set3Home  *int `json:"set3_home,omitempty" db:"set3_home"`
	Set3Away  *int `json:"set3_away,omitempty" db:"set3_away"`
	HomeSets  *int `json:"home_sets,omitempty" db:"home_sets"`
	AwaySets  *int `json:"away_sets,omitempty" db:"away_sets"`

	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// IsBye reports whether the match is permanently one-sided.
func (m *Match) IsBye() bool {
	return (m.HomeAbsent && !m.AwayAbsent) || (m.AwayAbsent && !m.HomeAbsent)
}

// ByeOccupant returns the single concrete pair of a bye match, if any.
func (m *Match) ByeOccupant() *int {
	if m.HomeAbsent {
		return m.AwayPairID
	}
	if m.AwayAbsent {
		return m.HomePairID
	}
	return nil
}

// Undefined reports whether both slots are still awaiting upstream winners.
func (m *Match) Undefined() bool {
	return m.HomePairID == nil && m.AwayPairID == nil && !m.HomeAbsent && !m.AwayAbsent
}

// ConcretePairs returns the pair ids currently occupying the match slots.
func (m *Match) ConcretePairs() []int {
	ids := make([]int, 0, 2)
	if m.HomePairID != nil {
		ids = append(ids, *m.HomePairID)
	}
	if m.AwayPairID != nil {
		ids = append(ids, *m.AwayPairID)
	}
	return ids
}

// ClearScore wipes every score field together with completion.
func (m *Match) ClearScore() {
	m.HomeGames, m.AwayGames = nil, nil
	m.Set1Home, m.Set1Away = nil, nil
	m.Set2Home, m.Set2Away = nil, nil
	m.Set3Home, m.Set3Away = nil, nil
	m.HomeSets, m.AwaySets = nil, nil
	m.CompletedAt = nil
}
