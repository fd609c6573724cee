package models

import "time"

type RunMode string

const (
	RunModeBaraonda   RunMode = "baraonda"
	RunModeFixedPairs RunMode = "fixed_pairs"
)

type RunStatus string

const (
	RunStatusLocked   RunStatus = "locked"
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
)

type RunFormat string

const (
	FormatGroupsAndBracket RunFormat = "groups_and_bracket"
	FormatBracketOnly      RunFormat = "bracket_only"
	FormatGroupOnly        RunFormat = "group_only"
)

type ScoringMode string

const (
	ScoringOneSet   ScoringMode = "one_set"
	ScoringBestOf3  ScoringMode = "best_of_3"
)

// RunRules is the configuration snapshot frozen at run creation. It is
// persisted as a JSON column and never recomputed from current
// registrations: a run is a frozen plan.
type RunRules struct {
	Format  RunFormat   `json:"format,omitempty"`
	Scoring ScoringMode `json:"scoring"`

	// Fixed pairs
	CourtsCount         int   `json:"courts_count,omitempty"`
	QualifiersCount     int   `json:"qualifiers_count,omitempty"`
	RoundRobinLegs      int   `json:"round_robin_legs,omitempty"`
	SeedsCount          int   `json:"seeds_count,omitempty"`
	SeedRegistrationIDs []int `json:"seed_registration_ids,omitempty"`

	// Baraonda
	Category         TournamentCategory `json:"category,omitempty"`
	MatchesPerTurn   int                `json:"matches_per_turn,omitempty"`
	Turns            int                `json:"turns,omitempty"`
	MatchesPerPlayer int                `json:"matches_per_player,omitempty"`
}

type Run struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Mode         RunMode   `json:"mode" db:"mode"`
	Status       RunStatus `json:"status" db:"status"`
	Rules        RunRules  `json:"rules" db:"rules"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
