package models

import "time"

// Group is a round-robin pool of pairs. Membership lives in a separate
// table (run_group_pairs) and is frozen before match generation.
type Group struct {
	ID        int       `json:"id" db:"id"`
	RunID     int       `json:"run_id" db:"run_id"`
	Name      string    `json:"name" db:"name"`
	Position  int       `json:"position" db:"position"`
	Closed    bool      `json:"closed" db:"closed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	PairIDs []int `json:"pair_ids,omitempty" db:"-"`
}
