package models

import "time"

// Turn is one baraonda round. Players not appearing in any of its matches
// are resting that turn; resting is derived, never stored.
type Turn struct {
	ID        int       `json:"id" db:"id"`
	RunID     int       `json:"run_id" db:"run_id"`
	Number    int       `json:"number" db:"number"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
