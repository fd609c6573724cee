package models

import "time"

// Participant is the baraonda player snapshot captured at run start.
// Immutable after creation; deleted only when the run is deleted.
type Participant struct {
	ID        int       `json:"id" db:"id"`
	RunID     int       `json:"run_id" db:"run_id"`
	Name      string    `json:"name" db:"name"`
	Sex       string    `json:"sex" db:"sex"` // "m" or "f"
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
