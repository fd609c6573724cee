package models

import "time"

// Pair is the fixed-pairs team snapshot captured at run start, one per
// confirmed registration. Immutable after creation.
type Pair struct {
	ID                   int       `json:"id" db:"id"`
	RunID                int       `json:"run_id" db:"run_id"`
	DisplayName          string    `json:"display_name" db:"display_name"`
	SourceRegistrationID int       `json:"source_registration_id" db:"source_registration_id"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}
