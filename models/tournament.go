package models

import "time"

// TournamentCategory mirrors the category ENUM in the database.
type TournamentCategory string

const (
	CategoryMaschile  TournamentCategory = "maschile"
	CategoryFemminile TournamentCategory = "femminile"
	CategoryMisto     TournamentCategory = "misto"
)

type TournamentStatus string

const (
	TournamentStatusDraft    TournamentStatus = "draft"
	TournamentStatusOpen     TournamentStatus = "open"
	TournamentStatusClosed   TournamentStatus = "closed"
	TournamentStatusArchived TournamentStatus = "archived"
)

type Tournament struct {
	ID        int                `json:"id" db:"id"`
	Name      string             `json:"name" db:"name"`
	Category  TournamentCategory `json:"category" db:"category"`
	Status    TournamentStatus   `json:"status" db:"status"`
	StartsAt  *time.Time         `json:"starts_at,omitempty" db:"starts_at"`
	Location  *string            `json:"location,omitempty" db:"location"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`

	// Optional linked data, populated by the service layer.
	Registrations []Registration `json:"registrations,omitempty" db:"-"`
	Run           *Run           `json:"run,omitempty" db:"-"`
}
