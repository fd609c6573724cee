package models

import "time"

type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationReserve   RegistrationStatus = "reserve"
)

// Registration is a public sign-up for a tournament. For fixed-pairs
// tournaments it names a team of two; for baraonda it is a single player
// whose sex drives the misto team constraint.
type Registration struct {
	ID           int                `json:"id" db:"id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	PlayerName   string             `json:"player_name" db:"player_name"`
	PartnerName  *string            `json:"partner_name,omitempty" db:"partner_name"`
	Sex          *string            `json:"sex,omitempty" db:"sex"` // "m" or "f", baraonda only
	Status       RegistrationStatus `json:"status" db:"status"`
	Position     int                `json:"position" db:"position"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}

// DisplayName renders the name shown on schedules: "Rossi / Bianchi" for a
// pair, the bare player name otherwise.
func (r Registration) DisplayName() string {
	if r.PartnerName != nil && *r.PartnerName != "" {
		return r.PlayerName + " / " + *r.PartnerName
	}
	return r.PlayerName
}
