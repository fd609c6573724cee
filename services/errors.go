package services

import "errors"

// Shared errors surfaced across services and mapped to HTTP statuses in
// the handlers layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation errors: rejected synchronously before any write.
	ErrValidationFailed        = errors.New("validation failed")
	ErrTournamentNameRequired  = errors.New("tournament name is required")
	ErrPlayerNameRequired      = errors.New("player name is required")
	ErrPartnerNameRequired     = errors.New("partner name is required for a pair registration")
	ErrSexRequired             = errors.New("player sex is required for a baraonda registration")
	ErrSeedCountMismatch       = errors.New("seeds count does not match the seed id list length")
	ErrSeedNotConfirmed        = errors.New("seed ids must reference confirmed registrations")
	ErrSeedDuplicated          = errors.New("seed ids must be unique")
	ErrQualifiersOutOfRange    = errors.New("qualifiers count must be at least 2 and no more than the pairs placed in groups")
	ErrGroupNotClosed          = errors.New("all group matches must be completed before the bracket is built")
	ErrGroupTooSmall           = errors.New("every populated group needs at least 2 pairs")
	ErrMistoGenderImbalance    = errors.New("misto baraonda requires equal male and female counts")
	ErrNotEnoughRegistrations  = errors.New("not enough confirmed registrations to start a run")
	ErrInvalidScoringMode      = errors.New("invalid scoring mode")
	ErrInvalidRunFormat        = errors.New("invalid run format")

	// State-conflict errors.
	ErrRunAlreadyActive   = errors.New("tournament already has an active run")
	ErrMatchNotDefined    = errors.New("match participants are not yet defined")
	ErrMatchNotInRun      = errors.New("match does not belong to an active run")
	ErrRegistrationClosed = errors.New("tournament registration is not open")

	// Invariant violations: fatal, generation aborts rather than returning
	// a partially-correct schedule.
	ErrScheduleInvariant = errors.New("schedule generation violated an internal invariant")

	// Auth.
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
)
