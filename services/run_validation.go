package services

import (
	"fmt"

	"github.com/movipadel/tornei-app/models"
)

func validScoring(mode models.ScoringMode) bool {
	return mode == models.ScoringOneSet || mode == models.ScoringBestOf3
}

// validateFixedPairsInput checks the frozen plan of a fixed-pairs run
// against the confirmed registrations before anything is written.
func validateFixedPairsInput(input StartRunInput, confirmed []*models.Registration) error {
	if !validScoring(input.Scoring) {
		return ErrInvalidScoringMode
	}
	switch input.Format {
	case models.FormatGroupsAndBracket, models.FormatBracketOnly, models.FormatGroupOnly:
	default:
		return ErrInvalidRunFormat
	}
	if len(confirmed) < 2 {
		return ErrNotEnoughRegistrations
	}

	confirmedIDs := make(map[int]bool, len(confirmed))
	for _, reg := range confirmed {
		if reg.PartnerName == nil || *reg.PartnerName == "" {
			return fmt.Errorf("%w: registration %d", ErrPartnerNameRequired, reg.ID)
		}
		confirmedIDs[reg.ID] = true
	}

	if input.Format == models.FormatBracketOnly || input.Format == models.FormatGroupsAndBracket {
		if len(input.SeedRegistrationIDs) != input.SeedsCount {
			return ErrSeedCountMismatch
		}
		seen := make(map[int]bool, len(input.SeedRegistrationIDs))
		for _, id := range input.SeedRegistrationIDs {
			if seen[id] {
				return ErrSeedDuplicated
			}
			seen[id] = true
			if !confirmedIDs[id] {
				return ErrSeedNotConfirmed
			}
		}
	}

	if input.Format == models.FormatGroupsAndBracket || input.Format == models.FormatGroupOnly {
		placed := 0
		assigned := make(map[int]bool)
		for gi, regIDs := range input.Groups {
			if len(regIDs) > 0 && len(regIDs) < 2 {
				return ErrGroupTooSmall
			}
			for _, id := range regIDs {
				if !confirmedIDs[id] {
					return fmt.Errorf("%w: group %d references registration %d", ErrSeedNotConfirmed, gi+1, id)
				}
				if assigned[id] {
					return fmt.Errorf("%w: registration %d placed in more than one group", ErrValidationFailed, id)
				}
				assigned[id] = true
				placed++
			}
		}
		if placed < 2 {
			return ErrNotEnoughRegistrations
		}
		if input.Format == models.FormatGroupsAndBracket {
			if input.QualifiersCount < 2 || input.QualifiersCount > placed {
				return ErrQualifiersOutOfRange
			}
		}
	}
	return nil
}

// validateBaraondaInput checks the mixer plan: player counts, turn shape
// and the misto gender balance.
func validateBaraondaInput(input StartRunInput, category models.TournamentCategory, confirmed []*models.Registration) error {
	if !validScoring(input.Scoring) {
		return ErrInvalidScoringMode
	}
	if len(confirmed) < 4 {
		return ErrNotEnoughRegistrations
	}
	if input.MatchesPerTurn < 1 || input.Turns < 1 {
		return fmt.Errorf("%w: matches_per_turn and turns must be positive", ErrValidationFailed)
	}
	if category == models.CategoryMisto {
		males, females := 0, 0
		for _, reg := range confirmed {
			if reg.Sex == nil {
				return ErrSexRequired
			}
			if *reg.Sex == "f" {
				females++
			} else {
				males++
			}
		}
		if males != females {
			return ErrMistoGenderImbalance
		}
	}
	return nil
}
