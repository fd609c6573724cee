package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/movipadel/tornei-app/models"
	"github.com/movipadel/tornei-app/repositories"
)

type CreateRegistrationInput struct {
	PlayerName  string  `json:"player_name"`
	PartnerName *string `json:"partner_name,omitempty"`
	Sex         *string `json:"sex,omitempty"`
	Reserve     bool    `json:"reserve,omitempty"`
}

type RegistrationService interface {
	Create(ctx context.Context, tournamentID int, input CreateRegistrationInput) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error)
	SetStatus(ctx context.Context, id int, status models.RegistrationStatus) error
	Delete(ctx context.Context, id int) error
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
	}
}

func (s *registrationService) Create(ctx context.Context, tournamentID int, input CreateRegistrationInput) (*models.Registration, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentStatusOpen {
		return nil, ErrRegistrationClosed
	}
	if strings.TrimSpace(input.PlayerName) == "" {
		return nil, ErrPlayerNameRequired
	}
	if input.Sex != nil && *input.Sex != "m" && *input.Sex != "f" {
		return nil, fmt.Errorf("%w: sex must be m or f", ErrValidationFailed)
	}

	status := models.RegistrationConfirmed
	if input.Reserve {
		status = models.RegistrationReserve
	}
	reg := &models.Registration{
		TournamentID: tournamentID,
		PlayerName:   strings.TrimSpace(input.PlayerName),
		PartnerName:  input.PartnerName,
		Sex:          input.Sex,
		Status:       status,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error) {
	return s.registrationRepo.ListByTournament(ctx, tournamentID, nil)
}

func (s *registrationService) SetStatus(ctx context.Context, id int, status models.RegistrationStatus) error {
	if status != models.RegistrationConfirmed && status != models.RegistrationReserve {
		return fmt.Errorf("%w: unknown registration status %q", ErrValidationFailed, status)
	}
	return s.registrationRepo.UpdateStatus(ctx, id, status)
}

func (s *registrationService) Delete(ctx context.Context, id int) error {
	return s.registrationRepo.Delete(ctx, id)
}
