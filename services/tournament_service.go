package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/movipadel/tornei-app/models"
	"github.com/movipadel/tornei-app/repositories"
)

type CreateTournamentInput struct {
	Name     string                    `json:"name"`
	Category models.TournamentCategory `json:"category"`
	StartsAt *time.Time                `json:"starts_at,omitempty"`
	Location *string                   `json:"location,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Delete(ctx context.Context, id int) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	runRepo        repositories.RunRepository
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, runRepo repositories.RunRepository) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo, runRepo: runRepo}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	category := input.Category
	if category == "" {
		category = models.CategoryMisto
	}
	switch category {
	case models.CategoryMaschile, models.CategoryFemminile, models.CategoryMisto:
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidationFailed, input.Category)
	}

	t := &models.Tournament{
		Name:     name,
		Category: category,
		Status:   models.TournamentStatusOpen,
		StartsAt: input.StartsAt,
		Location: input.Location,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	run, err := s.runRepo.GetByTournament(ctx, id)
	if err != nil && !errors.Is(err, repositories.ErrRunNotFound) {
		return nil, fmt.Errorf("failed to load run for tournament %d: %w", id, err)
	}
	t.Run = run
	return t, nil
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx)
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	return s.tournamentRepo.Delete(ctx, id)
}
