package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movipadel/tornei-app/models"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	ListByRun(ctx context.Context, runID int) ([]*models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	query := `
		INSERT INTO run_participants (run_id, name, sex)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.getExecutor(exec).QueryRowContext(ctx, query, p.RunID, p.Name, p.Sex).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *postgresParticipantRepository) ListByRun(ctx context.Context, runID int) ([]*models.Participant, error) {
	query := `SELECT id, run_id, name, sex, created_at FROM run_participants WHERE run_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for run %d: %w", runID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if scanErr := rows.Scan(&p.ID, &p.RunID, &p.Name, &p.Sex, &p.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, &p)
	}
	return participants, rows.Err()
}
