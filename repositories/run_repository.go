package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/movipadel/tornei-app/models"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrRunConflict = errors.New("tournament already has an active run")
)

type RunRepository interface {
	Create(ctx context.Context, exec SQLExecutor, run *models.Run) error
	GetByTournament(ctx context.Context, tournamentID int) (*models.Run, error)
	GetByID(ctx context.Context, id int) (*models.Run, error)
	UpdateStatus(ctx context.Context, id int, status models.RunStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresRunRepository struct {
	db *sql.DB
}

func NewPostgresRunRepository(db *sql.DB) RunRepository {
	return &postgresRunRepository{db: db}
}

func (r *postgresRunRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRunRepository) scan(row interface{ Scan(...interface{}) error }) (*models.Run, error) {
	var run models.Run
	var rulesJSON []byte
	err := row.Scan(&run.ID, &run.TournamentID, &run.Mode, &run.Status, &rulesJSON, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(rulesJSON, &run.Rules); err != nil {
		return nil, fmt.Errorf("failed to decode rules for run %d: %w", run.ID, err)
	}
	return &run, nil
}

func (r *postgresRunRepository) Create(ctx context.Context, exec SQLExecutor, run *models.Run) error {
	rulesJSON, err := json.Marshal(run.Rules)
	if err != nil {
		return fmt.Errorf("failed to encode run rules: %w", err)
	}
	query := `
		INSERT INTO runs (tournament_id, mode, status, rules)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err = r.getExecutor(exec).QueryRowContext(ctx, query,
		run.TournamentID, run.Mode, run.Status, rulesJSON,
	).Scan(&run.ID, &run.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		// One run per tournament, enforced by a unique index on tournament_id.
		return ErrRunConflict
	}
	return err
}

func (r *postgresRunRepository) GetByTournament(ctx context.Context, tournamentID int) (*models.Run, error) {
	query := `SELECT id, tournament_id, mode, status, rules, created_at FROM runs WHERE tournament_id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, tournamentID))
}

func (r *postgresRunRepository) GetByID(ctx context.Context, id int) (*models.Run, error) {
	query := `SELECT id, tournament_id, mode, status, rules, created_at FROM runs WHERE id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRunRepository) UpdateStatus(ctx context.Context, id int, status models.RunStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE runs SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRunNotFound)
}

// Delete removes the run; owned participants, pairs, groups, turns and
// matches go with it via ON DELETE CASCADE, returning the tournament to
// its pre-run state.
func (r *postgresRunRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRunNotFound)
}
