package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movipadel/tornei-app/models"
)

var ErrTurnNotFound = errors.New("turn not found")

type TurnRepository interface {
	Create(ctx context.Context, exec SQLExecutor, turn *models.Turn) error
	ListByRun(ctx context.Context, runID int) ([]*models.Turn, error)
}

type postgresTurnRepository struct {
	db *sql.DB
}

func NewPostgresTurnRepository(db *sql.DB) TurnRepository {
	return &postgresTurnRepository{db: db}
}

func (r *postgresTurnRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create upserts on the natural key (run_id, number) so generation can be
// re-run after a partial write.
func (r *postgresTurnRepository) Create(ctx context.Context, exec SQLExecutor, turn *models.Turn) error {
	query := `
		INSERT INTO run_turns (run_id, number)
		VALUES ($1, $2)
		ON CONFLICT (run_id, number) DO UPDATE SET number = EXCLUDED.number
		RETURNING id, created_at`
	return r.getExecutor(exec).QueryRowContext(ctx, query, turn.RunID, turn.Number).
		Scan(&turn.ID, &turn.CreatedAt)
}

func (r *postgresTurnRepository) ListByRun(ctx context.Context, runID int) ([]*models.Turn, error) {
	query := `SELECT id, run_id, number, created_at FROM run_turns WHERE run_id = $1 ORDER BY number ASC`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns for run %d: %w", runID, err)
	}
	defer rows.Close()

	turns := make([]*models.Turn, 0)
	for rows.Next() {
		var t models.Turn
		if scanErr := rows.Scan(&t.ID, &t.RunID, &t.Number, &t.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan turn row: %w", scanErr)
		}
		turns = append(turns, &t)
	}
	return turns, rows.Err()
}
