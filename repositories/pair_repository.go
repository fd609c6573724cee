package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movipadel/tornei-app/models"
)

var ErrPairNotFound = errors.New("pair not found")

type PairRepository interface {
	Create(ctx context.Context, exec SQLExecutor, pair *models.Pair) error
	ListByRun(ctx context.Context, runID int) ([]*models.Pair, error)
}

type postgresPairRepository struct {
	db *sql.DB
}

func NewPostgresPairRepository(db *sql.DB) PairRepository {
	return &postgresPairRepository{db: db}
}

func (r *postgresPairRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPairRepository) Create(ctx context.Context, exec SQLExecutor, pair *models.Pair) error {
	query := `
		INSERT INTO run_pairs (run_id, display_name, source_registration_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.getExecutor(exec).QueryRowContext(ctx, query,
		pair.RunID, pair.DisplayName, pair.SourceRegistrationID,
	).Scan(&pair.ID, &pair.CreatedAt)
}

func (r *postgresPairRepository) ListByRun(ctx context.Context, runID int) ([]*models.Pair, error) {
	query := `
		SELECT id, run_id, display_name, source_registration_id, created_at
		FROM run_pairs WHERE run_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pairs for run %d: %w", runID, err)
	}
	defer rows.Close()

	pairs := make([]*models.Pair, 0)
	for rows.Next() {
		var p models.Pair
		if scanErr := rows.Scan(&p.ID, &p.RunID, &p.DisplayName, &p.SourceRegistrationID, &p.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan pair row: %w", scanErr)
		}
		pairs = append(pairs, &p)
	}
	return pairs, rows.Err()
}
