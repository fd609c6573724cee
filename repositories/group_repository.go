package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movipadel/tornei-app/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	AddPair(ctx context.Context, exec SQLExecutor, groupID, pairID int) error
	ListByRun(ctx context.Context, runID int) ([]*models.Group, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.Group) error {
	query := `
		INSERT INTO run_groups (run_id, name, position, closed)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.getExecutor(exec).QueryRowContext(ctx, query,
		group.RunID, group.Name, group.Position, group.Closed,
	).Scan(&group.ID, &group.CreatedAt)
}

// AddPair is an idempotent upsert keyed on (group_id, pair_id), so a
// partially-written generation can simply be re-run.
func (r *postgresGroupRepository) AddPair(ctx context.Context, exec SQLExecutor, groupID, pairID int) error {
	query := `
		INSERT INTO run_group_pairs (group_id, pair_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, pair_id) DO NOTHING`
	_, err := r.getExecutor(exec).ExecContext(ctx, query, groupID, pairID)
	return err
}

// ListByRun returns the run's groups ordered by position, each with its
// member pair ids loaded.
func (r *postgresGroupRepository) ListByRun(ctx context.Context, runID int) ([]*models.Group, error) {
	query := `
		SELECT id, run_id, name, position, closed, created_at
		FROM run_groups WHERE run_id = $1 ORDER BY position ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for run %d: %w", runID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	byID := make(map[int]*models.Group)
	for rows.Next() {
		var g models.Group
		if scanErr := rows.Scan(&g.ID, &g.RunID, &g.Name, &g.Position, &g.Closed, &g.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", scanErr)
		}
		g.PairIDs = make([]int, 0, 4)
		groups = append(groups, &g)
		byID[g.ID] = &g
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	memberQuery := `
		SELECT gp.group_id, gp.pair_id
		FROM run_group_pairs gp
		JOIN run_groups g ON g.id = gp.group_id
		WHERE g.run_id = $1
		ORDER BY gp.pair_id ASC`
	memberRows, err := r.db.QueryContext(ctx, memberQuery, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members for run %d: %w", runID, err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var groupID, pairID int
		if scanErr := memberRows.Scan(&groupID, &pairID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan group member row: %w", scanErr)
		}
		if g, ok := byID[groupID]; ok {
			g.PairIDs = append(g.PairIDs, pairID)
		}
	}
	return groups, memberRows.Err()
}
