package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/movipadel/tornei-app/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchPairInvalid = errors.New("match pair conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByRun(ctx context.Context, runID int, stage *models.MatchStage) ([]*models.Match, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateSlots(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, run_id, stage, group_id, turn_id, round_number, round_label, order_in_unit,
	home_pair_id, away_pair_id, home_absent, away_absent,
	home_player1_id, home_player2_id, away_player1_id, away_player2_id,
	court, starts_at,
	home_games, away_games,
	set1_home, set1_away, set2_home, set2_away, set3_home, set3_away,
	home_sets, away_sets, completed_at, created_at`

func (r *postgresMatchRepository) scan(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.RunID, &m.Stage, &m.GroupID, &m.TurnID, &m.RoundNumber, &m.RoundLabel, &m.OrderInUnit,
		&m.HomePairID, &m.AwayPairID, &m.HomeAbsent, &m.AwayAbsent,
		&m.HomePlayer1ID, &m.HomePlayer2ID, &m.AwayPlayer1ID, &m.AwayPlayer2ID,
		&m.Court, &m.StartsAt,
		&m.HomeGames, &m.AwayGames,
		&m.Set1Home, &m.Set1Away, &m.Set2Home, &m.Set2Away, &m.Set3Home, &m.Set3Away,
		&m.HomeSets, &m.AwaySets, &m.CompletedAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(run_id, stage, group_id, turn_id, round_number, round_label, order_in_unit,
			 home_pair_id, away_pair_id, home_absent, away_absent,
			 home_player1_id, home_player2_id, away_player1_id, away_player2_id,
			 court, starts_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.RunID, match.Stage, match.GroupID, match.TurnID,
		match.RoundNumber, match.RoundLabel, match.OrderInUnit,
		match.HomePairID, match.AwayPairID, match.HomeAbsent, match.AwayAbsent,
		match.HomePlayer1ID, match.HomePlayer2ID, match.AwayPlayer1ID, match.AwayPlayer2ID,
		match.Court, match.StartsAt,
	).Scan(&match.ID, &match.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchPairInvalid
	}
	return err
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByRun(ctx context.Context, runID int, stage *models.MatchStage) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE run_id = $1`
	args := []interface{}{runID}
	if stage != nil {
		query += ` AND stage = $2`
		args = append(args, *stage)
	}
	query += ` ORDER BY round_number ASC NULLS FIRST, turn_id ASC NULLS FIRST, group_id ASC NULLS FIRST, order_in_unit ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for run %d: %w", runID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scan(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// UpdateScore persists the score fields together with completion. All
// fields are written from the in-memory row, which the service always
// loads fresh before evaluating.
func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches SET
			home_games = $1, away_games = $2,
			set1_home = $3, set1_away = $4, set2_home = $5, set2_away = $6,
			set3_home = $7, set3_away = $8,
			home_sets = $9, away_sets = $10,
			completed_at = $11
		WHERE id = $12`
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		match.HomeGames, match.AwayGames,
		match.Set1Home, match.Set1Away, match.Set2Home, match.Set2Away,
		match.Set3Home, match.Set3Away,
		match.HomeSets, match.AwaySets,
		match.CompletedAt, match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update score for match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdateSlots persists bracket slot mutations made by advancement.
func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `UPDATE matches SET home_pair_id = $1, away_pair_id = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, match.HomePairID, match.AwayPairID, match.ID)
	if err != nil {
		return fmt.Errorf("failed to update slots for match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
