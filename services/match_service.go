package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/movipadel/tornei-app/models"
	"github.com/movipadel/tornei-app/realtime"
	"github.com/movipadel/tornei-app/repositories"
	"github.com/movipadel/tornei-app/scheduler"
)

var nowFunc = time.Now

// OptionalInt distinguishes a field absent from the request body from one
// sent as an explicit null. Absent leaves the stored value untouched; null
// clears it.
type OptionalInt struct {
	Set   bool
	Value *int
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// ScorePatch is a partial score edit. Reset discards every score field and
// all downstream advancement regardless of the other fields.
type ScorePatch struct {
	Reset bool `json:"reset,omitempty"`

	HomeGames OptionalInt `json:"home_games"`
	AwayGames OptionalInt `json:"away_games"`
	Set1Home  OptionalInt `json:"set1_home"`
	Set1Away  OptionalInt `json:"set1_away"`
	Set2Home  OptionalInt `json:"set2_home"`
	Set2Away  OptionalInt `json:"set2_away"`
	Set3Home  OptionalInt `json:"set3_home"`
	Set3Away  OptionalInt `json:"set3_away"`
}

type MatchService interface {
	PatchScore(ctx context.Context, matchID int, patch ScorePatch) (*models.Match, error)
}

type matchService struct {
	db        *sql.DB
	runRepo   repositories.RunRepository
	matchRepo repositories.MatchRepository
	hub       *realtime.Hub
	logger    *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	runRepo repositories.RunRepository,
	matchRepo repositories.MatchRepository,
	hub *realtime.Hub,
	logger *slog.Logger,
) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{db: db, runRepo: runRepo, matchRepo: matchRepo, hub: hub, logger: logger}
}

// PatchScore merges a partial score edit into a freshly loaded match row,
// evaluates it, persists it, and for bracket matches drives advancement.
// The order is strict: evaluation, then persistence, then advancement.
func (s *matchService) PatchScore(ctx context.Context, matchID int, patch ScorePatch) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	run, err := s.runRepo.GetByID(ctx, match.RunID)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusRunning {
		return nil, ErrMatchNotInRun
	}

	if patch.Reset {
		return s.resetMatch(ctx, run, match)
	}

	if match.Stage == models.StageBracket {
		if match.Undefined() || match.IsBye() {
			return nil, ErrMatchNotDefined
		}
	}

	apply := func(dst **int, src OptionalInt) {
		if src.Set {
			*dst = src.Value
		}
	}
	apply(&match.HomeGames, patch.HomeGames)
	apply(&match.AwayGames, patch.AwayGames)
	apply(&match.Set1Home, patch.Set1Home)
	apply(&match.Set1Away, patch.Set1Away)
	apply(&match.Set2Home, patch.Set2Home)
	apply(&match.Set2Away, patch.Set2Away)
	apply(&match.Set3Home, patch.Set3Home)
	apply(&match.Set3Away, patch.Set3Away)

	res := scheduler.Evaluate(run.Rules.Scoring, match)
	scheduler.ApplyResult(run.Rules.Scoring, match, res)

	wasCompleted := match.CompletedAt != nil
	if !res.Completed {
		match.CompletedAt = nil
	}

	if match.Stage != models.StageBracket {
		if res.Completed && match.CompletedAt == nil {
			now := nowFunc()
			match.CompletedAt = &now
		}
		if err := s.matchRepo.UpdateScore(ctx, nil, match); err != nil {
			return nil, err
		}
		s.broadcastMatch(run, match)
		return match, nil
	}

	return s.persistBracketScore(ctx, run, match, res, wasCompleted)
}

// persistBracketScore writes the edited bracket match and every row its
// advancement touched in one transaction.
func (s *matchService) persistBracketScore(ctx context.Context, run *models.Run, match *models.Match, res scheduler.Result, wasCompleted bool) (out *models.Match, txErr error) {
	stage := models.StageBracket
	bracket, err := s.matchRepo.ListByRun(ctx, run.ID, &stage)
	if err != nil {
		return nil, err
	}
	// Work on the loaded set; swap in the edited row.
	for i, m := range bracket {
		if m.ID == match.ID {
			bracket[i] = match
		}
	}

	advancer := scheduler.NewAdvancer(bracket, s.logger)
	if res.Completed {
		if err := advancer.ApplyResult(match, res); err != nil {
			if errors.Is(err, scheduler.ErrMatchUndefined) {
				return nil, ErrMatchNotDefined
			}
			return nil, err
		}
	} else if wasCompleted {
		// The edit took a decided match back to undecided: its previous
		// winner must be pulled out of later rounds.
		advancer.UndoPropagation(match)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Any("error", rbErr))
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit score update: %w", cErr)
			out = nil
		}
	}()

	if txErr = s.matchRepo.UpdateScore(ctx, tx, match); txErr != nil {
		return nil, txErr
	}
	for _, changed := range advancer.Changed() {
		if changed.ID == match.ID {
			continue
		}
		if txErr = s.matchRepo.UpdateSlots(ctx, tx, changed); txErr != nil {
			return nil, txErr
		}
		if txErr = s.matchRepo.UpdateScore(ctx, tx, changed); txErr != nil {
			return nil, txErr
		}
	}

	s.broadcastMatch(run, match)
	return match, nil
}

// resetMatch wipes the match's score and, for bracket matches, undoes
// whatever its result propagated downstream.
func (s *matchService) resetMatch(ctx context.Context, run *models.Run, match *models.Match) (out *models.Match, txErr error) {
	if match.Stage != models.StageBracket {
		match.ClearScore()
		if err := s.matchRepo.UpdateScore(ctx, nil, match); err != nil {
			return nil, err
		}
		s.broadcastMatch(run, match)
		return match, nil
	}

	stage := models.StageBracket
	bracket, err := s.matchRepo.ListByRun(ctx, run.ID, &stage)
	if err != nil {
		return nil, err
	}
	for i, m := range bracket {
		if m.ID == match.ID {
			bracket[i] = match
		}
	}
	advancer := scheduler.NewAdvancer(bracket, s.logger)
	advancer.Reset(match)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Any("error", rbErr))
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit match reset: %w", cErr)
			out = nil
		}
	}()

	for _, changed := range advancer.Changed() {
		if txErr = s.matchRepo.UpdateSlots(ctx, tx, changed); txErr != nil {
			return nil, txErr
		}
		if txErr = s.matchRepo.UpdateScore(ctx, tx, changed); txErr != nil {
			return nil, txErr
		}
	}

	s.logger.Info("match reset", slog.Int("match_id", match.ID), slog.Int("run_id", run.ID))
	s.broadcastMatch(run, match)
	return match, nil
}

func (s *matchService) broadcastMatch(run *models.Run, match *models.Match) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(roomFor(run.TournamentID), realtime.Message{
		Type:    realtime.EventMatchUpdated,
		Payload: match,
	})
}
