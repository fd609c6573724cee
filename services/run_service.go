package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/movipadel/tornei-app/models"
	"github.com/movipadel/tornei-app/realtime"
	"github.com/movipadel/tornei-app/repositories"
	"github.com/movipadel/tornei-app/scheduler"
)

// StartRunInput is the frozen plan captured at run creation. Group
// composition arrives as lists of confirmed registration ids; groups are
// closed by construction the moment the run starts.
type StartRunInput struct {
	Mode    models.RunMode     `json:"mode"`
	Format  models.RunFormat   `json:"format,omitempty"`
	Scoring models.ScoringMode `json:"scoring"`

	CourtsCount         int     `json:"courts_count,omitempty"`
	QualifiersCount     int     `json:"qualifiers_count,omitempty"`
	RoundRobinLegs      int     `json:"round_robin_legs,omitempty"`
	SeedsCount          int     `json:"seeds_count,omitempty"`
	SeedRegistrationIDs []int   `json:"seed_registration_ids,omitempty"`
	Groups              [][]int `json:"groups,omitempty"`

	MatchesPerTurn   int `json:"matches_per_turn,omitempty"`
	Turns            int `json:"turns,omitempty"`
	MatchesPerPlayer int `json:"matches_per_player,omitempty"`
}

type RunService interface {
	StartRun(ctx context.Context, tournamentID int, input StartRunInput) (*RunDetail, error)
	BuildBracket(ctx context.Context, tournamentID int) (*RunDetail, error)
	GetRunDetail(ctx context.Context, tournamentID int) (*RunDetail, error)
	ResetRun(ctx context.Context, tournamentID int) error
}

type runService struct {
	db               *sql.DB
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	runRepo          repositories.RunRepository
	participantRepo  repositories.ParticipantRepository
	pairRepo         repositories.PairRepository
	groupRepo        repositories.GroupRepository
	turnRepo         repositories.TurnRepository
	matchRepo        repositories.MatchRepository
	hub              *realtime.Hub
	logger           *slog.Logger
	newRand          func() *rand.Rand
}

func NewRunService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	runRepo repositories.RunRepository,
	participantRepo repositories.ParticipantRepository,
	pairRepo repositories.PairRepository,
	groupRepo repositories.GroupRepository,
	turnRepo repositories.TurnRepository,
	matchRepo repositories.MatchRepository,
	hub *realtime.Hub,
	logger *slog.Logger,
) RunService {
	if logger == nil {
		logger = slog.Default()
	}
	return &runService{
		db:               db,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		runRepo:          runRepo,
		participantRepo:  participantRepo,
		pairRepo:         pairRepo,
		groupRepo:        groupRepo,
		turnRepo:         turnRepo,
		matchRepo:        matchRepo,
		hub:              hub,
		logger:           logger,
		newRand:          func() *rand.Rand { return rand.New(rand.NewSource(rand.Int63())) },
	}
}

func (s *runService) StartRun(ctx context.Context, tournamentID int, input StartRunInput) (*RunDetail, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.runRepo.GetByTournament(ctx, tournamentID); err == nil {
		return nil, ErrRunAlreadyActive
	} else if !errors.Is(err, repositories.ErrRunNotFound) {
		return nil, fmt.Errorf("failed to check for existing run: %w", err)
	}

	confirmedStatus := models.RegistrationConfirmed
	confirmed, err := s.registrationRepo.ListByTournament(ctx, tournamentID, &confirmedStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed registrations: %w", err)
	}

	switch input.Mode {
	case models.RunModeFixedPairs:
		if err := validateFixedPairsInput(input, confirmed); err != nil {
			return nil, err
		}
	case models.RunModeBaraonda:
		if err := validateBaraondaInput(input, tournament.Category, confirmed); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown run mode %q", ErrValidationFailed, input.Mode)
	}

	run := &models.Run{
		TournamentID: tournamentID,
		Mode:         input.Mode,
		Status:       models.RunStatusRunning,
		Rules: models.RunRules{
			Format:              input.Format,
			Scoring:             input.Scoring,
			CourtsCount:         input.CourtsCount,
			QualifiersCount:     input.QualifiersCount,
			RoundRobinLegs:      input.RoundRobinLegs,
			SeedsCount:          input.SeedsCount,
			SeedRegistrationIDs: input.SeedRegistrationIDs,
			Category:            tournament.Category,
			MatchesPerTurn:      input.MatchesPerTurn,
			Turns:               input.Turns,
			MatchesPerPlayer:    input.MatchesPerPlayer,
		},
	}

	if err := s.createRunTx(ctx, run, confirmed, input); err != nil {
		return nil, err
	}

	s.logger.Info("run started",
		slog.Int("tournament_id", tournamentID),
		slog.String("mode", string(input.Mode)))
	detail, err := s.GetRunDetail(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Broadcast(roomFor(tournamentID), realtime.Message{Type: realtime.EventRunStarted, Payload: detail})
	}
	return detail, nil
}

// createRunTx persists the run header and its generated structure inside a
// single transaction.
func (s *runService) createRunTx(ctx context.Context, run *models.Run, confirmed []*models.Registration, input StartRunInput) (txErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
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
			txErr = fmt.Errorf("failed to commit run creation: %w", cErr)
		}
	}()

	if txErr = s.runRepo.Create(ctx, tx, run); txErr != nil {
		if errors.Is(txErr, repositories.ErrRunConflict) {
			txErr = ErrRunAlreadyActive
		}
		return txErr
	}

	switch input.Mode {
	case models.RunModeFixedPairs:
		txErr = s.generateFixedPairs(ctx, tx, run, confirmed, input)
	case models.RunModeBaraonda:
		txErr = s.generateBaraonda(ctx, tx, run, confirmed, input)
	}
	return txErr
}

// generateFixedPairs snapshots confirmed registrations into pairs and
// persists the group and/or bracket structure.
func (s *runService) generateFixedPairs(ctx context.Context, tx repositories.SQLExecutor, run *models.Run, confirmed []*models.Registration, input StartRunInput) error {
	pairByReg := make(map[int]int, len(confirmed))
	pairIDs := make([]int, 0, len(confirmed))
	for _, reg := range confirmed {
		pair := &models.Pair{
			RunID:                run.ID,
			DisplayName:          reg.DisplayName(),
			SourceRegistrationID: reg.ID,
		}
		if err := s.pairRepo.Create(ctx, tx, pair); err != nil {
			return fmt.Errorf("failed to create pair for registration %d: %w", reg.ID, err)
		}
		pairByReg[reg.ID] = pair.ID
		pairIDs = append(pairIDs, pair.ID)
	}

	legs := input.RoundRobinLegs
	if legs != 2 {
		legs = 1
	}

	if input.Format == models.FormatGroupsAndBracket || input.Format == models.FormatGroupOnly {
		for gi, regIDs := range input.Groups {
			group := &models.Group{
				RunID:    run.ID,
				Name:     fmt.Sprintf("Group %c", 'A'+gi),
				Position: gi + 1,
				Closed:   true,
			}
			if err := s.groupRepo.Create(ctx, tx, group); err != nil {
				return fmt.Errorf("failed to create group %d: %w", gi+1, err)
			}
			groupPairs := make([]int, 0, len(regIDs))
			for _, regID := range regIDs {
				pairID := pairByReg[regID]
				if err := s.groupRepo.AddPair(ctx, tx, group.ID, pairID); err != nil {
					return fmt.Errorf("failed to add pair %d to group %d: %w", pairID, group.ID, err)
				}
				groupPairs = append(groupPairs, pairID)
			}
			for order, pairing := range scheduler.GenerateRoundRobin(groupPairs, legs) {
				home, away := pairing.Home, pairing.Away
				match := &models.Match{
					RunID:       run.ID,
					Stage:       models.StageGroup,
					GroupID:     &group.ID,
					OrderInUnit: order,
					HomePairID:  &home,
					AwayPairID:  &away,
				}
				if err := s.matchRepo.Create(ctx, tx, match); err != nil {
					return fmt.Errorf("failed to create group match: %w", err)
				}
			}
		}
	}

	if input.Format == models.FormatBracketOnly {
		seedPairIDs := make([]int, 0, len(input.SeedRegistrationIDs))
		for _, regID := range input.SeedRegistrationIDs {
			seedPairIDs = append(seedPairIDs, pairByReg[regID])
		}
		return s.persistBracket(ctx, tx, run, pairIDs, seedPairIDs)
	}
	return nil
}

// persistBracket seeds and stores a single-elimination bracket, then
// resolves any bye immediately.
func (s *runService) persistBracket(ctx context.Context, tx repositories.SQLExecutor, run *models.Run, pairIDs, seedPairIDs []int) error {
	plan, err := scheduler.SeedBracket(pairIDs, seedPairIDs, s.newRand())
	if err != nil {
		if errors.Is(err, scheduler.ErrNotEnoughParticipants) {
			return ErrNotEnoughRegistrations
		}
		return fmt.Errorf("failed to seed bracket: %w", err)
	}

	created := make([]*models.Match, 0)
	for _, round := range plan.Rounds {
		number, label := round.Number, round.Label
		for _, pm := range round.Matches {
			match := &models.Match{
				RunID:       run.ID,
				Stage:       models.StageBracket,
				RoundNumber: &number,
				RoundLabel:  &label,
				OrderInUnit: pm.Order,
				HomePairID:  pm.Home,
				AwayPairID:  pm.Away,
			}
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return fmt.Errorf("failed to create bracket match: %w", err)
			}
			created = append(created, match)
		}
	}

	advancer := scheduler.NewAdvancer(created, s.logger)
	for _, m := range created {
		if m.IsBye() {
			advancer.ResolveBye(m)
		}
	}
	for _, changed := range advancer.Changed() {
		if err := s.matchRepo.UpdateSlots(ctx, tx, changed); err != nil {
			return err
		}
		if err := s.matchRepo.UpdateScore(ctx, tx, changed); err != nil {
			return err
		}
	}
	return nil
}

// generateBaraonda snapshots confirmed registrations into participants and
// persists the mixer turns.
func (s *runService) generateBaraonda(ctx context.Context, tx repositories.SQLExecutor, run *models.Run, confirmed []*models.Registration, input StartRunInput) error {
	participants := make([]models.Participant, 0, len(confirmed))
	for _, reg := range confirmed {
		sex := "m"
		if reg.Sex != nil {
			sex = *reg.Sex
		}
		p := models.Participant{RunID: run.ID, Name: reg.PlayerName, Sex: sex}
		if err := s.participantRepo.Create(ctx, tx, &p); err != nil {
			return fmt.Errorf("failed to create participant for registration %d: %w", reg.ID, err)
		}
		participants = append(participants, p)
	}

	plans, err := scheduler.GenerateBaraonda(participants, scheduler.BaraondaRules{
		Category:         run.Rules.Category,
		MatchesPerTurn:   input.MatchesPerTurn,
		Turns:            input.Turns,
		MatchesPerPlayer: input.MatchesPerPlayer,
	}, s.logger)
	if err != nil {
		if errors.Is(err, scheduler.ErrScheduleInvalid) {
			return fmt.Errorf("%w: %v", ErrScheduleInvariant, err)
		}
		return err
	}

	for _, plan := range plans {
		turn := &models.Turn{RunID: run.ID, Number: plan.Number}
		if err := s.turnRepo.Create(ctx, tx, turn); err != nil {
			return fmt.Errorf("failed to create turn %d: %w", plan.Number, err)
		}
		for order, mp := range plan.Matches {
			hp1, hp2, ap1, ap2 := mp.Home.P1, mp.Home.P2, mp.Away.P1, mp.Away.P2
			court := order%max(1, run.Rules.CourtsCount) + 1
			match := &models.Match{
				RunID:         run.ID,
				Stage:         models.StageTurn,
				TurnID:        &turn.ID,
				OrderInUnit:   order,
				HomePlayer1ID: &hp1,
				HomePlayer2ID: &hp2,
				AwayPlayer1ID: &ap1,
				AwayPlayer2ID: &ap2,
				Court:         &court,
			}
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return fmt.Errorf("failed to create turn match: %w", err)
			}
		}
	}
	return nil
}

// BuildBracket closes the group stage of a groups_and_bracket run: every
// group match must be completed, qualifiers are drawn from the group
// standings (rank by rank across groups), and the bracket is seeded and
// persisted.
func (s *runService) BuildBracket(ctx context.Context, tournamentID int) (*RunDetail, error) {
	run, err := s.runRepo.GetByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if run.Mode != models.RunModeFixedPairs || run.Rules.Format != models.FormatGroupsAndBracket {
		return nil, fmt.Errorf("%w: run format has no bracket stage to build", ErrValidationFailed)
	}

	bracketStage := models.StageBracket
	existing, err := s.matchRepo.ListByRun(ctx, run.ID, &bracketStage)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: bracket already generated", ErrValidationFailed)
	}

	pairs, err := s.pairRepo.ListByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.ListByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	groupStage := models.StageGroup
	groupMatches, err := s.matchRepo.ListByRun(ctx, run.ID, &groupStage)
	if err != nil {
		return nil, err
	}
	for _, m := range groupMatches {
		if m.CompletedAt == nil {
			return nil, fmt.Errorf("%w: match %d still in progress", ErrGroupNotClosed, m.ID)
		}
	}

	qualifiers := qualifiersFromGroups(pairs, groups, groupMatches, run.Rules)
	if len(qualifiers) < 2 {
		return nil, ErrNotEnoughRegistrations
	}

	// Seeds keep their seeding only if they actually qualified.
	qualified := make(map[int]bool, len(qualifiers))
	for _, id := range qualifiers {
		qualified[id] = true
	}
	pairByReg := make(map[int]int, len(pairs))
	for _, p := range pairs {
		pairByReg[p.SourceRegistrationID] = p.ID
	}
	seedPairIDs := make([]int, 0, len(run.Rules.SeedRegistrationIDs))
	for _, regID := range run.Rules.SeedRegistrationIDs {
		if pairID, ok := pairByReg[regID]; ok && qualified[pairID] {
			seedPairIDs = append(seedPairIDs, pairID)
		}
	}

	if err := s.persistBracketTx(ctx, run, qualifiers, seedPairIDs); err != nil {
		return nil, err
	}

	detail, err := s.GetRunDetail(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Broadcast(roomFor(tournamentID), realtime.Message{Type: realtime.EventRunStarted, Payload: detail})
	}
	return detail, nil
}

func (s *runService) persistBracketTx(ctx context.Context, run *models.Run, qualifiers, seedPairIDs []int) (txErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
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
			txErr = fmt.Errorf("failed to commit bracket: %w", cErr)
		}
	}()
	txErr = s.persistBracket(ctx, tx, run, qualifiers, seedPairIDs)
	return txErr
}

// qualifiersFromGroups picks the qualifiers round-robin across group
// standings: every group's first, then every group's second, until the
// qualifier count is reached.
func qualifiersFromGroups(pairs []*models.Pair, groups []*models.Group, groupMatches []*models.Match, rules models.RunRules) []int {
	nameByID := make(map[int]string, len(pairs))
	for _, p := range pairs {
		nameByID[p.ID] = p.DisplayName
	}

	tables := make([][]models.StandingRow, 0, len(groups))
	for _, g := range groups {
		entries := make([]scheduler.TableEntry, 0, len(g.PairIDs))
		for _, id := range g.PairIDs {
			entries = append(entries, scheduler.TableEntry{ID: id, Name: nameByID[id]})
		}
		results := make([]scheduler.ResultLine, 0)
		for _, m := range groupMatches {
			if m.GroupID == nil || *m.GroupID != g.ID || m.CompletedAt == nil {
				continue
			}
			results = append(results, resultLine(m, rules.Scoring))
		}
		tables = append(tables, scheduler.ComputeStandings(entries, results, scheduler.TiebreakFixedPairs))
	}

	quota := rules.QualifiersCount
	qualifiers := make([]int, 0, quota)
	for rank := 0; len(qualifiers) < quota; rank++ {
		advanced := false
		for _, table := range tables {
			if rank < len(table) {
				advanced = true
				if len(qualifiers) < quota {
					qualifiers = append(qualifiers, table[rank].EntryID)
				}
			}
		}
		if !advanced {
			break
		}
	}
	return qualifiers
}

func resultLine(m *models.Match, scoring models.ScoringMode) scheduler.ResultLine {
	res := scheduler.Evaluate(scoring, m)
	line := scheduler.ResultLine{
		HomeGames: res.HomeGames,
		AwayGames: res.AwayGames,
		Winner:    res.Winner,
	}
	if m.Stage == models.StageTurn {
		for _, p := range []*int{m.HomePlayer1ID, m.HomePlayer2ID} {
			if p != nil {
				line.HomeIDs = append(line.HomeIDs, *p)
			}
		}
		for _, p := range []*int{m.AwayPlayer1ID, m.AwayPlayer2ID} {
			if p != nil {
				line.AwayIDs = append(line.AwayIDs, *p)
			}
		}
	} else {
		if m.HomePairID != nil {
			line.HomeIDs = []int{*m.HomePairID}
		}
		if m.AwayPairID != nil {
			line.AwayIDs = []int{*m.AwayPairID}
		}
	}
	return line
}

func (s *runService) ResetRun(ctx context.Context, tournamentID int) error {
	run, err := s.runRepo.GetByTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	if err := s.runRepo.Delete(ctx, run.ID); err != nil {
		return err
	}
	s.logger.Info("run reset", slog.Int("tournament_id", tournamentID), slog.Int("run_id", run.ID))
	if s.hub != nil {
		s.hub.Broadcast(roomFor(tournamentID), realtime.Message{Type: realtime.EventRunReset, Payload: map[string]int{"tournament_id": tournamentID}})
	}
	return nil
}

func roomFor(tournamentID int) string {
	return realtime.RoomForTournament(tournamentID)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
