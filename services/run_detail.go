package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/movipadel/tornei-app/models"
	"github.com/movipadel/tornei-app/scheduler"
)

const (
	slotNameUndefined = "To be defined"
	slotNameBye       = "Bye"
)

// SlotView names one side of a match for display. PairID is nil for an
// undefined slot; baraonda sides name two players and carry no pair id.
type SlotView struct {
	PairID *int   `json:"pair_id,omitempty"`
	Name   string `json:"name"`
}

// MatchView is a match row enriched with display names and the handle a
// client uses to submit a score.
type MatchView struct {
	models.Match
	Home     SlotView `json:"home"`
	Away     SlotView `json:"away"`
	PatchURL string   `json:"patch_url"`
}

type GroupDetail struct {
	Group     *models.Group        `json:"group"`
	Matches   []MatchView          `json:"matches"`
	Standings []models.StandingRow `json:"standings"`
}

type RoundDetail struct {
	Number  int         `json:"number"`
	Label   string      `json:"label"`
	Matches []MatchView `json:"matches"`
}

type TurnDetail struct {
	Turn    *models.Turn `json:"turn"`
	Matches []MatchView  `json:"matches"`
	Resting []string     `json:"resting,omitempty"`
}

// RunDetail is the full read model of an active run: structure, matches
// with display names, and standings recomputed from the match set.
type RunDetail struct {
	Run       *models.Run          `json:"run"`
	Groups    []GroupDetail        `json:"groups,omitempty"`
	Bracket   []RoundDetail        `json:"bracket,omitempty"`
	Turns     []TurnDetail         `json:"turns,omitempty"`
	Standings []models.StandingRow `json:"standings,omitempty"`
}

func (s *runService) GetRunDetail(ctx context.Context, tournamentID int) (*RunDetail, error) {
	run, err := s.runRepo.GetByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var (
		pairs        []*models.Pair
		participants []*models.Participant
		groups       []*models.Group
		turns        []*models.Turn
		matches      []*models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		matches, err = s.matchRepo.ListByRun(gctx, run.ID, nil)
		return err
	})
	if run.Mode == models.RunModeFixedPairs {
		g.Go(func() (err error) {
			pairs, err = s.pairRepo.ListByRun(gctx, run.ID)
			return err
		})
		g.Go(func() (err error) {
			groups, err = s.groupRepo.ListByRun(gctx, run.ID)
			return err
		})
	} else {
		g.Go(func() (err error) {
			participants, err = s.participantRepo.ListByRun(gctx, run.ID)
			return err
		})
		g.Go(func() (err error) {
			turns, err = s.turnRepo.ListByRun(gctx, run.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load run detail: %w", err)
	}

	detail := &RunDetail{Run: run}
	if run.Mode == models.RunModeFixedPairs {
		s.assembleFixedPairs(detail, pairs, groups, matches)
	} else {
		s.assembleBaraonda(detail, participants, turns, matches)
	}
	return detail, nil
}

func (s *runService) assembleFixedPairs(detail *RunDetail, pairs []*models.Pair, groups []*models.Group, matches []*models.Match) {
	run := detail.Run
	nameByID := make(map[int]string, len(pairs))
	for _, p := range pairs {
		nameByID[p.ID] = p.DisplayName
	}

	byGroup := make(map[int][]*models.Match)
	var bracket []*models.Match
	for _, m := range matches {
		switch m.Stage {
		case models.StageGroup:
			if m.GroupID != nil {
				byGroup[*m.GroupID] = append(byGroup[*m.GroupID], m)
			}
		case models.StageBracket:
			bracket = append(bracket, m)
		}
	}

	for _, g := range groups {
		ms := byGroup[g.ID]
		sort.Slice(ms, func(i, j int) bool { return ms[i].OrderInUnit < ms[j].OrderInUnit })
		entries := make([]scheduler.TableEntry, 0, len(g.PairIDs))
		for _, id := range g.PairIDs {
			entries = append(entries, scheduler.TableEntry{ID: id, Name: nameByID[id]})
		}
		results := make([]scheduler.ResultLine, 0, len(ms))
		views := make([]MatchView, 0, len(ms))
		for _, m := range ms {
			if m.CompletedAt != nil {
				results = append(results, resultLine(m, run.Rules.Scoring))
			}
			views = append(views, pairMatchView(m, nameByID))
		}
		detail.Groups = append(detail.Groups, GroupDetail{
			Group:     g,
			Matches:   views,
			Standings: scheduler.ComputeStandings(entries, results, scheduler.TiebreakFixedPairs),
		})
	}

	if len(bracket) > 0 {
		projected := scheduler.ProjectBracket(bracket, run.Rules.Scoring)
		byRound := make(map[int][]*models.Match)
		labels := make(map[int]string)
		var rounds []int
		for _, m := range projected {
			if m.RoundNumber == nil {
				continue
			}
			r := *m.RoundNumber
			if _, seen := byRound[r]; !seen {
				rounds = append(rounds, r)
			}
			byRound[r] = append(byRound[r], m)
			if m.RoundLabel != nil {
				labels[r] = *m.RoundLabel
			}
		}
		sort.Ints(rounds)
		for _, r := range rounds {
			ms := byRound[r]
			sort.Slice(ms, func(i, j int) bool { return ms[i].OrderInUnit < ms[j].OrderInUnit })
			views := make([]MatchView, 0, len(ms))
			for _, m := range ms {
				views = append(views, pairMatchView(m, nameByID))
			}
			detail.Bracket = append(detail.Bracket, RoundDetail{Number: r, Label: labels[r], Matches: views})
		}
	}
}

func (s *runService) assembleBaraonda(detail *RunDetail, participants []*models.Participant, turns []*models.Turn, matches []*models.Match) {
	run := detail.Run
	nameByID := make(map[int]string, len(participants))
	for _, p := range participants {
		nameByID[p.ID] = p.Name
	}

	byTurn := make(map[int][]*models.Match)
	results := make([]scheduler.ResultLine, 0, len(matches))
	for _, m := range matches {
		if m.TurnID != nil {
			byTurn[*m.TurnID] = append(byTurn[*m.TurnID], m)
		}
		if m.CompletedAt != nil {
			results = append(results, resultLine(m, run.Rules.Scoring))
		}
	}

	sort.Slice(turns, func(i, j int) bool { return turns[i].Number < turns[j].Number })
	for _, t := range turns {
		ms := byTurn[t.ID]
		sort.Slice(ms, func(i, j int) bool { return ms[i].OrderInUnit < ms[j].OrderInUnit })
		playing := make(map[int]bool)
		views := make([]MatchView, 0, len(ms))
		for _, m := range ms {
			for _, id := range []*int{m.HomePlayer1ID, m.HomePlayer2ID, m.AwayPlayer1ID, m.AwayPlayer2ID} {
				if id != nil {
					playing[*id] = true
				}
			}
			views = append(views, playerMatchView(m, nameByID))
		}
		var resting []string
		for _, p := range participants {
			if !playing[p.ID] {
				resting = append(resting, p.Name)
			}
		}
		sort.Strings(resting)
		detail.Turns = append(detail.Turns, TurnDetail{Turn: t, Matches: views, Resting: resting})
	}

	entries := make([]scheduler.TableEntry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, scheduler.TableEntry{ID: p.ID, Name: p.Name})
	}
	detail.Standings = scheduler.ComputeStandings(entries, results, scheduler.TiebreakBaraonda)
}

func pairMatchView(m *models.Match, nameByID map[int]string) MatchView {
	return MatchView{
		Match:    *m,
		Home:     pairSlot(m.HomePairID, m.HomeAbsent, nameByID),
		Away:     pairSlot(m.AwayPairID, m.AwayAbsent, nameByID),
		PatchURL: patchURL(m.ID),
	}
}

func pairSlot(id *int, absent bool, nameByID map[int]string) SlotView {
	switch {
	case absent:
		return SlotView{Name: slotNameBye}
	case id == nil:
		return SlotView{Name: slotNameUndefined}
	default:
		return SlotView{PairID: id, Name: nameByID[*id]}
	}
}

func playerMatchView(m *models.Match, nameByID map[int]string) MatchView {
	team := func(p1, p2 *int) SlotView {
		names := make([]string, 0, 2)
		for _, id := range []*int{p1, p2} {
			if id != nil {
				names = append(names, nameByID[*id])
			}
		}
		if len(names) == 0 {
			return SlotView{Name: slotNameUndefined}
		}
		name := names[0]
		if len(names) == 2 {
			name += " + " + names[1]
		}
		return SlotView{Name: name}
	}
	return MatchView{
		Match:    *m,
		Home:     team(m.HomePlayer1ID, m.HomePlayer2ID),
		Away:     team(m.AwayPlayer1ID, m.AwayPlayer2ID),
		PatchURL: patchURL(m.ID),
	}
}

func patchURL(matchID int) string {
	return fmt.Sprintf("/api/matches/%d/score", matchID)
}
