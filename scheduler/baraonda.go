package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/movipadel/tornei-app/models"
)

var (
	ErrTooFewPlayers    = errors.New("baraonda needs at least 4 players")
	ErrMistoImbalance   = errors.New("misto baraonda requires equal male and female counts")
	ErrScheduleInvalid  = errors.New("generated schedule violates equity or coverage invariants")
	ErrScheduleInfeasib = errors.New("no turn assignment satisfies the edge pool")
)

// BaraondaRules is the per-run mixer policy, frozen in the run rules.
type BaraondaRules struct {
	Category         models.TournamentCategory
	MatchesPerTurn   int
	Turns            int
	MatchesPerPlayer int
}

// TeamPlan is one doubles team, by participant id.
type TeamPlan struct {
	P1 int
	P2 int
}

// MatchPlan is one planned doubles match.
type MatchPlan struct {
	Home TeamPlan
	Away TeamPlan
}

// TurnPlan is one mixer round; participants absent from all of its matches
// rest that turn.
type TurnPlan struct {
	Number  int
	Matches []MatchPlan
}

type pairKey [2]int

func keyOf(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// pairingState is the explicit accumulator threaded through generation:
// teammate and opponent repeat counts plus per-player play and rest
// counters. No package-level state, so generation is independently
// testable and parallel-safe.
type pairingState struct {
	teammates map[pairKey]int
	opponents map[pairKey]int
	played    map[int]int
	rested    map[int]int
}

func newPairingState() *pairingState {
	return &pairingState{
		teammates: make(map[pairKey]int),
		opponents: make(map[pairKey]int),
		played:    make(map[int]int),
		rested:    make(map[int]int),
	}
}

func (s *pairingState) record(m MatchPlan) {
	s.teammates[keyOf(m.Home.P1, m.Home.P2)]++
	s.teammates[keyOf(m.Away.P1, m.Away.P2)]++
	for _, h := range []int{m.Home.P1, m.Home.P2} {
		for _, a := range []int{m.Away.P1, m.Away.P2} {
			s.opponents[keyOf(h, a)]++
		}
	}
	for _, p := range []int{m.Home.P1, m.Home.P2, m.Away.P1, m.Away.P2} {
		s.played[p]++
	}
}

// GenerateBaraonda produces the turn-by-turn doubles schedule. The exact
// deterministic construction covers the 5-men/5-women misto configuration
// with 2 matches per turn over 8 turns and a 6-match player quota; every
// other shape goes through the greedy heuristic.
func GenerateBaraonda(participants []models.Participant, rules BaraondaRules, logger *slog.Logger) ([]TurnPlan, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(participants) < 4 {
		return nil, ErrTooFewPlayers
	}

	var males, females []models.Participant
	for _, p := range participants {
		if p.Sex == "f" {
			females = append(females, p)
		} else {
			males = append(males, p)
		}
	}
	misto := rules.Category == models.CategoryMisto
	if misto && len(males) != len(females) {
		return nil, fmt.Errorf("%w: %d male, %d female", ErrMistoImbalance, len(males), len(females))
	}

	if misto && len(males) == 5 && len(females) == 5 &&
		rules.MatchesPerTurn == 2 && rules.Turns == 8 && rules.MatchesPerPlayer == 6 {
		return generateMisto5v5(males, females)
	}
	return generateHeuristic(participants, males, females, rules, misto, logger)
}

// k55Edge is one male-female partner pairing in the K5,5 decomposition,
// by index into the male/female lists.
type k55Edge struct {
	m int
	f int
}

// generateMisto5v5 is the exact construction: the complete bipartite graph
// K5,5 decomposes into 5 disjoint perfect matchings (round r partners male
// i with female (i+r) mod 5); one matching repeats, for 30 partner edges.
// Every male partners every female at least once and every player sits in
// exactly 6 edges, so equity and coverage hold by construction. Turns pull
// 4 disjoint edges (7 turns) then the final 2 via backtracking; within a
// turn the 3 ways of folding 4 edges into 2 matches are scored by a
// quadratic repeated-opponent penalty.
func generateMisto5v5(males, females []models.Participant) ([]TurnPlan, error) {
	edges := make([]k55Edge, 0, 30)
	for r := 0; r < 5; r++ {
		for i := 0; i < 5; i++ {
			edges = append(edges, k55Edge{m: i, f: (i + r) % 5})
		}
	}
	for i := 0; i < 5; i++ {
		edges = append(edges, k55Edge{m: i, f: i}) // repeated matching
	}

	targets := []int{4, 4, 4, 4, 4, 4, 4, 2}
	picked, ok := solveTurnEdges(edges, targets)
	if !ok {
		return nil, ErrScheduleInfeasib
	}

	state := newPairingState()
	turns := make([]TurnPlan, 0, len(targets))
	for t, turnEdges := range picked {
		turn := TurnPlan{Number: t + 1}
		if len(turnEdges) == 2 {
			turn.Matches = append(turn.Matches, edgeMatch(turnEdges[0], turnEdges[1], males, females))
		} else {
			turn.Matches = append(turn.Matches, bestEdgeFold(turnEdges, males, females, state)...)
		}
		for _, m := range turn.Matches {
			state.record(m)
		}
		turns = append(turns, turn)
	}

	// Correctness guard, not a suggestion: a silently wrong schedule is
	// worse than a visible failure.
	for _, p := range append(append([]models.Participant{}, males...), females...) {
		if state.played[p.ID] != 6 {
			return nil, fmt.Errorf("%w: player %d played %d matches, want 6", ErrScheduleInvalid, p.ID, state.played[p.ID])
		}
	}
	for _, m := range males {
		for _, f := range females {
			if state.teammates[keyOf(m.ID, f.ID)] < 1 {
				return nil, fmt.Errorf("%w: players %d and %d never partnered", ErrScheduleInvalid, m.ID, f.ID)
			}
		}
	}
	return turns, nil
}

// solveTurnEdges partitions the edge pool into per-turn disjoint sets of
// the requested sizes, backtracking across turns when a greedy pick leaves
// a later turn unsatisfiable.
func solveTurnEdges(edges []k55Edge, targets []int) ([][]k55Edge, bool) {
	used := make([]bool, len(edges))
	out := make([][]k55Edge, len(targets))

	var fillTurn func(turn, need, start int, sel []int) bool
	var nextTurn func(turn int) bool

	nextTurn = func(turn int) bool {
		if turn == len(targets) {
			return true
		}
		return fillTurn(turn, targets[turn], 0, nil)
	}

	disjoint := func(sel []int, cand int) bool {
		for _, s := range sel {
			if edges[s].m == edges[cand].m || edges[s].f == edges[cand].f {
				return false
			}
		}
		return true
	}

	fillTurn = func(turn, need, start int, sel []int) bool {
		if need == 0 {
			picked := make([]k55Edge, len(sel))
			for i, s := range sel {
				picked[i] = edges[s]
				used[s] = true
			}
			out[turn] = picked
			if nextTurn(turn + 1) {
				return true
			}
			for _, s := range sel {
				used[s] = false
			}
			out[turn] = nil
			return false
		}
		for c := start; c <= len(edges)-need; c++ {
			if used[c] || !disjoint(sel, c) {
				continue
			}
			if fillTurn(turn, need-1, c+1, append(sel, c)) {
				return true
			}
		}
		return false
	}

	if !nextTurn(0) {
		return nil, false
	}
	return out, true
}

func edgeMatch(a, b k55Edge, males, females []models.Participant) MatchPlan {
	return MatchPlan{
		Home: TeamPlan{P1: males[a.m].ID, P2: females[a.f].ID},
		Away: TeamPlan{P1: males[b.m].ID, P2: females[b.f].ID},
	}
}

// bestEdgeFold picks, among the 3 pairings of 4 edges into 2 matches, the
// one with the lowest squared repeated-opponent penalty.
func bestEdgeFold(turnEdges []k55Edge, males, females []models.Participant, state *pairingState) []MatchPlan {
	folds := [3][2][2]int{
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
	}
	var best []MatchPlan
	bestPenalty := -1
	for _, fold := range folds {
		matches := []MatchPlan{
			edgeMatch(turnEdges[fold[0][0]], turnEdges[fold[0][1]], males, females),
			edgeMatch(turnEdges[fold[1][0]], turnEdges[fold[1][1]], males, females),
		}
		penalty := 0
		for _, m := range matches {
			for _, h := range []int{m.Home.P1, m.Home.P2} {
				for _, a := range []int{m.Away.P1, m.Away.P2} {
					c := state.opponents[keyOf(h, a)]
					penalty += c * c
				}
			}
		}
		if bestPenalty < 0 || penalty < bestPenalty {
			bestPenalty = penalty
			best = matches
		}
	}
	return best
}

const (
	teammateRepeatWeight = 120
	opponentRepeatWeight = 90
)

// generateHeuristic is the greedy per-turn construction used for every
// configuration outside the exact 5v5 path. Each turn sorts players by
// (matches played, rests), activates up to matchesPerTurn*4 under-quota
// players, and repeatedly extracts the cheapest group of four with the
// cheapest team split.
func generateHeuristic(participants, males, females []models.Participant, rules BaraondaRules, misto bool, logger *slog.Logger) ([]TurnPlan, error) {
	n := len(participants)
	quota := rules.MatchesPerPlayer
	if quota <= 0 {
		quota = rules.Turns * rules.MatchesPerTurn * 4 / n
		if quota < 1 {
			// Fewer play slots than players truncates the derived quota to
			// zero, which would deactivate everyone. Everyone stays
			// eligible; activation order decides who sits out.
			quota = 1
		}
	}

	sex := make(map[int]string, n)
	for _, p := range participants {
		sex[p.ID] = p.Sex
	}

	state := newPairingState()
	turns := make([]TurnPlan, 0, rules.Turns)

	for t := 1; t <= rules.Turns; t++ {
		ordered := append([]models.Participant(nil), participants...)
		sort.SliceStable(ordered, func(i, j int) bool {
			pi, pj := ordered[i].ID, ordered[j].ID
			if state.played[pi] != state.played[pj] {
				return state.played[pi] < state.played[pj]
			}
			return state.rested[pi] < state.rested[pj]
		})

		capacity := rules.MatchesPerTurn * 4
		// In misto every match needs 2M+2F, so activation is capped per sex
		// or the pool could skew beyond repair.
		sexCap := map[string]int{"m": capacity / 2, "f": capacity / 2}
		active := make([]int, 0, capacity)
		for _, p := range ordered {
			if len(active) == capacity {
				break
			}
			if state.played[p.ID] >= quota {
				continue
			}
			if misto {
				if sexCap[p.Sex] == 0 {
					continue
				}
				sexCap[p.Sex]--
			}
			active = append(active, p.ID)
		}
		inTurn := make(map[int]bool, len(active))

		turn := TurnPlan{Number: t}
		for len(active) >= 4 && len(turn.Matches) < rules.MatchesPerTurn {
			match, ok := bestFoursome(active, sex, misto, state)
			if !ok {
				// Best-effort degradation, never a crash: no subset meets
				// the misto constraint, take the head of the queue as-is.
				logger.Warn("baraonda heuristic degraded to first-available grouping",
					slog.Int("turn", t))
				match = MatchPlan{
					Home: TeamPlan{P1: active[0], P2: active[1]},
					Away: TeamPlan{P1: active[2], P2: active[3]},
				}
			}
			state.record(match)
			turn.Matches = append(turn.Matches, match)
			for _, p := range []int{match.Home.P1, match.Home.P2, match.Away.P1, match.Away.P2} {
				inTurn[p] = true
			}
			remaining := active[:0]
			for _, id := range active {
				if !inTurn[id] {
					remaining = append(remaining, id)
				}
			}
			active = remaining
		}

		for _, p := range participants {
			if !inTurn[p.ID] {
				state.rested[p.ID]++
			}
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// bestFoursome searches every 4-subset of the active pool and every team
// split of each subset, scoring by weighted teammate/opponent repeats. In
// misto mode only 2M+2F subsets split into two mixed teams are candidates.
// O(n^4) is acceptable with at most 10 players.
func bestFoursome(active []int, sex map[int]string, misto bool, state *pairingState) (MatchPlan, bool) {
	splits := [3][4]int{
		{0, 1, 2, 3},
		{0, 2, 1, 3},
		{0, 3, 1, 2},
	}
	var best MatchPlan
	bestPenalty := -1

	n := len(active)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					four := [4]int{active[a], active[b], active[c], active[d]}
					if misto {
						m := 0
						for _, id := range four {
							if sex[id] == "m" {
								m++
							}
						}
						if m != 2 {
							continue
						}
					}
					for _, s := range splits {
						match := MatchPlan{
							Home: TeamPlan{P1: four[s[0]], P2: four[s[1]]},
							Away: TeamPlan{P1: four[s[2]], P2: four[s[3]]},
						}
						if misto && (sex[match.Home.P1] == sex[match.Home.P2] || sex[match.Away.P1] == sex[match.Away.P2]) {
							continue
						}
						penalty := splitPenalty(match, state)
						if bestPenalty < 0 || penalty < bestPenalty {
							bestPenalty = penalty
							best = match
						}
					}
				}
			}
		}
	}
	return best, bestPenalty >= 0
}

func splitPenalty(m MatchPlan, state *pairingState) int {
	penalty := teammateRepeatWeight * state.teammates[keyOf(m.Home.P1, m.Home.P2)]
	penalty += teammateRepeatWeight * state.teammates[keyOf(m.Away.P1, m.Away.P2)]
	for _, h := range []int{m.Home.P1, m.Home.P2} {
		for _, a := range []int{m.Away.P1, m.Away.P2} {
			c := state.opponents[keyOf(h, a)]
			penalty += opponentRepeatWeight * c * c
		}
	}
	return penalty
}
