package scheduler

import (
	"sort"

	"github.com/movipadel/tornei-app/models"
)

// ProjectBracket returns a display copy of the bracket with the winners of
// completed matches carried forward into still-empty slots of later
// rounds. It is a pure projection over already-loaded rows: the authority
// on advancement is the persisted state written by the Advancer, and this
// function never writes back.
func ProjectBracket(matches []*models.Match, scoring models.ScoringMode) []*models.Match {
	out := make([]*models.Match, len(matches))
	for i, m := range matches {
		c := *m
		out[i] = &c
	}

	byRound := make(map[int][]*models.Match)
	var rounds []int
	for _, m := range out {
		if m.Stage != models.StageBracket || m.RoundNumber == nil {
			continue
		}
		byRound[*m.RoundNumber] = append(byRound[*m.RoundNumber], m)
	}
	for r, ms := range byRound {
		sort.Slice(ms, func(i, j int) bool { return ms[i].OrderInUnit < ms[j].OrderInUnit })
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)

	for _, r := range rounds {
		cur := byRound[r]
		next := byRound[r+1]
		if len(next) == 0 {
			continue
		}
		fromCur := make(map[int]bool)
		for _, c := range cur {
			for _, id := range c.ConcretePairs() {
				fromCur[id] = true
			}
		}
		feeds := make([]**int, 0, len(next)*2)
		for _, n := range next {
			if !n.HomeAbsent && (n.HomePairID == nil || fromCur[*n.HomePairID]) {
				feeds = append(feeds, &n.HomePairID)
			}
			if !n.AwayAbsent && (n.AwayPairID == nil || fromCur[*n.AwayPairID]) {
				feeds = append(feeds, &n.AwayPairID)
			}
		}
		for i, m := range cur {
			if i >= len(feeds) || *feeds[i] != nil {
				continue
			}
			var winner *int
			if m.IsBye() {
				winner = m.ByeOccupant()
			} else if m.CompletedAt != nil {
				res := Evaluate(scoring, m)
				switch res.Winner {
				case SideHome:
					winner = m.HomePairID
				case SideAway:
					winner = m.AwayPairID
				}
			}
			if winner != nil {
				id := *winner
				*feeds[i] = &id
			}
		}
	}
	return out
}
