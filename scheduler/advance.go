package scheduler

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/movipadel/tornei-app/models"
)

var (
	// ErrMatchUndefined rejects score submissions on a bracket match whose
	// participants are not yet known (both slots nil, neither a bye).
	ErrMatchUndefined = errors.New("match participants are not yet defined")
	// ErrMatchNotDecided signals a score that does not produce a winner.
	ErrMatchNotDecided = errors.New("score does not decide the match")
)

// Advancer propagates bracket results forward through rounds. It operates
// purely on the loaded match rows of one run's bracket stage; the caller
// persists whatever Changed reports. Round adjacency is the round number
// fixed at seeding time, so the walk is bounded by bracket depth and can
// never revisit a round.
type Advancer struct {
	byRound map[int][]*models.Match
	rounds  []int
	changed map[int]*models.Match
	logger  *slog.Logger
	now     func() time.Time
}

// NewAdvancer indexes the given bracket matches by round. Matches without a
// round number are ignored.
func NewAdvancer(matches []*models.Match, logger *slog.Logger) *Advancer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Advancer{
		byRound: make(map[int][]*models.Match),
		changed: make(map[int]*models.Match),
		logger:  logger,
		now:     time.Now,
	}
	for _, m := range matches {
		if m.Stage != models.StageBracket || m.RoundNumber == nil {
			continue
		}
		a.byRound[*m.RoundNumber] = append(a.byRound[*m.RoundNumber], m)
	}
	for r, ms := range a.byRound {
		sort.Slice(ms, func(i, j int) bool { return ms[i].OrderInUnit < ms[j].OrderInUnit })
		a.rounds = append(a.rounds, r)
	}
	sort.Ints(a.rounds)
	return a
}

// Changed returns every match mutated since construction, in round order.
func (a *Advancer) Changed() []*models.Match {
	out := make([]*models.Match, 0, len(a.changed))
	for _, m := range a.changed {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := 0, 0
		if out[i].RoundNumber != nil {
			ri = *out[i].RoundNumber
		}
		if out[j].RoundNumber != nil {
			rj = *out[j].RoundNumber
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].OrderInUnit < out[j].OrderInUnit
	})
	return out
}

func (a *Advancer) mark(m *models.Match) {
	a.changed[m.ID] = m
}

// ApplyResult records a decisive evaluation on the match and pushes the
// winner into the following round.
func (a *Advancer) ApplyResult(m *models.Match, res Result) error {
	if m.Undefined() {
		return ErrMatchUndefined
	}
	if !res.Completed {
		return ErrMatchNotDecided
	}
	var winner int
	switch res.Winner {
	case SideHome:
		if m.HomePairID == nil {
			return ErrMatchUndefined
		}
		winner = *m.HomePairID
	case SideAway:
		if m.AwayPairID == nil {
			return ErrMatchUndefined
		}
		winner = *m.AwayPairID
	default:
		return ErrMatchNotDecided
	}
	if m.CompletedAt == nil {
		now := a.now()
		m.CompletedAt = &now
	}
	a.mark(m)
	a.propagate(m, winner)
	return nil
}

// ResolveBye completes a permanently one-sided match with its sole occupant
// as winner, with no numeric score, and propagates immediately.
func (a *Advancer) ResolveBye(m *models.Match) {
	occupant := m.ByeOccupant()
	if occupant == nil {
		return
	}
	if m.CompletedAt == nil {
		now := a.now()
		m.CompletedAt = &now
		a.mark(m)
	}
	a.propagate(m, *occupant)
}

// Reset clears the match's scores and completion, first undoing whatever
// its result propagated into later rounds.
func (a *Advancer) Reset(m *models.Match) {
	if m.Stage == models.StageBracket {
		a.clearDownstream(m)
	}
	m.ClearScore()
	a.mark(m)
}

// propagate writes the winner into its slot of the next round.
func (a *Advancer) propagate(m *models.Match, winner int) {
	if m.RoundNumber == nil {
		return
	}
	next := a.byRound[*m.RoundNumber+1]
	if len(next) == 0 {
		return // already the final
	}
	cur := a.byRound[*m.RoundNumber]
	idx := -1
	for i, c := range cur {
		if c.ID == m.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	if slot := a.feedSlot(cur, next, idx); slot != nil {
		a.fillSlot(slot.match, slot.home, winner)
		return
	}

	// Dense fallback: classic index arithmetic. For a correctly seeded
	// bracket the feed-slot search should always succeed, so reaching this
	// path is flagged.
	a.logger.Warn("bracket advancement fell back to index-based slot placement",
		slog.Int("match_id", m.ID), slog.Int("round", *m.RoundNumber))
	target := next[idx/2]
	home := idx%2 == 0
	if home && target.HomePairID != nil && target.AwayPairID == nil {
		home = false
	} else if !home && target.AwayPairID != nil && target.HomePairID == nil {
		home = true
	}
	a.fillSlot(target, home, winner)
}

type slotRef struct {
	match *models.Match
	home  bool
}

// feedSlot finds the destination slot for the winner of current-round match
// idx. Feed slots of the next round are counted structurally, left to
// right: a slot feeds the previous round if it is still nil, or if it holds
// a pair that plays in the previous round (an earlier propagation). The
// structural count makes the mapping independent of the order in which
// sibling matches complete, and supports irregular play-in rounds where
// hole count does not mirror power-of-two halving.
func (a *Advancer) feedSlot(cur, next []*models.Match, idx int) *slotRef {
	fromCur := make(map[int]bool)
	for _, c := range cur {
		for _, id := range c.ConcretePairs() {
			fromCur[id] = true
		}
	}
	feeds := make([]slotRef, 0, len(next)*2)
	for _, n := range next {
		if !n.HomeAbsent && (n.HomePairID == nil || fromCur[*n.HomePairID]) {
			feeds = append(feeds, slotRef{match: n, home: true})
		}
		if !n.AwayAbsent && (n.AwayPairID == nil || fromCur[*n.AwayPairID]) {
			feeds = append(feeds, slotRef{match: n, home: false})
		}
	}
	if idx < len(feeds) {
		return &feeds[idx]
	}
	return nil
}

// fillSlot assigns the winner to a slot. If the slot already held a
// different concrete pair this is a changed propagation: the target's own
// downstream advancement is stale and is recursively undone before the
// target's scores are cleared for a replay.
func (a *Advancer) fillSlot(target *models.Match, home bool, winner int) {
	slot := &target.AwayPairID
	if home {
		slot = &target.HomePairID
	}
	if *slot != nil && **slot == winner {
		return
	}
	if *slot != nil {
		a.clearDownstream(target)
		target.ClearScore()
	}
	id := winner
	*slot = &id
	a.mark(target)
	if target.IsBye() {
		a.ResolveBye(target)
	}
}

// UndoPropagation clears whatever the match's previous result pushed into
// later rounds, leaving the match's own score fields untouched. Used when
// an edited score no longer decides a previously completed match.
func (a *Advancer) UndoPropagation(m *models.Match) {
	if m.Stage == models.StageBracket {
		a.clearDownstream(m)
	}
	a.mark(m)
}

// clearDownstream undoes advancement that originated from the given match:
// it searches forward rounds for the first slot occupied by either of the
// match's pairs, recursively undoes that match's own propagation, then
// empties the slot and wipes that match's scores.
func (a *Advancer) clearDownstream(m *models.Match) {
	if m.RoundNumber == nil {
		return
	}
	ids := m.ConcretePairs()
	if len(ids) == 0 {
		return
	}
	isMine := func(p *int) bool {
		if p == nil {
			return false
		}
		for _, id := range ids {
			if *p == id {
				return true
			}
		}
		return false
	}
	for _, r := range a.rounds {
		if r <= *m.RoundNumber {
			continue
		}
		for _, n := range a.byRound[r] {
			homeHit := isMine(n.HomePairID)
			awayHit := isMine(n.AwayPairID)
			if !homeHit && !awayHit {
				continue
			}
			a.clearDownstream(n)
			if homeHit {
				n.HomePairID = nil
			}
			if awayHit {
				n.AwayPairID = nil
			}
			n.ClearScore()
			a.mark(n)
			return
		}
	}
}
