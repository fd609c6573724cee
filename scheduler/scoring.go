package scheduler

import "github.com/movipadel/tornei-app/models"

type Side int

const (
	SideNone Side = iota
	SideHome
	SideAway
)

// Result is the evaluator's verdict over a match's raw score fields.
type Result struct {
	Completed bool
	Winner    Side
	HomeGames int
	AwayGames int
	HomeSets  int
	AwaySets  int
	// Set3Counts is false whenever the third set must be ignored: sets one
	// and two did not split 1-1, so any stray third-set values are stale
	// and must be nulled before persisting.
	Set3Counts bool
}

// Evaluate computes games totals, set wins and completion for a match,
// uniformly for standings and bracket advancement.
//
// One-set mode: completed iff both games values are present and unequal.
//
// Best-of-3 mode: a set is decided iff both of its games values are present
// and unequal. Set wins are tallied over sets one and two; the third set
// counts only when those split 1-1, and is ignored otherwise even if values
// were submitted; an ignored third set contributes no games either. A tied
// first or second set decides nothing, but the games actually played in it
// stay in the totals. The match is completed iff set wins are unequal and
// one side reached two.
func Evaluate(mode models.ScoringMode, m *models.Match) Result {
	if mode == models.ScoringBestOf3 {
		return evaluateBestOf3(m)
	}
	return evaluateOneSet(m)
}

func evaluateOneSet(m *models.Match) Result {
	var res Result
	if m.HomeGames == nil || m.AwayGames == nil {
		return res
	}
	res.HomeGames = *m.HomeGames
	res.AwayGames = *m.AwayGames
	if res.HomeGames == res.AwayGames {
		return res
	}
	res.Completed = true
	if res.HomeGames > res.AwayGames {
		res.Winner = SideHome
	} else {
		res.Winner = SideAway
	}
	return res
}

func evaluateBestOf3(m *models.Match) Result {
	var res Result

	sets := [3][2]*int{
		{m.Set1Home, m.Set1Away},
		{m.Set2Home, m.Set2Away},
		{m.Set3Home, m.Set3Away},
	}
	decided := func(s [2]*int) (Side, bool) {
		if s[0] == nil || s[1] == nil || *s[0] == *s[1] {
			return SideNone, false
		}
		if *s[0] > *s[1] {
			return SideHome, true
		}
		return SideAway, true
	}
	count := func(s [2]*int, winner Side) {
		if winner == SideHome {
			res.HomeSets++
		} else {
			res.AwaySets++
		}
		res.HomeGames += *s[0]
		res.AwayGames += *s[1]
	}

	for i := 0; i < 2; i++ {
		if w, ok := decided(sets[i]); ok {
			count(sets[i], w)
		} else if sets[i][0] != nil && sets[i][1] != nil {
			// A tied set decides nothing but its games still count.
			res.HomeGames += *sets[i][0]
			res.AwayGames += *sets[i][1]
		}
	}

	res.Set3Counts = res.HomeSets == 1 && res.AwaySets == 1
	if res.Set3Counts {
		if w, ok := decided(sets[2]); ok {
			count(sets[2], w)
		}
	}

	if res.HomeSets != res.AwaySets && (res.HomeSets == 2 || res.AwaySets == 2) {
		res.Completed = true
		if res.HomeSets > res.AwaySets {
			res.Winner = SideHome
		} else {
			res.Winner = SideAway
		}
	}
	return res
}

// ApplyResult writes the evaluator's derived fields back onto the match
// row. In best-of-3 mode a non-counting third set is nulled out so stale
// values never reach display.
func ApplyResult(mode models.ScoringMode, m *models.Match, res Result) {
	if mode == models.ScoringBestOf3 {
		hg, ag := res.HomeGames, res.AwayGames
		hs, as := res.HomeSets, res.AwaySets
		m.HomeGames, m.AwayGames = &hg, &ag
		m.HomeSets, m.AwaySets = &hs, &as
		if !res.Set3Counts {
			m.Set3Home, m.Set3Away = nil, nil
		}
	}
}
