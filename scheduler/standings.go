package scheduler

import (
	"sort"

	"github.com/movipadel/tornei-app/models"
)

// TiebreakPolicy selects the sort order of a standings table. The two
// policies deliberately differ and must not be conflated.
type TiebreakPolicy int

const (
	// TiebreakFixedPairs: points, games won, games lost ascending, games
	// difference, then name ascending.
	TiebreakFixedPairs TiebreakPolicy = iota
	// TiebreakBaraonda: games won, points, games difference, games lost
	// ascending, then name ascending.
	TiebreakBaraonda
)

// TableEntry identifies one standings line (a pair or a single player).
type TableEntry struct {
	ID   int
	Name string
}

// ResultLine is one completed match fed to the aggregator. A fixed-pairs
// match lists one id per side; a baraonda match lists two players.
type ResultLine struct {
	HomeIDs   []int
	AwayIDs   []int
	HomeGames int
	AwayGames int
	Winner    Side
}

// ComputeStandings builds the sorted table from the full set of completed
// matches: +1 point per win, games for/against and played/win/loss counters
// per side, difference recomputed after every update.
func ComputeStandings(entries []TableEntry, results []ResultLine, policy TiebreakPolicy) []models.StandingRow {
	rows := make(map[int]*models.StandingRow, len(entries))
	order := make([]*models.StandingRow, 0, len(entries))
	for _, e := range entries {
		row := &models.StandingRow{EntryID: e.ID, Name: e.Name}
		rows[e.ID] = row
		order = append(order, row)
	}

	credit := func(ids []int, gw, gl int, won bool) {
		for _, id := range ids {
			row, ok := rows[id]
			if !ok {
				continue
			}
			row.Played++
			row.GamesWon += gw
			row.GamesLost += gl
			if won {
				row.Points++
				row.Wins++
			} else {
				row.Losses++
			}
			row.GamesDiff = row.GamesWon - row.GamesLost
		}
	}

	for _, r := range results {
		if r.Winner == SideNone {
			continue
		}
		credit(r.HomeIDs, r.HomeGames, r.AwayGames, r.Winner == SideHome)
		credit(r.AwayIDs, r.AwayGames, r.HomeGames, r.Winner == SideAway)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		switch policy {
		case TiebreakBaraonda:
			if a.GamesWon != b.GamesWon {
				return a.GamesWon > b.GamesWon
			}
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if a.GamesDiff != b.GamesDiff {
				return a.GamesDiff > b.GamesDiff
			}
			if a.GamesLost != b.GamesLost {
				return a.GamesLost < b.GamesLost
			}
		default:
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if a.GamesWon != b.GamesWon {
				return a.GamesWon > b.GamesWon
			}
			if a.GamesLost != b.GamesLost {
				return a.GamesLost < b.GamesLost
			}
			if a.GamesDiff != b.GamesDiff {
				return a.GamesDiff > b.GamesDiff
			}
		}
		return a.Name < b.Name
	})

	out := make([]models.StandingRow, len(order))
	for i, r := range order {
		out[i] = *r
	}
	return out
}
