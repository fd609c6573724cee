package models

// StandingRow is a computed view, recomputed from the full match set on
// every read. It is never persisted.
type StandingRow struct {
	EntryID    int    `json:"entry_id"`
	Name       string `json:"name"`
	Points     int    `json:"pt"`
	GamesWon   int    `json:"gw"`
	GamesLost  int    `json:"gl"`
	GamesDiff  int    `json:"dg"`
	Played     int    `json:"played"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}
