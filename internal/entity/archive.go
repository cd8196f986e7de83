package entity

import "time"

// ArchivedGame is the after-the-fact record of one finished match. Live
// games stay in hot storage; these rows are what outlives them.
type ArchivedGame struct {
	ID         int64     `json:"id"`
	GameID     string    `json:"game_id"`
	Type       string    `json:"type"`
	Difficulty string    `json:"difficulty,omitempty"`
	Winner     string    `json:"winner"`
	Moves      int       `json:"moves"`
	Board      [9]string `json:"board"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewArchivedGame(game *Game) *ArchivedGame {
	moves := 0
	for _, cell := range game.Board {
		if cell != EmptyCell {
			moves++
		}
	}

	return &ArchivedGame{
		GameID:     game.ID,
		Type:       game.Type,
		Difficulty: game.Difficulty,
		Winner:     game.Winner,
		Moves:      moves,
		Board:      game.Board,
		FinishedAt: time.Now().UTC(),
	}
}
