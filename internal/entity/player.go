package entity

import "strings"

const botIDPrefix = "bot:"

// Player is one seat in a game. Bots are ordinary players whose ID
// carries the bot prefix, so they serialize and persist like anyone
// else.
type Player struct {
	ID     string `json:"id"`
	Mark   string `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

func NewPlayer(id string) *Player {
	return &Player{ID: id}
}

// NewBotPlayer builds the bot seat for a single game. The caller picks
// the id suffix; anything unique per game will do.
func NewBotPlayer(id, mark string) *Player {
	return &Player{ID: botIDPrefix + id, Mark: mark}
}

func (that *Player) IsBot() bool {
	return strings.HasPrefix(that.ID, botIDPrefix)
}
