package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zermelo-games/noughts-backend/internal/apperror"
	"github.com/zermelo-games/noughts-backend/internal/board"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = string(board.MarkX)
	PlayerO   = string(board.MarkO)
	PlayerTie = "-"

	EmptyCell = string(board.Empty)
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

const (
	EasyDifficulty = "easy"
	HardDifficulty = "hard"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is the wire and storage shape of one match. The board is kept as
// plain strings so it serializes as-is; the rules live in the board
// package and are applied by rebuilding a board from this snapshot.
type Game struct {
	ID         string    `json:"id"`
	Board      [9]string `json:"board"`
	Winner     string    `json:"winner"`
	Status     string    `json:"status"`
	Turn       string    `json:"player_turn"`
	Players    []*Player `json:"players,omitempty"`
	Type       string    `json:"type,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
}

func NewGame(id, gameType, difficulty string) *Game {
	return &Game{
		ID:         id,
		Turn:       PlayerX,
		Status:     StatusWaiting,
		Type:       gameType,
		Difficulty: difficulty,
	}
}

// MakeTurn claims a cell for the player and refreshes winner, status and
// turn. The whose-turn check is game-level; everything about the cell
// itself is delegated to the board.
func (that *Game) MakeTurn(playerMark string, cell int) error {
	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	b, err := board.FromSnapshot(that.Board)
	if err != nil {
		return fmt.Errorf("restore board: %w", err)
	}

	claimed, err := b.Claim(cell, board.Mark(playerMark))
	if err != nil {
		return err
	}

	that.Board = b.Snapshot()

	switch {
	case b.IsWinningCell(claimed.Index):
		that.Winner = playerMark
		that.Status = StatusFinished
		that.Turn = ""
	case b.Full():
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	default:
		that.Turn = string(board.Opponent(claimed.Mark))
		that.Status = StatusOngoing
	}

	return nil
}

// DetermineGameResult returns the winning mark, PlayerTie on a full
// board, or an empty string while the game is still open.
func (that *Game) DetermineGameResult() string {
	b, err := board.FromSnapshot(that.Board)
	if err != nil {
		return ""
	}

	if winner, ok := b.Winner(); ok {
		return string(winner)
	}

	if b.Full() {
		return PlayerTie
	}

	return ""
}

// UpdateGameState recomputes winner and status from the board snapshot.
// MakeTurn keeps the state current on its own; this is for games loaded
// from storage.
func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	case PlayerX, PlayerO, PlayerTie:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = ""
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) IsHardBot() bool {
	return that.IsWithBot() && that.Difficulty == HardDifficulty
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint:gosec // mark assignment, not security
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
