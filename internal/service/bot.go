package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zermelo-games/noughts-backend/internal/board"
	"github.com/zermelo-games/noughts-backend/internal/engine"
	"github.com/zermelo-games/noughts-backend/internal/entity"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct {
	engine *engine.Engine
}

// NewBotService returns the bot opponent. Easy games pick uniformly
// random cells; hard games delegate to the tactic engine.
func NewBotService(gameEngine *engine.Engine) BotService {
	return &botService{engine: gameEngine}
}

func (that *botService) MakeTurn(game *entity.Game) error {
	var botPlayer *entity.Player
	for _, player := range game.Players {
		if player.IsBot() {
			botPlayer = player
			break
		}
	}

	if botPlayer == nil {
		return ErrBotNotFound
	}

	var (
		chosenCell int
		err        error
	)

	if game.IsHardBot() {
		chosenCell, err = that.tacticalMove(game, botPlayer.Mark)
	} else {
		chosenCell, err = that.randomMove(game)
	}

	if err != nil {
		return err
	}

	if err = game.MakeTurn(botPlayer.Mark, chosenCell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

// randomMove picks any free cell with equal probability.
func (that *botService) randomMove(game *entity.Game) (int, error) {
	availableCells := make([]int, 0, len(game.Board))
	for i, cell := range game.Board {
		if cell == entity.EmptyCell {
			availableCells = append(availableCells, i)
		}
	}

	if len(availableCells) == 0 {
		return 0, ErrNoAvailableMoves
	}

	return availableCells[rand.Intn(len(availableCells))], nil //nolint:gosec // game moves, not secrets
}

// tacticalMove asks the engine for the strongest cell.
func (that *botService) tacticalMove(game *entity.Game, mark string) (int, error) {
	b, err := board.FromSnapshot(game.Board)
	if err != nil {
		return 0, fmt.Errorf("restore board: %w", err)
	}

	cell, err := that.engine.Move(b, board.Mark(mark))
	if err != nil {
		if errors.Is(err, engine.ErrNoMoves) {
			return 0, ErrNoAvailableMoves
		}
		return 0, fmt.Errorf("pick bot move: %w", err)
	}

	return cell, nil
}
