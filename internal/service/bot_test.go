package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zermelo-games/noughts-backend/internal/engine"
	"github.com/zermelo-games/noughts-backend/internal/entity"
)

func newSeededBotService() BotService {
	return NewBotService(engine.New(engine.WithRand(rand.New(rand.NewSource(7)))))
}

func botGame(difficulty string, botMark string) *entity.Game {
	humanMark := entity.PlayerX
	if botMark == entity.PlayerX {
		humanMark = entity.PlayerO
	}

	return &entity.Game{
		ID:         "12345678",
		Status:     entity.StatusOngoing,
		Turn:       botMark,
		Type:       entity.WithBotType,
		Difficulty: difficulty,
		Players: []*entity.Player{
			{ID: "p1", Mark: humanMark, GameID: "12345678"},
			{ID: "bot:12345678", Mark: botMark, GameID: "12345678"},
		},
	}
}

func countMarks(board [9]string, mark string) int {
	count := 0
	for _, cell := range board {
		if cell == mark {
			count++
		}
	}

	return count
}

func TestBotServiceMakeTurn(t *testing.T) {
	t.Run("Fails when no bot is seated", func(t *testing.T) {
		// Given: a game between two humans.
		game := &entity.Game{
			ID:     "12345678",
			Status: entity.StatusOngoing,
			Turn:   entity.PlayerO,
			Players: []*entity.Player{
				{ID: "p1", Mark: entity.PlayerX},
				{ID: "p2", Mark: entity.PlayerO},
			},
		}

		// When: asking the bot to move anyway.
		err := newSeededBotService().MakeTurn(game)

		// Then: there is nothing to move for.
		assert.ErrorIs(t, err, ErrBotNotFound)
	})

	t.Run("Easy bot claims some free cell", func(t *testing.T) {
		// Given: an easy game with the bot to move.
		game := botGame(entity.EasyDifficulty, entity.PlayerO)
		game.Board = [9]string{0: entity.PlayerX}

		// When: the bot moves.
		err := newSeededBotService().MakeTurn(game)

		// Then: exactly one new O landed on a previously free cell.
		require.NoError(t, err)
		assert.Equal(t, 1, countMarks(game.Board, entity.PlayerO))
		assert.Equal(t, entity.PlayerX, game.Board[0])
		assert.Equal(t, entity.PlayerX, game.Turn)
	})

	t.Run("Hard bot takes the winning cell", func(t *testing.T) {
		// Given: a hard game where the bot can close the top row.
		game := botGame(entity.HardDifficulty, entity.PlayerO)
		game.Board = [9]string{
			entity.PlayerO, entity.PlayerO, "",
			entity.PlayerX, entity.PlayerX, "",
			"", "", entity.PlayerX,
		}

		// When: the bot moves.
		err := newSeededBotService().MakeTurn(game)

		// Then: the win is taken, not merely any legal cell.
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, game.Board[2])
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, entity.PlayerO, game.Winner)
	})

	t.Run("Hard bot blocks the human threat", func(t *testing.T) {
		// Given: a hard game where the human is about to close a row.
		game := botGame(entity.HardDifficulty, entity.PlayerO)
		game.Board = [9]string{
			entity.PlayerX, entity.PlayerX, "",
			entity.PlayerO, "", "",
			"", "", "",
		}

		// When: the bot moves.
		err := newSeededBotService().MakeTurn(game)

		// Then: the threatened cell is taken away.
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, game.Board[2])
		assert.Equal(t, entity.StatusOngoing, game.Status)
	})

	t.Run("Refuses a full board", func(t *testing.T) {
		for _, difficulty := range []string{entity.EasyDifficulty, entity.HardDifficulty} {
			// Given: a drawn board with no free cell.
			game := botGame(difficulty, entity.PlayerO)
			game.Board = [9]string{
				entity.PlayerX, entity.PlayerO, entity.PlayerX,
				entity.PlayerX, entity.PlayerO, entity.PlayerO,
				entity.PlayerO, entity.PlayerX, entity.PlayerX,
			}

			// When: the bot is asked to move.
			err := newSeededBotService().MakeTurn(game)

			// Then: it reports that no move exists.
			assert.ErrorIs(t, err, ErrNoAvailableMoves, "difficulty %s", difficulty)
		}
	})
}
