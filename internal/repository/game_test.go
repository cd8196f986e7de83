package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zermelo-games/noughts-backend/internal/apperror"
	"github.com/zermelo-games/noughts-backend/internal/entity"
	"github.com/zermelo-games/noughts-backend/testing/suite"
)

const testGameTTL = time.Minute

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage, testGameTTL)

	// Given: a game with ID and status
	game := &entity.Game{
		ID:     "123",
		Status: entity.StatusWaiting,
	}

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: no error should be returned, and game is stored
	require.NoError(t, err)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, testGameTTL)

		// Given: a game with ID and status
		game := &entity.Game{
			ID:     "123",
			Status: entity.StatusWaiting,
		}

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		require.Equal(t, game.ID, retrievedGame.ID)
		require.Equal(t, game.Status, retrievedGame.Status)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, testGameTTL)

		nonExistentGameID := "9999999"

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, nonExistentGameID)

		// Then: an ErrGameNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrGameNotFound, err)
		assert.Empty(t, retrievedGame.ID)
		assert.Empty(t, retrievedGame.Status)
	})

	t.Run("GetByID_Expired", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Second)

		// Given: a stored game with a one second TTL
		game := &entity.Game{
			ID:     "123",
			Status: entity.StatusOngoing,
		}

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// Then: the game ages out on its own
		require.Eventually(t, func() bool {
			_, err = gameRepo.GetByID(ctx, game.ID)
			return errors.Is(err, ErrGameNotFound)
		}, 5*time.Second, 250*time.Millisecond)
	})
}

func TestGameRepository_GetWaitingPublicGame(t *testing.T) {
	t.Run("GetWaitingPublicGame_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, testGameTTL)

		// Given: a private waiting game, a busy public game and an open public game
		games := []*entity.Game{
			{ID: "private", Status: entity.StatusWaiting, Type: entity.PrivateType},
			{ID: "busy", Status: entity.StatusOngoing, Type: entity.PublicType},
			{ID: "open", Status: entity.StatusWaiting, Type: entity.PublicType},
		}
		for _, game := range games {
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
		}

		// When: GetWaitingPublicGame is called
		foundGame, err := gameRepo.GetWaitingPublicGame(ctx)

		// Then: the open public game is returned
		require.NoError(t, err)
		assert.Equal(t, "open", foundGame.ID)
	})

	t.Run("GetWaitingPublicGame_NoneWaiting", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, testGameTTL)

		// Given: only a private waiting game
		game := &entity.Game{ID: "private", Status: entity.StatusWaiting, Type: entity.PrivateType}
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: GetWaitingPublicGame is called
		_, err := gameRepo.GetWaitingPublicGame(ctx)

		// Then: ErrNoActiveGames should be returned
		require.ErrorIs(t, err, apperror.ErrNoActiveGames)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, testGameTTL)

		// Given: a game with ID and status
		game := &entity.Game{
			ID:     "123",
			Status: entity.StatusFinished,
		}

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: DeleteByID is called with existing ID
		err = gameRepo.DeleteByID(ctx, game.ID)

		// Then: no error should be returned
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, game.ID)
		require.Error(t, err)
		assert.Equal(t, ErrGameNotFound, err)
	})

	t.Run("DeleteByID_Missing", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, testGameTTL)

		// Given: a game ID that was already evicted by its TTL
		nonExistentGameID := "9999999"

		// When: DeleteByID is called with non-existent ID
		err := gameRepo.DeleteByID(ctx, nonExistentGameID)

		// Then: deleting an absent game is a no-op
		require.NoError(t, err)
	})
}
