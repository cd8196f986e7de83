package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zermelo-games/noughts-backend/internal/apperror"
	"github.com/zermelo-games/noughts-backend/internal/entity"
	"github.com/zermelo-games/noughts-backend/internal/metrics"
)

type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	GetOrCreateGame(ctx context.Context, playerID, gameType, difficulty string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)
	CreateOrJoinToPublicGame(ctx context.Context, playerID string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	EndGame(ctx context.Context, game *entity.Game) error
}

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameService interface {
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type gamePlayService interface {
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	JoinWaitingPublicGame(ctx context.Context, playerID string) (*entity.Game, error)
	GetOrCreateGame(ctx context.Context, player *entity.Player, gameType, difficulty string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)
	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
}

type archiveService interface {
	ArchiveGame(ctx context.Context, game *entity.Game) error
}

type gameUseCase struct {
	logger *slog.Logger

	playerService   playerService
	gameService     gameService
	gamePlayService gamePlayService
	archiveService  archiveService
	collector       *metrics.Collector
}

func NewGameUseCase(
	logger *slog.Logger,
	playerService playerService,
	gameService gameService,
	gamePlayService gamePlayService,
	archiveService archiveService,
	collector *metrics.Collector,
) GameUseCase {
	return &gameUseCase{
		logger:          logger,
		playerService:   playerService,
		gameService:     gameService,
		gamePlayService: gamePlayService,
		archiveService:  archiveService,
		collector:       collector,
	}
}

func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID == "" {
		player, err := that.playerService.CreatePlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not create player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) GetOrCreateGame(ctx context.Context, playerID, gameType, difficulty string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	previousGameID := player.GameID

	game, err := that.gamePlayService.GetOrCreateGame(ctx, player, gameType, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create game: %w", err)
	}

	if game.ID != previousGameID {
		that.collector.GameStarted(game.Type)
	}

	return game, nil
}

func (that *gameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrGameIsNotStarted
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// CreateOrJoinToPublicGame seats the player in the first waiting public
// game, or opens a fresh one when nobody is waiting.
func (that *gameUseCase) CreateOrJoinToPublicGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.JoinWaitingPublicGame(ctx, playerID)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, apperror.ErrNoActiveGames) {
		return nil, fmt.Errorf("failed to join waiting public game: %w", err)
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	previousGameID := player.GameID

	game, err = that.gamePlayService.GetOrCreateGame(ctx, player, entity.PublicType, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create public game: %w", err)
	}

	if game.ID != previousGameID {
		that.collector.GameStarted(game.Type)
	}

	return game, nil
}

func (that *gameUseCase) JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.JoinGameByID(ctx, gameID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	return game, nil
}

// MakeTurn applies the player's move and, once the game is over, ends
// it. It returns apperror.ErrGameFinished alongside the final state so
// callers can tell a finished game from a failed turn.
func (that *gameUseCase) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	started := time.Now()

	game, err := that.gamePlayService.MakeTurn(ctx, playerID, cell)
	if err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	that.collector.TurnPlayed()
	that.collector.ObserveTurnDuration(time.Since(started))

	if game.IsFinished() {
		that.collector.GameFinished(game.Winner)

		if err = that.EndGame(ctx, game); err != nil {
			that.logger.Error("failed to end game", "gameID", game.ID, "error", err)
		}

		return game, apperror.ErrGameFinished
	}

	return game, nil
}

// EndGame archives a finished game and releases its players. Games
// abandoned mid-play are cleaned up without leaving an archive record.
func (that *gameUseCase) EndGame(ctx context.Context, game *entity.Game) error {
	var archiveErr error
	if game.IsFinished() {
		archiveErr = that.archiveService.ArchiveGame(ctx, game)
	}

	that.gamePlayService.CleanupGame(ctx, game)

	if archiveErr != nil {
		return fmt.Errorf("failed to archive game: %w", archiveErr)
	}

	return nil
}
