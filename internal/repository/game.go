package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zermelo-games/noughts-backend/internal/apperror"
	"github.com/zermelo-games/noughts-backend/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

const (
	gameKeyPrefix = "game:"
	scanBatchSize = 100
)

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetWaitingPublicGame(ctx context.Context) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository stores live games in redis as JSON blobs. Every
// write refreshes the TTL, so abandoned games age out on their own.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := gameKeyPrefix + game.ID
	if err = that.client.Set(ctx, gameKey, gameJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	gameKey := gameKeyPrefix + id

	response, err := that.client.Get(ctx, gameKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Game{}, ErrGameNotFound
	}

	if err != nil {
		return &entity.Game{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return &entity.Game{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

// GetWaitingPublicGame walks the live games and returns the first
// public one still waiting for an opponent.
func (that *dbGame) GetWaitingPublicGame(ctx context.Context) (*entity.Game, error) {
	var cursor uint64

	for {
		keys, next, err := that.client.Scan(ctx, cursor, gameKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan games: %w", err)
		}

		for _, key := range keys {
			response, err := that.client.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				continue // expired between scan and get
			}
			if err != nil {
				return nil, fmt.Errorf("failed to get game %s: %w", key, err)
			}

			var game entity.Game
			if err = json.Unmarshal([]byte(response), &game); err != nil {
				return nil, fmt.Errorf("failed to unmarshal game %s: %w", key, err)
			}

			if game.IsPublic() && game.IsWaiting() {
				return &game, nil
			}
		}

		cursor = next
		if cursor == 0 {
			return nil, apperror.ErrNoActiveGames
		}
	}
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	gameKey := gameKeyPrefix + id

	if err := that.client.Del(ctx, gameKey).Err(); err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	return nil
}
