package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zermelo-games/noughts-backend/internal/entity"
)

var ErrGameNotFinished = errors.New("game is not finished")

type ArchiveService interface {
	ArchiveGame(ctx context.Context, game *entity.Game) error
	RecentGames(ctx context.Context, limit int) ([]*entity.ArchivedGame, error)
	PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error)
}

type archiveRepo interface {
	Save(ctx context.Context, record *entity.ArchivedGame) error
	ListRecent(ctx context.Context, limit int) ([]*entity.ArchivedGame, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type archiveService struct {
	archiveRepo archiveRepo
}

func NewArchiveService(archiveRepo archiveRepo) ArchiveService {
	return &archiveService{
		archiveRepo: archiveRepo,
	}
}

// ArchiveGame writes the final record of a finished game to cold
// storage. Unfinished games are refused so the archive never holds a
// half-played board.
func (that *archiveService) ArchiveGame(ctx context.Context, game *entity.Game) error {
	if !game.IsFinished() {
		return fmt.Errorf("%w: game %s", ErrGameNotFinished, game.ID)
	}

	if err := that.archiveRepo.Save(ctx, entity.NewArchivedGame(game)); err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	return nil
}

func (that *archiveService) RecentGames(ctx context.Context, limit int) ([]*entity.ArchivedGame, error) {
	records, err := that.archiveRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived games: %w", err)
	}

	return records, nil
}

// PurgeOlderThan drops archive rows finished before now minus maxAge
// and reports how many went away.
func (that *archiveService) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	removed, err := that.archiveRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge archived games: %w", err)
	}

	return removed, nil
}
