package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zermelo-games/noughts-backend/internal/entity"
)

type ArchiveRepository interface {
	Save(ctx context.Context, record *entity.ArchivedGame) error
	ListRecent(ctx context.Context, limit int) ([]*entity.ArchivedGame, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type dbArchive struct {
	db *sql.DB
}

// NewArchiveRepository keeps finished games in SQLite. The board
// snapshot is stored as a JSON column; everything queried on has its
// own column.
func NewArchiveRepository(db *sql.DB) ArchiveRepository {
	return &dbArchive{
		db: db,
	}
}

func (that *dbArchive) Save(ctx context.Context, record *entity.ArchivedGame) error {
	boardJSON, err := json.Marshal(record.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	query := `INSERT INTO archived_games (game_id, game_type, difficulty, winner, moves, board, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err = that.db.ExecContext(ctx, query,
		record.GameID, record.Type, record.Difficulty, record.Winner,
		record.Moves, string(boardJSON), record.FinishedAt,
	); err != nil {
		return fmt.Errorf("failed to insert archived game: %w", err)
	}

	return nil
}

func (that *dbArchive) ListRecent(ctx context.Context, limit int) ([]*entity.ArchivedGame, error) {
	query := `SELECT id, game_id, game_type, difficulty, winner, moves, board, finished_at
	FROM archived_games ORDER BY finished_at DESC, id DESC LIMIT ?`

	rows, err := that.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived games: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.ArchivedGame, 0, limit)

	for rows.Next() {
		var (
			record    entity.ArchivedGame
			boardJSON string
		)

		if err = rows.Scan(
			&record.ID, &record.GameID, &record.Type, &record.Difficulty,
			&record.Winner, &record.Moves, &boardJSON, &record.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan archived game: %w", err)
		}

		if err = json.Unmarshal([]byte(boardJSON), &record.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board: %w", err)
		}

		records = append(records, &record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archived games: %w", err)
	}

	return records, nil
}

func (that *dbArchive) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := that.db.ExecContext(ctx, `DELETE FROM archived_games WHERE finished_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete archived games: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}

	return removed, nil
}
