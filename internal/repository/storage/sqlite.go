package storage

import (
	"context"
	"database/sql"
	"fmt"

	// register the SQLite driver with database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage owns the on-disk archive of finished games.
type SQLiteStorage struct {
	Connection *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	// WAL keeps the janitor's purges from blocking archive writes.
	if _, err = conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("can't enable WAL mode: %w", err)
	}

	return &SQLiteStorage{Connection: conn}, nil
}

// Init creates the archive schema.
func (that *SQLiteStorage) Init(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS archived_games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		game_type TEXT NOT NULL,
		difficulty TEXT NOT NULL DEFAULT '',
		winner TEXT NOT NULL,
		moves INTEGER NOT NULL,
		board TEXT NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_archived_games_finished_at ON archived_games (finished_at);`

	if _, err := that.Connection.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create archive schema: %w", err)
	}

	return nil
}

func (that *SQLiteStorage) Close() error {
	return that.Connection.Close()
}
