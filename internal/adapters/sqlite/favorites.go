// Package sqlite provides the SQLite-backed favorites log.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // driver registration
)

// FavoriteLog implements ports.FavoriteLog with an append-only table.
// Writes are at-least-once: the caller retries, duplicates are fine.
type FavoriteLog struct {
	db *sql.DB
}

// NewFavoriteLog opens (or creates) the database and runs the schema
// migration.
func NewFavoriteLog(storagePath string) (*FavoriteLog, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", storagePath, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	l := &FavoriteLog{db: db}
	if err := l.migrate(); err != nil {
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}
	return l, nil
}

func (l *FavoriteLog) migrate() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			input      TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

// Append records one favorite submission.
func (l *FavoriteLog) Append(ctx context.Context, sessionID, input string) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO favorites (session_id, input, created_at) VALUES (?, ?, ?)",
		sessionID, input, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert favorite: %w", err)
	}
	return nil
}

// Recent returns the latest n favorites, newest first.
func (l *FavoriteLog) Recent(ctx context.Context, n int) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT input FROM favorites ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query favorites: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var input string
		if err := rows.Scan(&input); err != nil {
			return nil, fmt.Errorf("sqlite: scan favorite: %w", err)
		}
		out = append(out, input)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate favorites: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (l *FavoriteLog) Close() error {
	return l.db.Close()
}
