package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// InitSQLite opens (or creates) the SQLite database at filepath and creates
// the schema. ":memory:" is accepted and pinned to a single connection so
// every query sees the same database.
func InitSQLite(ctx context.Context, filepath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", filepath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if filepath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	createUsersTable := `CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`

	createNotesTable := `CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		tag TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);`

	createNotesIndex := `CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id);`

	_, err = db.ExecContext(ctx, createUsersTable)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating users table: %w", err)
	}

	_, err = db.ExecContext(ctx, createNotesTable)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating notes table: %w", err)
	}

	_, err = db.ExecContext(ctx, createNotesIndex)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating notes index: %w", err)
	}

	return db, nil
}
