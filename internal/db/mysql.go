package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// InitMySQL opens the MySQL database and creates the schema if needed.
func InitMySQL(ctx context.Context, user, password, host, dbName string) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = dbName
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping failed: %w", err)
	}

	createUsersTable := `CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at DATETIME(3) NOT NULL
	) ENGINE=InnoDB;`

	createNotesTable := `CREATE TABLE IF NOT EXISTS notes (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		tag VARCHAR(255) NOT NULL,
		created_at DATETIME(3) NOT NULL,
		INDEX idx_notes_user (user_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB;`

	if _, err := db.ExecContext(ctx, createUsersTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating users table: %w", err)
	}
	if _, err := db.ExecContext(ctx, createNotesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating notes table: %w", err)
	}

	return db, nil
}
