package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ahsanfayaz52/notesservice/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const userColumns = "id, name, email, password, created_at"

// UserStore persists users in a SQL database (MySQL or SQLite).
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Insert stores u, whose Password must already be hashed.
func (s *UserStore) Insert(ctx context.Context, u models.User) (models.User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Email, u.Password, u.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, "email", email)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, "id", id)
}

func (s *UserStore) findOne(ctx context.Context, column, value string) (models.User, error) {
	var u models.User
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrRecordNotFound
		}
		return models.User{}, fmt.Errorf("find user by %s: %w", column, err)
	}
	return u, nil
}

func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
