package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahsanfayaz52/notesservice/internal/models"
	"github.com/google/uuid"
)

const noteColumns = "id, user_id, title, description, tag, created_at"

// NoteStore persists notes in a SQL database (MySQL or SQLite).
type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

func (s *NoteStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY created_at, id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// Insert assigns the identifier and creation time and stores the note.
func (s *NoteStore) Insert(ctx context.Context, n models.Note) (models.Note, error) {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notes ("+noteColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		n.ID, n.UserID, n.Title, n.Description, n.Tag, n.CreatedAt)
	if err != nil {
		return models.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (s *NoteStore) FindByID(ctx context.Context, id string) (models.Note, error) {
	return findNote(ctx, s.db, id)
}

// Update writes the non-empty fields of patch and returns the stored note.
func (s *NoteStore) Update(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	var sets []string
	var args []interface{}
	if patch.Title != "" {
		sets = append(sets, "title = ?")
		args = append(args, patch.Title)
	}
	if patch.Description != "" {
		sets = append(sets, "description = ?")
		args = append(args, patch.Description)
	}
	if patch.Tag != "" {
		sets = append(sets, "tag = ?")
		args = append(args, patch.Tag)
	}

	if len(sets) > 0 {
		args = append(args, id)
		_, err := s.db.ExecContext(ctx,
			"UPDATE notes SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return models.Note{}, fmt.Errorf("update note: %w", err)
		}
	}

	return findNote(ctx, s.db, id)
}

// Delete removes the note and returns the state it had before removal.
func (s *NoteStore) Delete(ctx context.Context, id string) (models.Note, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Note{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := findNote(ctx, tx, id)
	if err != nil {
		return models.Note{}, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id); err != nil {
		return models.Note{}, fmt.Errorf("delete note: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Note{}, fmt.Errorf("commit transaction: %w", err)
	}
	return n, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func findNote(ctx context.Context, q queryer, id string) (models.Note, error) {
	row := q.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, models.ErrRecordNotFound
	}
	return n, err
}

func scanNote(s scanner) (models.Note, error) {
	var n models.Note
	err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Tag, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, err
		}
		return models.Note{}, fmt.Errorf("scan note: %w", err)
	}
	return n, nil
}
