// Package notes implements the per-user notes resource: listing, creating,
// updating and deleting notes with ownership enforced on every lookup.
package notes

import (
	"context"
	"errors"

	"github.com/ahsanfayaz52/notesservice/internal/models"
	"github.com/ahsanfayaz52/notesservice/internal/validation"
)

// Store is the persistence the service needs. Lookups that match nothing
// return models.ErrRecordNotFound.
type Store interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error)
	Insert(ctx context.Context, n models.Note) (models.Note, error)
	FindByID(ctx context.Context, id string) (models.Note, error)
	Update(ctx context.Context, id string, patch models.NotePatch) (models.Note, error)
	Delete(ctx context.Context, id string) (models.Note, error)
}

type CreateInput struct {
	Title       string `json:"title" validate:"min=3" msg:"Enter a valid title"`
	Description string `json:"description" validate:"min=5" msg:"Description must be at least 5 characters"`
	Tag         string `json:"tag"`
}

// UpdateInput holds the fields to change. Empty fields keep their value.
type UpdateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every note owned by callerID.
func (s *Service) List(ctx context.Context, callerID string) ([]models.Note, error) {
	notes, err := s.store.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, &InternalError{Op: "list notes", Err: err}
	}
	return notes, nil
}

// Create validates in and stores a new note owned by callerID. A
// *validation.Error is returned when a field is rejected.
func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (models.Note, error) {
	if err := validation.Struct(in); err != nil {
		return models.Note{}, err
	}

	tag := in.Tag
	if tag == "" {
		tag = models.DefaultTag
	}

	note, err := s.store.Insert(ctx, models.Note{
		UserID:      callerID,
		Title:       in.Title,
		Description: in.Description,
		Tag:         tag,
	})
	if err != nil {
		return models.Note{}, &InternalError{Op: "create note", Err: err}
	}
	return note, nil
}

// Update changes the supplied fields of a note owned by callerID.
func (s *Service) Update(ctx context.Context, callerID, noteID string, in UpdateInput) (models.Note, error) {
	current, err := s.owned(ctx, callerID, noteID)
	if err != nil {
		return models.Note{}, err
	}

	patch := models.NotePatch{Title: in.Title, Description: in.Description, Tag: in.Tag}
	if patch.IsEmpty() {
		return current, nil
	}

	note, err := s.store.Update(ctx, noteID, patch)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.Note{}, ErrNotFound
		}
		return models.Note{}, &InternalError{Op: "update note", Err: err}
	}
	return note, nil
}

// Delete removes a note owned by callerID and returns its last state.
func (s *Service) Delete(ctx context.Context, callerID, noteID string) (models.Note, error) {
	if _, err := s.owned(ctx, callerID, noteID); err != nil {
		return models.Note{}, err
	}

	note, err := s.store.Delete(ctx, noteID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.Note{}, ErrNotFound
		}
		return models.Note{}, &InternalError{Op: "delete note", Err: err}
	}
	return note, nil
}

// owned looks the note up by identifier and then checks its owner, so a
// missing note is always reported before a foreign one.
func (s *Service) owned(ctx context.Context, callerID, noteID string) (models.Note, error) {
	note, err := s.store.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.Note{}, ErrNotFound
		}
		return models.Note{}, &InternalError{Op: "find note", Err: err}
	}
	if note.UserID != callerID {
		return models.Note{}, ErrForbidden
	}
	return note, nil
}
