package notes_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ahsanfayaz52/notesservice/internal/models"
	"github.com/ahsanfayaz52/notesservice/internal/notes"
	"github.com/ahsanfayaz52/notesservice/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore implements notes.Store in memory, keeping insertion order.
type memoryStore struct {
	seq   int
	order []string
	notes map[string]models.Note
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{notes: make(map[string]models.Note)}
}

func (m *memoryStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Note{}
	for _, id := range m.order {
		if n, ok := m.notes[id]; ok && n.UserID == ownerID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memoryStore) Insert(ctx context.Context, n models.Note) (models.Note, error) {
	if m.err != nil {
		return models.Note{}, m.err
	}
	m.seq++
	n.ID = fmt.Sprintf("note-%d", m.seq)
	n.CreatedAt = time.Now()
	m.notes[n.ID] = n
	m.order = append(m.order, n.ID)
	return n, nil
}

func (m *memoryStore) FindByID(ctx context.Context, id string) (models.Note, error) {
	if m.err != nil {
		return models.Note{}, m.err
	}
	n, ok := m.notes[id]
	if !ok {
		return models.Note{}, models.ErrRecordNotFound
	}
	return n, nil
}

func (m *memoryStore) Update(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return models.Note{}, models.ErrRecordNotFound
	}
	n = patch.Apply(n)
	m.notes[id] = n
	return n, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) (models.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return models.Note{}, models.ErrRecordNotFound
	}
	delete(m.notes, id)
	return n, nil
}

func TestService_Scenario(t *testing.T) {
	store := newMemoryStore()
	svc := notes.NewService(store)
	ctx := context.Background()

	note, err := svc.Create(ctx, "A", notes.CreateInput{Title: "Groceries", Description: "Buy milk and eggs"})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "A", note.UserID)
	assert.Equal(t, "Groceries", note.Title)
	assert.Equal(t, "Buy milk and eggs", note.Description)
	assert.Equal(t, "General", note.Tag)

	updated, err := svc.Update(ctx, "A", note.ID, notes.UpdateInput{Tag: "Personal"})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", updated.Title)
	assert.Equal(t, "Buy milk and eggs", updated.Description)
	assert.Equal(t, "Personal", updated.Tag)

	_, err = svc.Delete(ctx, "B", note.ID)
	assert.ErrorIs(t, err, notes.ErrForbidden)
	_, err = store.FindByID(ctx, note.ID)
	require.NoError(t, err, "note must survive a foreign delete")

	deleted, err := svc.Delete(ctx, "A", note.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)

	list, err := svc.List(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_CreateAssignsFreshIDs(t *testing.T) {
	svc := notes.NewService(newMemoryStore())
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		n, err := svc.Create(ctx, "A", notes.CreateInput{Title: "Title", Description: "Description", Tag: "Work"})
		require.NoError(t, err)
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
		assert.Equal(t, "Work", n.Tag)
	}
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    notes.CreateInput
		paths []string
	}{
		{"short title", notes.CreateInput{Title: "ab", Description: "long enough"}, []string{"title"}},
		{"short description", notes.CreateInput{Title: "abc", Description: "four"}, []string{"description"}},
		{"both missing", notes.CreateInput{}, []string{"title", "description"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			svc := notes.NewService(store)

			_, err := svc.Create(context.Background(), "A", tt.in)
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)

			var paths []string
			for _, fe := range verr.Errors {
				paths = append(paths, fe.Path)
			}
			assert.Equal(t, tt.paths, paths)
			assert.Empty(t, store.notes, "nothing may be persisted")
		})
	}
}

func TestService_UpdateOnlyChangesSuppliedFields(t *testing.T) {
	svc := notes.NewService(newMemoryStore())
	ctx := context.Background()

	n, err := svc.Create(ctx, "A", notes.CreateInput{Title: "Title", Description: "Description"})
	require.NoError(t, err)

	u, err := svc.Update(ctx, "A", n.ID, notes.UpdateInput{Title: "New title"})
	require.NoError(t, err)
	assert.Equal(t, "New title", u.Title)
	assert.Equal(t, "Description", u.Description)
	assert.Equal(t, "General", u.Tag)
	assert.Equal(t, n.CreatedAt, u.CreatedAt)

	same, err := svc.Update(ctx, "A", n.ID, notes.UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, u, same)
}

func TestService_NotFoundBeforeForbidden(t *testing.T) {
	store := newMemoryStore()
	svc := notes.NewService(store)
	ctx := context.Background()

	n, err := svc.Create(ctx, "A", notes.CreateInput{Title: "Title", Description: "Description"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "B", "missing", notes.UpdateInput{Title: "x"})
	assert.ErrorIs(t, err, notes.ErrNotFound)
	_, err = svc.Delete(ctx, "B", "missing")
	assert.ErrorIs(t, err, notes.ErrNotFound)

	_, err = svc.Update(ctx, "B", n.ID, notes.UpdateInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, notes.ErrForbidden)

	stored, err := store.FindByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Title", stored.Title)
}

func TestService_ListIsolatesOwners(t *testing.T) {
	svc := notes.NewService(newMemoryStore())
	ctx := context.Background()

	for _, owner := range []string{"A", "B", "A", "C"} {
		_, err := svc.Create(ctx, owner, notes.CreateInput{Title: "Title", Description: "Description"})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, "A", n.UserID)
	}
}

func TestService_StoreFailureIsInternal(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection reset")
	svc := notes.NewService(store)
	ctx := context.Background()

	_, err := svc.List(ctx, "A")
	var ierr *notes.InternalError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "list notes", ierr.Op)

	_, err = svc.Create(ctx, "A", notes.CreateInput{Title: "Title", Description: "Description"})
	require.ErrorAs(t, err, &ierr)

	_, err = svc.Delete(ctx, "A", "note-1")
	require.ErrorAs(t, err, &ierr)
	assert.NotErrorIs(t, err, notes.ErrNotFound)
}
