package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophnotes/internal/models"
	"github.com/iudanet/gophnotes/internal/server/storage"
)

func TestNoteStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	owner := createTestUser(t, ctx, s, "alice")
	note := createTestNote(t, ctx, s, owner.ID, "groceries")

	got, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, "groceries", got.Title)
	assert.Equal(t, "body of groceries", got.Body)
	assert.Equal(t, "personal", got.Type)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, owner.ID, got.Owner.ID)
	assert.Equal(t, "alice", got.Owner.Username)
}

func TestNoteStorage_GetNote_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	got, err := s.GetNote(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)
	assert.Nil(t, got)
}

func TestNoteStorage_CreateNote_UnknownOwner(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.CreateNote(ctx, &models.Note{
		ID:        uuid.New().String(),
		Title:     "orphan",
		UserID:    uuid.New().String(),
		CreatedAt: time.Now(),
	})
	assert.Error(t, err, "foreign key on notes.user_id must reject unknown owners")
}

func TestNoteStorage_ListNotesByOwner(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	alice := createTestUser(t, ctx, s, "alice")
	bob := createTestUser(t, ctx, s, "bob")

	first := createTestNote(t, ctx, s, alice.ID, "first")
	second := createTestNote(t, ctx, s, alice.ID, "second")
	createTestNote(t, ctx, s, bob.ID, "bobs")

	notes, err := s.ListNotesByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	ids := []string{notes[0].ID, notes[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	for _, n := range notes {
		assert.Equal(t, "alice", n.Owner.Username)
	}

	empty, err := s.ListNotesByOwner(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestNoteStorage_NoteViewers(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	alice := createTestUser(t, ctx, s, "alice")
	bob := createTestUser(t, ctx, s, "bob")
	carol := createTestUser(t, ctx, s, "carol")
	note := createTestNote(t, ctx, s, alice.ID, "shared")

	viewers, err := s.NoteViewers(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, viewers)

	// Дубликаты грантов не должны дублировать зрителей
	for i := 0; i < 2; i++ {
		require.NoError(t, s.CreateSharing(ctx, &models.NoteSharing{
			ID:        uuid.New().String(),
			UserID:    bob.ID,
			NoteID:    note.ID,
			CreatedAt: time.Now(),
		}))
	}

	// Грант на чужую заметку не попадает в список
	other := createTestNote(t, ctx, s, bob.ID, "other")
	require.NoError(t, s.CreateSharing(ctx, &models.NoteSharing{
		ID:        uuid.New().String(),
		UserID:    carol.ID,
		NoteID:    other.ID,
		CreatedAt: time.Now(),
	}))

	viewers, err = s.NoteViewers(ctx, note.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, viewers)
	assert.NotContains(t, viewers, carol.ID)

	viewers, err = s.NoteViewers(ctx, other.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{bob.ID, carol.ID}, viewers)

	_, err = s.NoteViewers(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)
}
