package storage

import (
	"context"

	"github.com/iudanet/gophnotes/internal/models"
)

// NoteStorage defines interface for note persistence
type NoteStorage interface {
	// CreateNote stores a new note. The owner must exist.
	CreateNote(ctx context.Context, note *models.Note) error

	// GetNote retrieves a note joined with its owner
	// Returns ErrNoteNotFound if note doesn't exist
	GetNote(ctx context.Context, noteID string) (*models.NoteWithOwner, error)

	// ListNotesByOwner returns all notes owned by the user
	// Returns empty slice if user has no notes
	ListNotesByOwner(ctx context.Context, ownerID string) ([]models.NoteWithOwner, error)

	// NoteViewers returns the distinct IDs of every user allowed to view the note
	// (owner and grantees).
	// Returns ErrNoteNotFound if note doesn't exist
	NoteViewers(ctx context.Context, noteID string) ([]string, error)
}

// SharingStorage defines interface for note sharing grants
type SharingStorage interface {
	// CreateSharing stores a new grant. Duplicate grants are allowed.
	CreateSharing(ctx context.Context, sharing *models.NoteSharing) error

	// ListSharedWith returns distinct notes for which the user holds at least one grant
	ListSharedWith(ctx context.Context, userID string) ([]models.NoteWithOwner, error)

	// CountSharings returns the number of grants stored for the note
	CountSharings(ctx context.Context, noteID string) (int, error)
}
