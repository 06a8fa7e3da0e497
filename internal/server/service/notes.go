package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophnotes/internal/metrics"
	"github.com/iudanet/gophnotes/internal/models"
	"github.com/iudanet/gophnotes/internal/server/storage"
)

// User-facing messages of the note store and sharing registry
const (
	MsgNoteNotFound = "Note not found"
	MsgUserNotFound = "User not found"
	MsgNoAccess     = "You don't have access to this note"
	MsgNotOwner     = "Only the owner can share this note"
)

// ACLCache caches the set of users allowed to view a note.
// A nil cache disables caching.
type ACLCache interface {
	// GetViewers returns the cached viewers; ok is false on a miss
	GetViewers(ctx context.Context, noteID string) (viewers []string, ok bool, err error)
	// Generation returns a token that changes on every Invalidate of the note
	Generation(ctx context.Context, noteID string) (string, error)
	// SetViewers stores viewers only if the generation still equals gen
	SetViewers(ctx context.Context, noteID, gen string, viewers []string) error
	Invalidate(ctx context.Context, noteID string) error
}

// NoteServiceConfig configures access enforcement
type NoteServiceConfig struct {
	// StrictAccess restricts reads to the owner and grantees and sharing to the owner.
	// When false any authenticated principal may read or share any note.
	StrictAccess bool
}

// NoteService implements the note store, the sharing registry and note access checks
type NoteService struct {
	logger   *slog.Logger
	users    storage.UserStorage
	notes    storage.NoteStorage
	sharings storage.SharingStorage
	cache    ACLCache
	metrics  metrics.Recorder
	cfg      NoteServiceConfig
}

// NewNoteService creates a new note service. cache may be nil.
func NewNoteService(
	logger *slog.Logger,
	users storage.UserStorage,
	notes storage.NoteStorage,
	sharings storage.SharingStorage,
	cache ACLCache,
	recorder metrics.Recorder,
	cfg NoteServiceConfig,
) *NoteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NoteService{
		logger:   logger,
		users:    users,
		notes:    notes,
		sharings: sharings,
		cache:    cache,
		metrics:  recorder,
		cfg:      cfg,
	}
}

// StrictAccess reports whether ownership and grants are enforced
func (s *NoteService) StrictAccess() bool {
	return s.cfg.StrictAccess
}

// Create stores a note owned by ownerID. Title, body and type are not validated.
func (s *NoteService) Create(ctx context.Context, ownerID, title, body, noteType string) (*models.Note, error) {
	note := &models.Note{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		Type:      noteType,
		UserID:    ownerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, storeFailure("create note", err)
	}

	s.metrics.IncNoteCreated()
	s.logger.InfoContext(ctx, "note created",
		slog.String("note_id", note.ID),
		slog.String("user_id", ownerID))

	return note, nil
}

// Get returns the note if principalID may view it
func (s *NoteService) Get(ctx context.Context, principalID, noteID string) (*models.NoteWithOwner, error) {
	note, err := s.notes.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			return nil, newError(KindNotFound, MsgNoteNotFound, err)
		}
		return nil, storeFailure("get note", err)
	}

	if !s.cfg.StrictAccess {
		return note, nil
	}

	allowed, err := s.CanView(ctx, principalID, noteID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.WarnContext(ctx, "note access denied",
			slog.String("note_id", noteID),
			slog.String("user_id", principalID))
		return nil, newError(KindForbidden, MsgNoAccess, nil)
	}

	return note, nil
}

// ListByOwner returns the notes owned by ownerID joined with the owner
func (s *NoteService) ListByOwner(ctx context.Context, ownerID string) ([]models.NoteWithOwner, error) {
	notes, err := s.notes.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeFailure("list notes", err)
	}
	return notes, nil
}

// ListSharedWith returns the notes for which viewerID holds a grant
func (s *NoteService) ListSharedWith(ctx context.Context, viewerID string) ([]models.NoteWithOwner, error) {
	notes, err := s.sharings.ListSharedWith(ctx, viewerID)
	if err != nil {
		return nil, storeFailure("list shared notes", err)
	}
	return notes, nil
}

// ShareCount returns how many grants exist for the note
func (s *NoteService) ShareCount(ctx context.Context, noteID string) (int, error) {
	count, err := s.sharings.CountSharings(ctx, noteID)
	if err != nil {
		return 0, storeFailure("count sharings", err)
	}
	return count, nil
}

// Share grants granteeUsername view access to the note and returns the grantee.
// Repeated shares create duplicate grants.
func (s *NoteService) Share(ctx context.Context, principalID, noteID, granteeUsername string) (*models.User, error) {
	grantee, err := s.users.GetUserByUsername(ctx, granteeUsername)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, newError(KindNotFound, MsgUserNotFound, err)
		}
		return nil, storeFailure("get grantee", err)
	}

	note, err := s.notes.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			return nil, newError(KindNotFound, MsgNoteNotFound, err)
		}
		return nil, storeFailure("get note", err)
	}

	if s.cfg.StrictAccess && note.UserID != principalID {
		s.logger.WarnContext(ctx, "share denied: not the owner",
			slog.String("note_id", noteID),
			slog.String("user_id", principalID))
		return nil, newError(KindForbidden, MsgNotOwner, nil)
	}

	sharing := &models.NoteSharing{
		ID:        uuid.New().String(),
		UserID:    grantee.ID,
		NoteID:    note.ID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sharings.CreateSharing(ctx, sharing); err != nil {
		return nil, storeFailure("create sharing", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, note.ID); err != nil {
			// Запись в БД уже есть; без инвалидации грантополучатель увидит заметку после TTL
			s.logger.WarnContext(ctx, "failed to invalidate acl cache",
				slog.String("note_id", note.ID),
				slog.Any("error", err))
		}
	}

	s.metrics.IncNoteShared()
	s.logger.InfoContext(ctx, "note shared",
		slog.String("note_id", note.ID),
		slog.String("grantee_id", grantee.ID),
		slog.String("user_id", principalID))

	return grantee, nil
}

// CanView reports whether principalID is the owner of the note or holds a grant for it
func (s *NoteService) CanView(ctx context.Context, principalID, noteID string) (bool, error) {
	viewers, err := s.viewers(ctx, noteID)
	if err != nil {
		return false, err
	}
	return slices.Contains(viewers, principalID), nil
}

func (s *NoteService) viewers(ctx context.Context, noteID string) ([]string, error) {
	var (
		gen       string
		cacheable bool
	)

	if s.cache != nil {
		viewers, ok, err := s.cache.GetViewers(ctx, noteID)
		switch {
		case err != nil:
			s.metrics.IncACLCache(metrics.CacheError)
			s.logger.WarnContext(ctx, "acl cache lookup failed", slog.Any("error", err))
		case ok:
			s.metrics.IncACLCache(metrics.CacheHit)
			return viewers, nil
		default:
			s.metrics.IncACLCache(metrics.CacheMiss)
		}

		// Поколение читается до БД: Share между чтением и записью делает запись устаревшей
		gen, err = s.cache.Generation(ctx, noteID)
		if err != nil {
			s.logger.WarnContext(ctx, "acl cache generation lookup failed", slog.Any("error", err))
		} else {
			cacheable = true
		}
	}

	viewers, err := s.notes.NoteViewers(ctx, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			return nil, newError(KindNotFound, MsgNoteNotFound, err)
		}
		return nil, storeFailure("get note viewers", err)
	}

	if cacheable {
		if err := s.cache.SetViewers(ctx, noteID, gen, viewers); err != nil {
			s.logger.WarnContext(ctx, "failed to populate acl cache", slog.Any("error", err))
		}
	}

	return viewers, nil
}
