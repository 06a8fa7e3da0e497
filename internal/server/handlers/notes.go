package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/gophnotes/internal/models"
	"github.com/iudanet/gophnotes/internal/server/service"
	"github.com/iudanet/gophnotes/pkg/api"
)

// MsgNoteSaved is returned by a successful note creation
const MsgNoteSaved = "Note saved Successfully"

// NoteService stores notes and their share grants
type NoteService interface {
	Create(ctx context.Context, ownerID, title, body, noteType string) (*models.Note, error)
	Get(ctx context.Context, principalID, noteID string) (*models.NoteWithOwner, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.NoteWithOwner, error)
	ListSharedWith(ctx context.Context, viewerID string) ([]models.NoteWithOwner, error)
	ShareCount(ctx context.Context, noteID string) (int, error)
	Share(ctx context.Context, principalID, noteID, granteeUsername string) (*models.User, error)
}

// NoteHandler обрабатывает запросы к заметкам. Все маршруты требуют авторизации.
type NoteHandler struct {
	logger *slog.Logger
	notes  NoteService
	views  *Renderer
}

// NewNoteHandler создает новый handler для заметок
func NewNoteHandler(logger *slog.Logger, notes NoteService, views *Renderer) *NoteHandler {
	return &NoteHandler{
		logger: logger,
		notes:  notes,
		views:  views,
	}
}

// CreateNotePage обрабатывает GET /create-notes
func (h *NoteHandler) CreateNotePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := PrincipalFrom(r.Context()); !ok {
		sendStatus(w, http.StatusUnauthorized)
		return
	}
	h.views.Render(w, r, ViewCreateNotes, struct{}{})
}

// CreateNote обрабатывает POST /create-notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFrom(ctx)
	if !ok {
		sendStatus(w, http.StatusUnauthorized)
		return
	}

	var req api.CreateNoteRequest
	err := bindRequest(w, r, &req, func(form url.Values) {
		req.Title = form.Get("title")
		req.Body = form.Get("body")
		req.Type = form.Get("type")
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to decode create note request", slog.Any("error", err))
		sendFailure(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	note, err := h.notes.Create(ctx, principal.ID, req.Title, req.Body, req.Type)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create note", slog.Any("error", err))
		sendStatus(w, http.StatusInternalServerError)
		return
	}

	sendResult(h.logger, w, MsgNoteSaved, note)
}

// ViewNote обрабатывает GET /note/{id}
func (h *NoteHandler) ViewNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFrom(ctx)
	if !ok {
		sendStatus(w, http.StatusUnauthorized)
		return
	}

	noteID := chi.URLParam(r, "id")

	note, err := h.notes.Get(ctx, principal.ID, noteID)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindNotFound:
			sendStatus(w, http.StatusNotFound)
		case service.KindForbidden:
			sendStatus(w, http.StatusForbidden)
		default:
			h.logger.ErrorContext(ctx, "failed to get note",
				slog.String("note_id", noteID),
				slog.Any("error", err))
			sendStatus(w, http.StatusUnauthorized)
		}
		return
	}

	view := api.NoteView{
		Note:    *note,
		User:    principal,
		IsOwner: note.UserID == principal.ID,
	}

	if view.IsOwner {
		count, err := h.notes.ShareCount(ctx, note.ID)
		if err != nil {
			// Счетчик только для отображения, страницу все равно отдаем
			h.logger.WarnContext(ctx, "failed to count sharings",
				slog.String("note_id", note.ID),
				slog.Any("error", err))
		}
		view.ShareCount = count
	}

	h.views.Render(w, r, ViewNote, view)
}

// ShareNote обрабатывает POST /note/{id}
func (h *NoteHandler) ShareNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFrom(ctx)
	if !ok {
		sendStatus(w, http.StatusUnauthorized)
		return
	}

	noteID := chi.URLParam(r, "id")

	var req api.ShareRequest
	err := bindRequest(w, r, &req, func(form url.Values) {
		req.SharedUser = form.Get("sharedUser")
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to decode share request", slog.Any("error", err))
		sendFailure(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	grantee, err := h.notes.Share(ctx, principal.ID, noteID, req.SharedUser)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindNotFound:
			sendFailure(h.logger, w, service.MessageOf(err), http.StatusOK)
		case service.KindForbidden:
			sendFailure(h.logger, w, service.MessageOf(err), http.StatusForbidden)
		default:
			h.logger.ErrorContext(ctx, "failed to share note",
				slog.String("note_id", noteID),
				slog.Any("error", err))
			sendStatus(w, http.StatusUnauthorized)
		}
		return
	}

	sendResult(h.logger, w, fmt.Sprintf("Shared to %s successfully", grantee.Username), nil)
}

// Home обрабатывает GET /home
// Свои заметки и заметки, которыми поделились с пользователем
func (h *NoteHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFrom(ctx)
	if !ok {
		sendStatus(w, http.StatusUnauthorized)
		return
	}

	notes, err := h.notes.ListByOwner(ctx, principal.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notes", slog.Any("error", err))
		sendStatus(w, http.StatusUnauthorized)
		return
	}

	shared, err := h.notes.ListSharedWith(ctx, principal.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list shared notes", slog.Any("error", err))
		sendStatus(w, http.StatusUnauthorized)
		return
	}

	h.views.Render(w, r, ViewHome, api.HomeView{
		User:        principal,
		Notes:       notes,
		SharedNotes: shared,
	})
}
