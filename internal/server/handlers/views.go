package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// View names
const (
	ViewSignIn          = "signin"
	ViewAlreadySignedIn = "already_signedin"
	ViewSignUp          = "signup"
	ViewCreateNotes     = "create_notes"
	ViewNote            = "note"
	ViewHome            = "home"
)

// Renderer renders HTML views, or their data as JSON for API clients
type Renderer struct {
	logger *slog.Logger
	tmpl   *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{logger: logger, tmpl: tmpl}, nil
}

// Render writes the named view with data and status 200
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if wantsJSON(r) {
		sendJSON(v.logger, w, data, http.StatusOK)
		return
	}

	// Рендерим в буфер, чтобы не отдать клиенту половину страницы при ошибке
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		v.logger.ErrorContext(r.Context(), "failed to render view",
			slog.String("view", name),
			slog.Any("error", err))
		sendStatus(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		v.logger.ErrorContext(r.Context(), "failed to write view", slog.Any("error", err))
	}
}
