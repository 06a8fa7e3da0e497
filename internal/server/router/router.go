// Package router wires the HTTP routes of the note service onto a chi router.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iudanet/gophnotes/internal/metrics"
	"github.com/iudanet/gophnotes/internal/server/handlers"
	"github.com/iudanet/gophnotes/internal/server/middleware"
)

// Deps holds everything the router needs
type Deps struct {
	Logger   *slog.Logger
	Auth     *handlers.AuthHandler
	Notes    *handlers.NoteHandler
	Health   *handlers.HealthHandler
	Verifier middleware.TokenVerifier
	// LoginLimiter limits POST / and POST /signup per client IP; nil disables it
	LoginLimiter *middleware.RateLimiter
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For/X-Real-IP
	TrustProxy bool
	Metrics    metrics.Recorder
	// MetricsHandler serves GET /metrics; nil disables the route
	MetricsHandler http.Handler
}

// New creates the chi router with all routes and middleware
func New(d Deps) *chi.Mux {
	recorder := d.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.LoggingMiddleware(d.Logger, "/health", "/metrics"))
	// Metrics снаружи Recovery: паника учитывается как 500
	r.Use(middleware.MetricsMiddleware(recorder))
	r.Use(middleware.RecoveryMiddleware(d.Logger))

	// Служебные эндпоинты
	r.Get("/health", d.Health.Health)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	// Публичные маршруты
	r.Group(func(r chi.Router) {
		r.Get("/", d.Auth.SignInPage)
		r.Get("/logout", d.Auth.Logout)
		r.Get("/signup", d.Auth.SignUpPage)

		r.Group(func(r chi.Router) {
			if d.LoginLimiter != nil {
				r.Use(middleware.RateLimitMiddleware(d.LoginLimiter))
			}
			r.Post("/", d.Auth.SignIn)
			r.Post("/signup", d.Auth.SignUp)
		})
	})

	// Защищенные маршруты (требуют cookie "auth")
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(d.Logger, d.Verifier))

		r.Get("/create-notes", d.Notes.CreateNotePage)
		r.Post("/create-notes", d.Notes.CreateNote)
		r.Get("/note/{id}", d.Notes.ViewNote)
		r.Post("/note/{id}", d.Notes.ShareNote)
		r.Get("/home", d.Notes.Home)
	})

	return r
}
