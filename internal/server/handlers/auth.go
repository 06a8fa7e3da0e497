package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/gophnotes/internal/models"
	"github.com/iudanet/gophnotes/internal/server/jwt"
	"github.com/iudanet/gophnotes/internal/server/service"
	"github.com/iudanet/gophnotes/pkg/api"
)

// MsgUserCreated is returned by a successful sign-up
const MsgUserCreated = "User created successfully"

// CredentialService registers users and verifies their passwords
type CredentialService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Verify(ctx context.Context, username, password string) (*models.User, error)
}

// TokenIssuer issues session tokens
type TokenIssuer interface {
	Issue(userID, username string) (string, time.Time, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger       *slog.Logger
	credentials  CredentialService
	tokens       TokenIssuer
	views        *Renderer
	secureCookie bool
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(
	logger *slog.Logger,
	credentials CredentialService,
	tokens TokenIssuer,
	views *Renderer,
	secureCookie bool,
) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		credentials:  credentials,
		tokens:       tokens,
		views:        views,
		secureCookie: secureCookie,
	}
}

// SignInPage обрабатывает GET /
// Any cookie at all switches to the "already signed in" view; the token is not checked.
func (h *AuthHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	view := api.LandingView{SignedIn: jwt.HasAnyCookie(r)}
	if view.SignedIn {
		h.views.Render(w, r, ViewAlreadySignedIn, view)
		return
	}
	h.views.Render(w, r, ViewSignIn, view)
}

// SignIn обрабатывает POST /
// Проверяет пароль, выставляет cookie "auth" и редиректит на /home
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	creds, err := bindCredentials(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to decode sign-in request", slog.Any("error", err))
		sendStatus(w, http.StatusBadRequest)
		return
	}

	user, err := h.credentials.Verify(ctx, creds.Username, creds.Password)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindNotFound, service.KindInvalidCredentials:
			sendText(h.logger, w, service.MessageOf(err))
		default:
			h.logger.ErrorContext(ctx, "failed to verify credentials", slog.Any("error", err))
			sendStatus(w, http.StatusInternalServerError)
		}
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token", slog.Any("error", err))
		sendStatus(w, http.StatusInternalServerError)
		return
	}

	jwt.SetSessionCookie(w, token, expiresAt, h.secureCookie)

	h.logger.InfoContext(ctx, "user signed in",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	http.Redirect(w, r, "/home", http.StatusFound)
}

// Logout обрабатывает GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	jwt.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// SignUpPage обрабатывает GET /signup
func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, ViewSignUp, struct{}{})
}

// SignUp обрабатывает POST /signup
// Регистрация нового пользователя
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	creds, err := bindCredentials(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to decode sign-up request", slog.Any("error", err))
		sendFailure(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.credentials.Register(ctx, creds.Username, creds.Password)
	if err != nil {
		if service.KindOf(err) == service.KindValidation {
			sendFailure(h.logger, w, service.MessageOf(err), http.StatusOK)
			return
		}
		h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
		sendStatus(w, http.StatusInternalServerError)
		return
	}

	sendResult(h.logger, w, MsgUserCreated, api.SignUpData{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

func bindCredentials(w http.ResponseWriter, r *http.Request) (api.Credentials, error) {
	var creds api.Credentials
	err := bindRequest(w, r, &creds, func(form url.Values) {
		creds.Username = form.Get("username")
		creds.Password = form.Get("password")
	})
	return creds, err
}
