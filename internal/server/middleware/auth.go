package middleware

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/gophnotes/internal/server/handlers"
	"github.com/iudanet/gophnotes/internal/server/jwt"
)

// TokenVerifier проверяет подпись и срок действия session токена
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена из cookie "auth".
// Запросы без валидного токена получают 401 и не доходят до handler.
func AuthMiddleware(logger *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwt.TokenFromRequest(r)
			if token == "" {
				logger.WarnContext(r.Context(), "missing auth cookie", slog.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(r.Context(), "invalid session token",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			ctx := handlers.WithPrincipal(r.Context(), claims.UserID, claims.Username)

			logger.DebugContext(ctx, "user authenticated",
				slog.String("user_id", claims.UserID),
				slog.String("username", claims.Username))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
