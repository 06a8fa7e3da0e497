package handlers

import (
	"context"

	"github.com/iudanet/gophnotes/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// UserIDKey ключ для хранения user_id в контексте
	UserIDKey contextKey = "user_id"
	// UsernameKey ключ для хранения username в контексте
	UsernameKey contextKey = "username"
)

// WithPrincipal returns a context carrying the authenticated user
func WithPrincipal(ctx context.Context, userID, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUserID извлекает user_id из контекста запроса
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUsername извлекает username из контекста запроса
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// PrincipalFrom returns the authenticated user stored by the auth middleware
func PrincipalFrom(ctx context.Context) (models.PublicUser, bool) {
	userID, ok := GetUserID(ctx)
	if !ok || userID == "" {
		return models.PublicUser{}, false
	}
	username, _ := GetUsername(ctx)
	return models.PublicUser{ID: userID, Username: username}, true
}
