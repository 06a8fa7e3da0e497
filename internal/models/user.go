package models

import "time"

// User представляет зарегистрированного пользователя
type User struct {
	ID           string    `json:"id"`        // UUID пользователя
	Username     string    `json:"username"`  // уникальный username
	PasswordHash string    `json:"-"`         // bcrypt хеш пароля, наружу не отдается
	CreatedAt    time.Time `json:"createdAt"` // время регистрации
}

// PublicUser is the part of a user that may be shown to other users.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public returns the public projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
