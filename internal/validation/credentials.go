package validation

import "errors"

const (
	// MaxUsernameLen соответствует VARCHAR(255) колонки users.username
	MaxUsernameLen = 255
	// MaxPasswordLen - bcrypt учитывает только первые 72 байта
	MaxPasswordLen = 72
)

// Validation errors. The messages are shown to the user as-is.
var (
	ErrEmptyUsername   = errors.New("Username can't be empty")
	ErrUsernameTooLong = errors.New("Username must not exceed 255 characters")
	ErrEmptyPassword   = errors.New("Password can't be empty")
	ErrPasswordTooLong = errors.New("Password must not exceed 72 bytes")
)

// ValidateUsername checks that a username can be stored
func ValidateUsername(username string) error {
	if username == "" {
		return ErrEmptyUsername
	}

	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}

	return nil
}

// ValidatePassword checks that a password can be hashed
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	if len(password) > MaxPasswordLen {
		return ErrPasswordTooLong
	}

	return nil
}

// ValidateCredentials validates a username/password pair, username first
func ValidateCredentials(username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return ValidatePassword(password)
}
