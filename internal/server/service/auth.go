package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/gophnotes/internal/metrics"
	"github.com/iudanet/gophnotes/internal/models"
	"github.com/iudanet/gophnotes/internal/server/storage"
	"github.com/iudanet/gophnotes/internal/validation"
)

// BcryptCost is the adaptive hash cost used for new passwords
const BcryptCost = 10

// User-facing messages of the credential store
const (
	MsgUsernameTaken   = "username must be unique"
	MsgInvalidUsername = "Invalid Username"
	MsgInvalidPassword = "Invalid Password"
)

// AuthService registers users and checks their credentials
type AuthService struct {
	logger  *slog.Logger
	users   storage.UserStorage
	metrics metrics.Recorder
	cost    int
}

// NewAuthService creates a new credential store service
func NewAuthService(logger *slog.Logger, users storage.UserStorage, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		logger:  logger,
		users:   users,
		metrics: recorder,
		cost:    BcryptCost,
	}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register validates the input, hashes the password and stores a new user
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, newError(KindValidation, err.Error(), err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, storeFailure("hash password", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.WarnContext(ctx, "user already exists", slog.String("username", username))
			return nil, newError(KindValidation, MsgUsernameTaken, err)
		}
		return nil, storeFailure("create user", err)
	}

	s.metrics.IncUserRegistered()
	s.logger.InfoContext(ctx, "user registered",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	return user, nil
}

// Verify checks the password of the named user.
// An unknown user and a wrong password are reported with different messages.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.metrics.IncLogin(metrics.LoginUnknownUser)
			s.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", username))
			return nil, newError(KindNotFound, MsgInvalidUsername, err)
		}
		return nil, storeFailure("get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.IncLogin(metrics.LoginWrongPassword)
		s.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", username))
		return nil, newError(KindInvalidCredentials, MsgInvalidPassword, err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)

	return user, nil
}
