package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophnotes/internal/client/api"
	"github.com/iudanet/gophnotes/internal/client/storage"
	"github.com/iudanet/gophnotes/internal/client/storage/boltdb"
	"github.com/iudanet/gophnotes/internal/models"
	pkgapi "github.com/iudanet/gophnotes/pkg/api"
)

const testServerURL = "http://localhost:8080"

// fakeIO отдает заранее заданный ввод и копит вывод
type fakeIO struct {
	inputs    []string
	passwords []string
	out       bytes.Buffer
}

func (f *fakeIO) Println(a ...any) {
	_, _ = fmt.Fprintln(&f.out, a...)
}

func (f *fakeIO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(&f.out, format, a...)
}

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	next := f.inputs[0]
	f.inputs = f.inputs[1:]
	return next, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	if len(f.passwords) == 0 {
		return "", io.EOF
	}
	next := f.passwords[0]
	f.passwords = f.passwords[1:]
	return next, nil
}

func (f *fakeIO) Write(p []byte) (int, error) {
	return f.out.Write(p)
}

// fakeAPI подменяет сервер; незаданные методы падают тест
type fakeAPI struct {
	t          *testing.T
	register   func(username, password string) (*pkgapi.SignUpData, error)
	login      func(username, password string) (*api.Session, error)
	logout     func(token string) error
	createNote func(token string, req pkgapi.CreateNoteRequest) (*models.Note, error)
	getNote    func(token, noteID string) (*pkgapi.NoteView, error)
	shareNote  func(token, noteID, username string) (string, error)
	home       func(token string) (*pkgapi.HomeView, error)
}

func (f *fakeAPI) Register(_ context.Context, username, password string) (*pkgapi.SignUpData, error) {
	require.NotNil(f.t, f.register, "unexpected Register call")
	return f.register(username, password)
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (*api.Session, error) {
	require.NotNil(f.t, f.login, "unexpected Login call")
	return f.login(username, password)
}

func (f *fakeAPI) Logout(_ context.Context, token string) error {
	require.NotNil(f.t, f.logout, "unexpected Logout call")
	return f.logout(token)
}

func (f *fakeAPI) CreateNote(_ context.Context, token string, req pkgapi.CreateNoteRequest) (*models.Note, error) {
	require.NotNil(f.t, f.createNote, "unexpected CreateNote call")
	return f.createNote(token, req)
}

func (f *fakeAPI) GetNote(_ context.Context, token, noteID string) (*pkgapi.NoteView, error) {
	require.NotNil(f.t, f.getNote, "unexpected GetNote call")
	return f.getNote(token, noteID)
}

func (f *fakeAPI) ShareNote(_ context.Context, token, noteID, username string) (string, error) {
	require.NotNil(f.t, f.shareNote, "unexpected ShareNote call")
	return f.shareNote(token, noteID, username)
}

func (f *fakeAPI) Home(_ context.Context, token string) (*pkgapi.HomeView, error) {
	require.NotNil(f.t, f.home, "unexpected Home call")
	return f.home(token)
}

type testEnv struct {
	cli      *Cli
	io       *fakeIO
	api      *fakeAPI
	sessions *boltdb.Storage
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sessions, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sessions.Close())
	})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions.WithClock(func() time.Time { return now })

	fio := &fakeIO{}
	fapi := &fakeAPI{t: t}
	c := New(fio, fapi, sessions, Options{ServerURL: testServerURL})
	c.now = func() time.Time { return now }

	return &testEnv{cli: c, io: fio, api: fapi, sessions: sessions, now: now}
}

// loggedIn сохраняет действующую сессию
func (e *testEnv) loggedIn(t *testing.T) {
	t.Helper()
	require.NoError(t, e.sessions.SaveSession(context.Background(), &storage.SessionData{
		Username:  "alice",
		ServerURL: testServerURL,
		Token:     "token-1",
		ExpiresAt: e.now.Add(time.Hour),
	}))
}

func TestRun_UnknownCommand(t *testing.T) {
	env := newTestEnv(t)

	err := env.cli.Run(context.Background(), "sync", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command: sync")
	assert.Contains(t, env.io.out.String(), "Commands:")
}

func TestGetPassword_Priority(t *testing.T) {
	dir := t.TempDir()
	passwordFile := filepath.Join(dir, "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("file_password\n"), 0600))

	emptyFile := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(emptyFile, []byte("\n"), 0600))

	tests := []struct {
		name            string
		env             string
		passwords       Passwords
		prompt          []string
		want            string
		wantErr         bool
		wantInteractive bool
	}{
		{
			name:      "env over file and args",
			env:       "env_password",
			passwords: Passwords{FromFile: passwordFile, FromArgs: "cli_password"},
			want:      "env_password",
		},
		{
			name:      "file over args",
			passwords: Passwords{FromFile: passwordFile, FromArgs: "cli_password"},
			want:      "file_password",
		},
		{
			name:      "args",
			passwords: Passwords{FromArgs: "cli_password"},
			want:      "cli_password",
		},
		{
			name:            "interactive fallback",
			prompt:          []string{"typed_password"},
			want:            "typed_password",
			wantInteractive: true,
		},
		{
			name:      "empty file",
			passwords: Passwords{FromFile: emptyFile},
			wantErr:   true,
		},
		{
			name:      "missing file",
			passwords: Passwords{FromFile: filepath.Join(dir, "missing")},
			wantErr:   true,
		},
		{
			name:            "empty prompt",
			prompt:          []string{""},
			wantErr:         true,
			wantInteractive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(PasswordEnv, tt.env)

			fio := &fakeIO{passwords: tt.prompt}
			c := New(fio, nil, nil, Options{Passwords: tt.passwords})

			got, interactive, err := c.getPassword("Password: ")

			assert.Equal(t, tt.wantInteractive, interactive)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	t.Setenv(PasswordEnv, "")
	env := newTestEnv(t)
	env.io.inputs = []string{"alice"}
	env.io.passwords = []string{"secret", "secret"}
	env.api.register = func(username, password string) (*pkgapi.SignUpData, error) {
		assert.Equal(t, "alice", username)
		assert.Equal(t, "secret", password)
		return &pkgapi.SignUpData{ID: "user-1", Username: username}, nil
	}

	require.NoError(t, env.cli.Run(context.Background(), "register", nil))

	out := env.io.out.String()
	assert.Contains(t, out, "Registration successful")
	assert.Contains(t, out, "User ID: user-1")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	t.Setenv(PasswordEnv, "")
	env := newTestEnv(t)
	env.io.inputs = []string{"alice"}
	env.io.passwords = []string{"secret", "other"}

	err := env.cli.Run(context.Background(), "register", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")
}

func TestRegister_NonInteractiveSkipsConfirmation(t *testing.T) {
	t.Setenv(PasswordEnv, "env_password")
	env := newTestEnv(t)
	env.io.inputs = []string{"alice"}
	env.api.register = func(username, password string) (*pkgapi.SignUpData, error) {
		assert.Equal(t, "env_password", password)
		return &pkgapi.SignUpData{ID: "user-1", Username: username}, nil
	}

	require.NoError(t, env.cli.Run(context.Background(), "register", nil))
}

func TestRegister_EmptyUsername(t *testing.T) {
	t.Setenv(PasswordEnv, "secret")
	env := newTestEnv(t)
	env.io.inputs = []string{""}

	err := env.cli.Run(context.Background(), "register", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username can't be empty")
}

func TestRegister_Rejected(t *testing.T) {
	t.Setenv(PasswordEnv, "secret")
	env := newTestEnv(t)
	env.io.inputs = []string{"alice"}
	env.api.register = func(string, string) (*pkgapi.SignUpData, error) {
		return nil, fmt.Errorf("%w: username must be unique", api.ErrRejected)
	}

	err := env.cli.Run(context.Background(), "register", nil)

	assert.ErrorIs(t, err, api.ErrRejected)
}

func TestLogin_SavesSession(t *testing.T) {
	t.Setenv(PasswordEnv, "")
	env := newTestEnv(t)
	env.io.inputs = []string{"alice"}
	env.io.passwords = []string{"secret"}
	expires := env.now.Add(24 * time.Hour)
	env.api.login = func(username, password string) (*api.Session, error) {
		assert.Equal(t, "alice", username)
		assert.Equal(t, "secret", password)
		return &api.Session{Token: "token-1", ExpiresAt: expires}, nil
	}

	require.NoError(t, env.cli.Run(context.Background(), "login", nil))

	session, err := env.sessions.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "token-1", session.Token)
	assert.Equal(t, testServerURL, session.ServerURL)
	assert.True(t, expires.Equal(session.ExpiresAt))
	assert.Contains(t, env.io.out.String(), "Login successful")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Setenv(PasswordEnv, "wrong")
	env := newTestEnv(t)
	env.io.inputs = []string{"alice"}
	env.api.login = func(string, string) (*api.Session, error) {
		return nil, fmt.Errorf("%w: Invalid Password", api.ErrInvalidCredentials)
	}

	err := env.cli.Run(context.Background(), "login", nil)

	require.ErrorIs(t, err, api.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Invalid Password")

	_, err = env.sessions.GetSession(context.Background())
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.loggedIn(t)
	called := false
	env.api.logout = func(token string) error {
		called = true
		assert.Equal(t, "token-1", token)
		return nil
	}

	require.NoError(t, env.cli.Run(context.Background(), "logout", nil))

	assert.True(t, called)
	_, err := env.sessions.GetSession(context.Background())
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestLogout_ServerFailureStillDeletesSession(t *testing.T) {
	env := newTestEnv(t)
	env.loggedIn(t)
	env.api.logout = func(string) error {
		return errors.New("connection refused")
	}

	require.NoError(t, env.cli.Run(context.Background(), "logout", nil))

	assert.Contains(t, env.io.out.String(), "Warning: server logout failed")
	_, err := env.sessions.GetSession(context.Background())
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestLogout_NotLoggedIn(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.cli.Run(context.Background(), "logout", nil))

	assert.Contains(t, env.io.out.String(), "Not logged in.")
}

func TestStatus(t *testing.T) {
	t.Run("not authenticated", func(t *testing.T) {
		env := newTestEnv(t)

		require.NoError(t, env.cli.Run(context.Background(), "status", nil))

		assert.Contains(t, env.io.out.String(), "Status: Not authenticated")
	})

	t.Run("authenticated", func(t *testing.T) {
		env := newTestEnv(t)
		env.loggedIn(t)

		require.NoError(t, env.cli.Run(context.Background(), "status", nil))

		out := env.io.out.String()
		assert.Contains(t, out, "Status: Authenticated")
		assert.Contains(t, out, "Username: alice")
		assert.Contains(t, out, "Time remaining: 1h0m0s")
	})

	t.Run("expired", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.sessions.SaveSession(context.Background(), &storage.SessionData{
			Username:  "alice",
			Token:     "token-1",
			ExpiresAt: env.now.Add(-time.Minute),
		}))

		require.NoError(t, env.cli.Run(context.Background(), "status", nil))

		assert.Contains(t, env.io.out.String(), "Status: Session expired")
	})
}
