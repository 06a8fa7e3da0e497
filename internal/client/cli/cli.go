// Package cli implements the commands of the gophnotes terminal client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/gophnotes/internal/client/api"
	"github.com/iudanet/gophnotes/internal/client/iocli"
	"github.com/iudanet/gophnotes/internal/client/storage"
	"github.com/iudanet/gophnotes/internal/models"
	pkgapi "github.com/iudanet/gophnotes/pkg/api"
)

// PasswordEnv is the environment variable checked first for the account password
const PasswordEnv = "GOPHNOTES_PASSWORD"

var (
	errNotAuthenticated = errors.New("not authenticated. Please run 'gophnotes login' first")
	errSessionExpired   = errors.New("session expired. Please run 'gophnotes login' again")
)

// NotesAPI is the server API used by the commands
type NotesAPI interface {
	Register(ctx context.Context, username, password string) (*pkgapi.SignUpData, error)
	Login(ctx context.Context, username, password string) (*api.Session, error)
	Logout(ctx context.Context, token string) error
	CreateNote(ctx context.Context, token string, req pkgapi.CreateNoteRequest) (*models.Note, error)
	GetNote(ctx context.Context, token, noteID string) (*pkgapi.NoteView, error)
	ShareNote(ctx context.Context, token, noteID, username string) (string, error)
	Home(ctx context.Context, token string) (*pkgapi.HomeView, error)
}

// Passwords are the non-interactive password sources
type Passwords struct {
	FromFile string
	FromArgs string
}

// Options configures the client
type Options struct {
	ServerURL string
	Passwords Passwords
}

// Cli runs client commands against one server
type Cli struct {
	io        iocli.IO
	apiClient NotesAPI
	sessions  storage.SessionStorage
	now       func() time.Time
	serverURL string
	passwords Passwords
}

// New creates the command runner
func New(io iocli.IO, apiClient NotesAPI, sessions storage.SessionStorage, opts Options) *Cli {
	return &Cli{
		io:        io,
		apiClient: apiClient,
		sessions:  sessions,
		now:       time.Now,
		serverURL: opts.ServerURL,
		passwords: opts.Passwords,
	}
}

// Run executes the command with its positional arguments
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "create":
		return c.runCreate(ctx, args)
	case "get":
		return c.runGet(ctx, args)
	case "share":
		return c.runShare(ctx, args)
	case "list":
		return c.runList(ctx)
	default:
		PrintUsage(c.io)
		return fmt.Errorf("unknown command: %s", command)
	}
}

// session returns the stored session if it is usable against the configured server
func (c *Cli) session(ctx context.Context) (*storage.SessionData, error) {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, errNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Expired(c.now()) {
		return nil, errSessionExpired
	}

	if session.ServerURL != "" && c.serverURL != "" && session.ServerURL != c.serverURL {
		return nil, fmt.Errorf("logged in to %s, not %s. Please run 'gophnotes login' again", session.ServerURL, c.serverURL)
	}

	return session, nil
}

// apiError drops the local session when the server no longer accepts its token
func (c *Cli) apiError(ctx context.Context, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		if delErr := c.sessions.DeleteSession(ctx); delErr != nil && !errors.Is(delErr, storage.ErrSessionNotFound) {
			c.io.Printf("Warning: failed to delete local session: %v\n", delErr)
		}
	}
	return err
}

// getPassword retrieves the password from various sources with priority:
// 1. Environment variable GOPHNOTES_PASSWORD
// 2. File specified in --password-file
// 3. Command-line parameter --password
// 4. Interactive prompt (fallback)
// interactive reports whether the prompt was used.
func (c *Cli) getPassword(prompt string) (password string, interactive bool, err error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, false, nil
	}

	// Priority 2: File
	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", false, fmt.Errorf("password file is empty")
		}
		return password, false, nil
	}

	// Priority 3: CLI parameter
	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, false, nil
	}

	// Priority 4: Interactive prompt (fallback)
	password, err = c.io.ReadPassword(prompt)
	if err != nil {
		return "", true, fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", true, fmt.Errorf("password cannot be empty")
	}

	return password, true, nil
}

// PrintUsage prints the command reference
func PrintUsage(out iocli.IO) {
	out.Println("GophNotes Client")
	out.Println()
	out.Println("Usage:")
	out.Println("  gophnotes [OPTIONS] COMMAND [ARGS]")
	out.Println()
	out.Println("Options:")
	out.Println("  --version              Show version information")
	out.Println("  --server URL           Server URL (default: http://localhost:8080)")
	out.Println("  --db PATH              Path to local session database (default: gophnotes-client.db)")
	out.Println("  --password PASSWORD    Account password (not recommended, use env var or file)")
	out.Println("  --password-file PATH   Path to file containing the account password")
	out.Println()
	out.Println("Password Priority (highest to lowest):")
	out.Println("  1. " + PasswordEnv + " environment variable")
	out.Println("  2. --password-file (file path)")
	out.Println("  3. --password (command line)")
	out.Println("  4. Interactive prompt (fallback)")
	out.Println()
	out.Println("Commands:")
	out.Println("  register                Register new user")
	out.Println("  login                   Login to server")
	out.Println("  logout                  Logout and delete the local session")
	out.Println("  status                  Show authentication status")
	out.Println("  create [title]          Create a note")
	out.Println("  get <id>                Show a note")
	out.Println("  share <id> <user>       Let another user read your note")
	out.Println("  list                    List your notes and notes shared with you")
	out.Println()
	out.Println("Examples:")
	out.Println("  gophnotes register")
	out.Println("  gophnotes login")
	out.Println("  gophnotes create Groceries")
	out.Println("  gophnotes share b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5 bob")
	out.Println("  gophnotes --server https://notes.example.com list")
}
