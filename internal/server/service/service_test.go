package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/gophnotes/internal/models"
	"github.com/iudanet/gophnotes/internal/server/storage/sqlite"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func setupTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()

	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

type testEnv struct {
	storage *sqlite.Storage
	auth    *AuthService
	notes   *NoteService
	cache   *fakeACLCache
}

func setupTestEnv(t *testing.T, strict bool, withCache bool) *testEnv {
	t.Helper()

	logger := setupTestLogger()
	s := setupTestStorage(t)

	env := &testEnv{storage: s}
	var cache ACLCache
	if withCache {
		env.cache = newFakeACLCache()
		cache = env.cache
	}

	env.auth = NewAuthService(logger, s, nil).WithCost(bcrypt.MinCost)
	env.notes = NewNoteService(logger, s, s, s, cache, nil, NoteServiceConfig{StrictAccess: strict})

	return env
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), username, "pw-"+username)
	require.NoError(t, err)
	return user
}

// fakeACLCache is an in-memory ACLCache for testing
type fakeACLCache struct {
	entries     map[string][]string
	generations map[string]int
	getErr      error
	// beforeSet runs between the database read and the cache write
	beforeSet   func()
	gets        int
	invalidated []string
	mu          sync.Mutex
}

func newFakeACLCache() *fakeACLCache {
	return &fakeACLCache{
		entries:     make(map[string][]string),
		generations: make(map[string]int),
	}
}

func (c *fakeACLCache) GetViewers(ctx context.Context, noteID string) ([]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	viewers, ok := c.entries[noteID]
	return viewers, ok, nil
}

func (c *fakeACLCache) Generation(ctx context.Context, noteID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strconv.Itoa(c.generations[noteID]), nil
}

func (c *fakeACLCache) SetViewers(ctx context.Context, noteID, gen string, viewers []string) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if strconv.Itoa(c.generations[noteID]) != gen {
		return nil
	}
	c.entries[noteID] = viewers
	return nil
}

func (c *fakeACLCache) Invalidate(ctx context.Context, noteID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, noteID)
	c.generations[noteID]++
	c.invalidated = append(c.invalidated, noteID)
	return nil
}

var errBoom = errors.New("database is locked")
