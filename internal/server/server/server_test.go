package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := New(handler, Config{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, logger)
	require.NoError(t, srv.Listen())
	return srv
}

func TestServer_ServesUntilContextCancelled(t *testing.T) {
	srv := setupTestServer(t)

	var order []string
	srv.OnShutdown("database", func(ctx context.Context) error {
		order = append(order, "database")
		return nil
	})
	srv.OnShutdown("cache", func(ctx context.Context) error {
		order = append(order, "cache")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	// LIFO: последний зарегистрированный останавливается первым
	assert.Equal(t, []string{"cache", "database"}, order)
}

func TestServer_ShutdownErrorsAreReported(t *testing.T) {
	srv := setupTestServer(t)

	boom := errors.New("close failed")
	called := false
	srv.OnShutdown("database", func(ctx context.Context) error {
		called = true
		return nil
	})
	srv.OnShutdown("cache", func(ctx context.Context) error {
		return boom
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := srv.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "cache")
	assert.True(t, called, "remaining components still stop after an error")
}

func TestServer_ListenError(t *testing.T) {
	first := setupTestServer(t)
	t.Cleanup(func() { _ = first.listener.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	second := New(http.NotFoundHandler(), Config{Addr: first.Addr(), ShutdownTimeout: time.Second}, logger)

	err := second.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
