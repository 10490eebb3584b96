package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jusunglee/polonizacyja/internal/db"
	"github.com/jusunglee/polonizacyja/internal/db/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpenRepositorySQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	repo, err := openRepository(ctx, "sqlite://"+path, discardLog)
	require.NoError(t, err)
	defer repo.Close()

	_, ok := repo.(*sqlite.Repository)
	assert.True(t, ok)
	assert.NoError(t, repo.Ping(ctx))
}

func TestPruneOnce(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.CreateTransliteration(ctx, db.CreateTransliterationParams{SourceText: "лес", ResultText: "les"})
	require.NoError(t, err)

	assert.Zero(t, pruneOnce(ctx, repo, discardLog, time.Hour), "fresh records are kept")
	assert.Equal(t, int64(1), pruneOnce(ctx, repo, discardLog, -time.Hour), "records older than the cutoff are removed")
}

func TestRunRetentionStops(t *testing.T) {
	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runRetention(ctx, repo, discardLog, time.Hour, time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("retention loop did not stop")
	}
}
