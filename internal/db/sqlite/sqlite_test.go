package sqlite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jusunglee/polonizacyja/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransliterationCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTransliteration(ctx, db.CreateTransliterationParams{
		SourceText:            "Чужой",
		ResultText:            "Čužoj",
		PolishExceptions:      true,
		SerbianSoftConsonants: true,
		SuffixRules:           "minimal",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Чужой", created.SourceText)
	assert.Equal(t, "Čužoj", created.ResultText)
	assert.True(t, created.PolishExceptions)
	assert.True(t, created.SerbianSoftConsonants)
	assert.Equal(t, "minimal", created.SuffixRules)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)

	got, err := repo.GetTransliteration(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	count, err := repo.CountTransliterations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetTransliterationNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetTransliteration(context.Background(), 42)
	assert.True(t, db.IsNoRows(err))
}

func TestCreateTransliterationValidates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateTransliteration(ctx, db.CreateTransliterationParams{})
	assert.Error(t, err)

	_, err = repo.CreateTransliteration(ctx, db.CreateTransliterationParams{
		SourceText: strings.Repeat("a", db.MaxTextBytes+1),
	})
	assert.ErrorIs(t, err, db.ErrTextTooLarge)

	count, err := repo.CountTransliterations(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListTransliterationsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	words := []string{"хлеб", "конь", "дядя"}
	for i, w := range words {
		repo.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		_, err := repo.CreateTransliteration(ctx, db.CreateTransliterationParams{SourceText: w, ResultText: w})
		require.NoError(t, err)
	}

	page, err := repo.ListTransliterations(ctx, db.ListTransliterationsParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "дядя", page[0].SourceText)
	assert.Equal(t, "конь", page[1].SourceText)

	page, err = repo.ListTransliterations(ctx, db.ListTransliterationsParams{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "хлеб", page[0].SourceText)
	assert.Equal(t, base, page[0].CreatedAt)
}

func TestDeleteOldTransliterations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	repo.now = func() time.Time { return now.Add(-48 * time.Hour) }
	_, err := repo.CreateTransliteration(ctx, db.CreateTransliterationParams{SourceText: "старик", ResultText: "staryk"})
	require.NoError(t, err)

	repo.now = func() time.Time { return now }
	fresh, err := repo.CreateTransliteration(ctx, db.CreateTransliterationParams{SourceText: "лес", ResultText: "les"})
	require.NoError(t, err)

	deleted, err := repo.DeleteOldTransliterations(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.ListTransliterations(ctx, db.ListTransliterationsParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
