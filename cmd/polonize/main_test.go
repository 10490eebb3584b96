package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jusunglee/polonizacyja/internal/transliteration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func defaultConfig() config {
	return config{opts: transliteration.DefaultOptions(), jobs: 2}
}

func TestRunStdin(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), discardLog, defaultConfig(), nil, strings.NewReader("Хлеб и конь\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "Chleb i konj\n", out.String())
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("Андрей"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("дядя"), 0o644))

	require.NoError(t, run(context.Background(), discardLog, defaultConfig(), []string{a, b}, nil, io.Discard))

	got, err := os.ReadFile(filepath.Join(dir, "a.pl.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Andrzej", string(got))

	got, err = os.ReadFile(filepath.Join(dir, "b.pl.txt"))
	require.NoError(t, err)
	assert.Equal(t, "dziadzia", string(got))
}

func TestRunOutDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "poem.txt")
	require.NoError(t, os.WriteFile(src, []byte("чужой"), 0o644))

	cfg := defaultConfig()
	cfg.opts.SerbianSoftConsonants = true
	cfg.outDir = filepath.Join(dir, "out")

	require.NoError(t, run(context.Background(), discardLog, cfg, []string{src}, nil, io.Discard))

	got, err := os.ReadFile(filepath.Join(dir, "out", "poem.pl.txt"))
	require.NoError(t, err)
	assert.Equal(t, "čužoj", string(got))
}

func TestRunMissingFile(t *testing.T) {
	err := run(context.Background(), discardLog, defaultConfig(), []string{filepath.Join(t.TempDir(), "nope.txt")}, nil, io.Discard)
	assert.ErrorContains(t, err, "opening")
}

func TestRunInvalidOptions(t *testing.T) {
	cfg := defaultConfig()
	cfg.opts.SuffixRules = "baroque"
	err := run(context.Background(), discardLog, cfg, nil, strings.NewReader(""), io.Discard)
	assert.ErrorIs(t, err, transliteration.ErrInvalidOptions)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("texts", "poem.pl.txt"), outputPath(filepath.Join("texts", "poem.txt"), ""))
	assert.Equal(t, "README.pl.txt", outputPath("README", ""))
	assert.Equal(t, filepath.Join("out", "poem.pl.txt"), outputPath(filepath.Join("texts", "poem.txt"), "out"))
}
