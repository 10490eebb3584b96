package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jusunglee/polonizacyja/internal/db"
	"github.com/jusunglee/polonizacyja/internal/db/postgres"
	"github.com/jusunglee/polonizacyja/internal/db/sqlite"
	"github.com/jusunglee/polonizacyja/internal/metrics"
)

// openRepository picks the backend from the URL scheme. Anything that is not
// postgres:// or postgresql:// is treated as a SQLite path.
func openRepository(ctx context.Context, url string, log *slog.Logger) (db.Repository, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		repo, err := postgres.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("creating PostgreSQL connection: %w", err)
		}
		log.InfoContext(ctx, "connected to PostgreSQL database")
		go exportPoolStats(ctx, repo)
		return repo, nil
	}

	repo, err := sqlite.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	log.InfoContext(ctx, "opened SQLite database", "path", strings.TrimPrefix(url, "sqlite://"))
	return repo, nil
}

// exportPoolStats periodically copies pgxpool stats into Prometheus gauges.
func exportPoolStats(ctx context.Context, repo *postgres.Repository) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s := repo.Stat()
			metrics.DBPoolTotalConns.Set(float64(s.TotalConns()))
			metrics.DBPoolIdleConns.Set(float64(s.IdleConns()))
			metrics.DBPoolAcquiredConns.Set(float64(s.AcquiredConns()))
		case <-ctx.Done():
			return
		}
	}
}

// runRetention deletes saved transliterations older than maxAge, once at
// start and then every interval.
func runRetention(ctx context.Context, repo db.Repository, log *slog.Logger, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		pruneOnce(ctx, repo, log, maxAge)
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func pruneOnce(ctx context.Context, repo db.Repository, log *slog.Logger, maxAge time.Duration) int64 {
	pruneCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	deleted, err := repo.DeleteOldTransliterations(pruneCtx, time.Now().Add(-maxAge))
	if err != nil {
		log.ErrorContext(ctx, "deleting old transliterations", "error", err)
		return 0
	}
	if deleted > 0 {
		metrics.RetentionDeleted.Add(float64(deleted))
		log.InfoContext(ctx, "deleted old transliterations", "count", deleted)
	}
	return deleted
}
