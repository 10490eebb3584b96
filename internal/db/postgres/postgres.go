package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/polonizacyja/internal/db"
)

//go:embed schema.sql
var schemaSQL string

// Repository implements db.Repository using PostgreSQL via pgx
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL repository and applies the schema.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	config.MaxConns = 5
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 30 * time.Second
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Stat exposes pool statistics for the metrics ticker.
func (r *Repository) Stat() *pgxpool.Stat {
	return r.pool.Stat()
}

func (r *Repository) CreateTransliteration(ctx context.Context, arg db.CreateTransliterationParams) (db.Transliteration, error) {
	if err := arg.Validate(); err != nil {
		return db.Transliteration{}, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transliterations (source_text, result_text, polish_exceptions, serbian_soft_consonants, suffix_rules)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, source_text, result_text, polish_exceptions, serbian_soft_consonants, suffix_rules, created_at
	`, arg.SourceText, arg.ResultText, arg.PolishExceptions, arg.SerbianSoftConsonants, arg.SuffixRules)

	t, err := scanTransliteration(row)
	if err != nil {
		return db.Transliteration{}, fmt.Errorf("inserting transliteration: %w", err)
	}
	return t, nil
}

func (r *Repository) GetTransliteration(ctx context.Context, id int64) (db.Transliteration, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, source_text, result_text, polish_exceptions, serbian_soft_consonants, suffix_rules, created_at
		FROM transliterations
		WHERE id = $1
	`, id)
	return scanTransliteration(row)
}

func (r *Repository) ListTransliterations(ctx context.Context, arg db.ListTransliterationsParams) ([]db.Transliteration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, source_text, result_text, polish_exceptions, serbian_soft_consonants, suffix_rules, created_at
		FROM transliterations
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.Transliteration, error) {
		return scanTransliteration(row)
	})
}

func (r *Repository) CountTransliterations(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transliterations`).Scan(&count)
	return count, err
}

func (r *Repository) DeleteOldTransliterations(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transliterations WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanTransliteration(row pgx.Row) (db.Transliteration, error) {
	var t db.Transliteration
	err := row.Scan(&t.ID, &t.SourceText, &t.ResultText, &t.PolishExceptions,
		&t.SerbianSoftConsonants, &t.SuffixRules, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.Transliteration{}, db.ErrNoRows
	}
	return t, err
}
