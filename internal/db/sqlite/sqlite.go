package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jusunglee/polonizacyja/internal/db"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Timestamps are stored as fixed-width UTC text so that string comparison
// orders them chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Repository implements db.Repository using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite repository
func New(ctx context.Context, dbPath string) (*Repository, error) {
	// Strip sqlite:// prefix if present
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	// One writer; also keeps ":memory:" databases on a single connection.
	sqliteDB.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			sqliteDB.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	slog.Debug("opened SQLite database", "path", dbPath)

	return &Repository{db: sqliteDB, now: time.Now}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) CreateTransliteration(ctx context.Context, arg db.CreateTransliterationParams) (db.Transliteration, error) {
	if err := arg.Validate(); err != nil {
		return db.Transliteration{}, err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO transliterations (source_text, result_text, polish_exceptions, serbian_soft_consonants, suffix_rules, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, arg.SourceText, arg.ResultText, boolToInt(arg.PolishExceptions), boolToInt(arg.SerbianSoftConsonants),
		arg.SuffixRules, formatTime(r.now()))
	if err != nil {
		return db.Transliteration{}, fmt.Errorf("inserting transliteration: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return db.Transliteration{}, err
	}

	return r.GetTransliteration(ctx, id)
}

func (r *Repository) GetTransliteration(ctx context.Context, id int64) (db.Transliteration, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_text, result_text, polish_exceptions, serbian_soft_consonants, suffix_rules, created_at
		FROM transliterations
		WHERE id = ?
	`, id)

	return scanTransliteration(row)
}

func (r *Repository) ListTransliterations(ctx context.Context, arg db.ListTransliterationsParams) ([]db.Transliteration, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_text, result_text, polish_exceptions, serbian_soft_consonants, suffix_rules, created_at
		FROM transliterations
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []db.Transliteration
	for rows.Next() {
		t, err := scanTransliteration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) CountTransliterations(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transliterations`).Scan(&count)
	return count, err
}

func (r *Repository) DeleteOldTransliterations(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM transliterations WHERE created_at < ?
	`, formatTime(before))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransliteration(row scanner) (db.Transliteration, error) {
	var t db.Transliteration
	var polish, serbian int
	var createdAtStr string
	err := row.Scan(&t.ID, &t.SourceText, &t.ResultText, &polish, &serbian, &t.SuffixRules, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Transliteration{}, db.ErrNoRows
	}
	if err != nil {
		return db.Transliteration{}, err
	}
	t.PolishExceptions = polish != 0
	t.SerbianSoftConsonants = serbian != 0
	t.CreatedAt, err = time.Parse(timestampLayout, createdAtStr)
	if err != nil {
		return db.Transliteration{}, fmt.Errorf("parsing created_at %q: %w", createdAtStr, err)
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
