package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// MaxTextBytes bounds the source text a saved transliteration may hold.
const MaxTextBytes = 64 << 10

var (
	// ErrNoRows is returned when a query returns no rows
	ErrNoRows = errors.New("no rows in result set")
	// ErrTextTooLarge is returned for source text over MaxTextBytes.
	ErrTextTooLarge = fmt.Errorf("source text exceeds %d bytes", MaxTextBytes)
)

// IsNoRows returns true if the error indicates no rows were found.
// Works with pgx, database/sql, and the package's own ErrNoRows.
func IsNoRows(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNoRows) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, pgx.ErrNoRows)
}

// Validate checks params before they reach a backend.
func (p CreateTransliterationParams) Validate() error {
	if p.SourceText == "" {
		return errors.New("source text is required")
	}
	if len(p.SourceText) > MaxTextBytes {
		return ErrTextTooLarge
	}
	return nil
}
