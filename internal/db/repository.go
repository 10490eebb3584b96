package db

import (
	"context"
	"time"
)

// Transliteration is a saved input/output pair together with the options
// that produced it.
type Transliteration struct {
	ID                    int64
	SourceText            string
	ResultText            string
	PolishExceptions      bool
	SerbianSoftConsonants bool
	SuffixRules           string
	CreatedAt             time.Time
}

type CreateTransliterationParams struct {
	SourceText            string
	ResultText            string
	PolishExceptions      bool
	SerbianSoftConsonants bool
	SuffixRules           string
}

type ListTransliterationsParams struct {
	Limit  int32
	Offset int32
}

// Repository defines the interface for database operations
type Repository interface {
	CreateTransliteration(ctx context.Context, arg CreateTransliterationParams) (Transliteration, error)
	GetTransliteration(ctx context.Context, id int64) (Transliteration, error)
	ListTransliterations(ctx context.Context, arg ListTransliterationsParams) ([]Transliteration, error)
	CountTransliterations(ctx context.Context) (int64, error)

	// Retention
	DeleteOldTransliterations(ctx context.Context, before time.Time) (int64, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
