package models

import (
	"time"

	"github.com/google/uuid"
)

// ──────────────────── Enums ────────────────────

// Source identifies which channel a movie record was first ingested from.
type Source string

const (
	SourceRottenTomatoes Source = "rotten_tomatoes"
	SourceMubi           Source = "mubi"
)

// Valid reports whether s is one of the known ingestion sources.
func (s Source) Valid() bool {
	return s == SourceRottenTomatoes || s == SourceMubi
}

// ──────────────────── Movie ────────────────────

// Movie is the canonical record built from trailer ingestion and filled in
// by TMDB enrichment. TMDBID and IMDBID are unique when present; the store
// enforces that, and a conflicting write fails rather than overwriting.
type Movie struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	OriginalTitle *string   `json:"original_title,omitempty" db:"original_title"`

	TMDBID *int    `json:"tmdb_id,omitempty" db:"tmdb_id"`
	IMDBID *string `json:"imdb_id,omitempty" db:"imdb_id"`

	Source  Source  `json:"source" db:"source"`
	VideoID *string `json:"video_id,omitempty" db:"video_id"`

	Overview     *string    `json:"overview,omitempty" db:"overview"`
	ReleaseDate  *time.Time `json:"release_date,omitempty" db:"release_date"`
	PosterPath   *string    `json:"poster_path,omitempty" db:"poster_path"`
	BackdropPath *string    `json:"backdrop_path,omitempty" db:"backdrop_path"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Enriched reports whether the record has already been matched against TMDB.
func (m *Movie) Enriched() bool {
	return m.TMDBID != nil
}
