package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return &DB{db}, nil
}

// schema is applied on startup. The UNIQUE constraints on tmdb_id and imdb_id
// are the cross-job consistency mechanism: a write that would duplicate either
// ID fails at the store, it is never silently overwritten.
const schema = `
CREATE TABLE IF NOT EXISTS movies (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL CHECK (title <> ''),
	original_title TEXT,
	tmdb_id INTEGER UNIQUE,
	imdb_id TEXT UNIQUE,
	source TEXT NOT NULL,
	video_id TEXT,
	overview TEXT,
	release_date DATE,
	poster_path TEXT,
	backdrop_path TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS movies_video_id_idx ON movies (video_id) WHERE video_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS movies_tmdb_null_idx ON movies (created_at) WHERE tmdb_id IS NULL;
`

// Migrate creates the schema if it does not exist yet.
func Migrate(database *DB) error {
	if _, err := database.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
