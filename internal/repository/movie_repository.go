package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/whichfilm/reelfeed/internal/models"
)

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// movieColumns is the standard SELECT list for movies
const movieColumns = `id, title, original_title, tmdb_id, imdb_id, source, video_id,
	overview, release_date, poster_path, backdrop_path, created_at, updated_at`

func scanMovie(row interface{ Scan(dest ...interface{}) error }) (*models.Movie, error) {
	m := &models.Movie{}
	err := row.Scan(
		&m.ID, &m.Title, &m.OriginalTitle, &m.TMDBID, &m.IMDBID, &m.Source, &m.VideoID,
		&m.Overview, &m.ReleaseDate, &m.PosterPath, &m.BackdropPath, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (duplicate tmdb_id/imdb_id/video_id).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *MovieRepository) Create(m *models.Movie) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `
		INSERT INTO movies (id, title, original_title, source, video_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query, m.ID, m.Title, m.OriginalTitle, m.Source, m.VideoID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *MovieRepository) GetByID(id uuid.UUID) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	m, err := scanMovie(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// GetByTitle matches by exact, case-sensitive title.
func (r *MovieRepository) GetByTitle(title string) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE title = $1`
	m, err := scanMovie(r.db.QueryRow(query, title))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *MovieRepository) GetByVideoID(videoID string) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE video_id = $1`
	m, err := scanMovie(r.db.QueryRow(query, videoID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// UpsertByVideoID creates the record or refreshes title/original_title/source
// on re-ingestion of a known video. Returns true when a new row was created.
func (r *MovieRepository) UpsertByVideoID(m *models.Movie) (bool, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `
		INSERT INTO movies (id, title, original_title, source, video_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (video_id) WHERE video_id IS NOT NULL DO UPDATE SET
			title = EXCLUDED.title,
			original_title = EXCLUDED.original_title,
			source = EXCLUDED.source,
			updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0)`
	// xmax = 0 distinguishes a fresh insert from a conflict update.
	var created bool
	err := r.db.QueryRow(query, m.ID, m.Title, m.OriginalTitle, m.Source, m.VideoID).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &created)
	return created, err
}

// CreateIfTitleAbsent inserts the record unless a movie with the exact same
// title already exists. Known titles are skipped, never updated. Returns true
// when a new row was created.
func (r *MovieRepository) CreateIfTitleAbsent(m *models.Movie) (bool, error) {
	existing, err := r.GetByTitle(m.Title)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if err := r.Create(m); err != nil {
		return false, err
	}
	return true, nil
}

// ListUnenriched returns every movie not yet matched against TMDB. Absent
// tmdb_id is the complete selection criterion; there is no staleness or
// retry-count filtering.
func (r *MovieRepository) ListUnenriched() ([]*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE tmdb_id IS NULL ORDER BY created_at`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *MovieRepository) CountUnenriched() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM movies WHERE tmdb_id IS NULL`).Scan(&n)
	return n, err
}

// EnrichmentUpdate carries the TMDB payload written onto an existing record.
// Nil fields are written as NULL; a missing field never rejects the update.
type EnrichmentUpdate struct {
	TMDBID       int
	IMDBID       *string
	Overview     *string
	ReleaseDate  *time.Time
	PosterPath   *string
	BackdropPath *string
}

func (r *MovieRepository) UpdateEnrichment(id uuid.UUID, e EnrichmentUpdate) error {
	query := `
		UPDATE movies SET
			tmdb_id = $2,
			imdb_id = $3,
			overview = $4,
			release_date = $5,
			poster_path = $6,
			backdrop_path = $7,
			updated_at = now()
		WHERE id = $1`
	_, err := r.db.Exec(query, id, e.TMDBID, e.IMDBID, e.Overview, e.ReleaseDate, e.PosterPath, e.BackdropPath)
	return err
}

// List returns movies newest first.
func (r *MovieRepository) List(limit, offset int) ([]*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
