package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whichfilm/reelfeed/internal/models"
)

func newMockRepo(t *testing.T) (*MovieRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMovieRepository(db), mock
}

func TestUpsertByVideoID_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)

	vid := "dQw4w9WgXcQ"
	m := &models.Movie{
		Title:   "Bunny",
		Source:  models.SourceRottenTomatoes,
		VideoID: &vid,
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO movies")).
		WithArgs(sqlmock.AnyArg(), "Bunny", nil, "rotten_tomatoes", vid).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "?column?"}).
			AddRow(uuid.New().String(), now, now, true))

	created, err := repo.UpsertByVideoID(m)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByVideoID_ConflictUpdates(t *testing.T) {
	repo, mock := newMockRepo(t)

	vid := "abc123"
	m := &models.Movie{
		Title:   "Dune",
		Source:  models.SourceRottenTomatoes,
		VideoID: &vid,
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (video_id)")).
		WithArgs(sqlmock.AnyArg(), "Dune", nil, "rotten_tomatoes", vid).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "?column?"}).
			AddRow(uuid.New().String(), now.Add(-time.Hour), now, false))

	created, err := repo.UpsertByVideoID(m)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfTitleAbsent_SkipsKnownTitle(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{"id", "title", "original_title", "tmdb_id", "imdb_id", "source", "video_id",
		"overview", "release_date", "poster_path", "backdrop_path", "created_at", "updated_at"}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE title = $1")).
		WithArgs("Dune").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.New().String(), "Dune", nil, nil, nil, "rotten_tomatoes", nil,
				nil, nil, nil, nil, now, now))

	created, err := repo.CreateIfTitleAbsent(&models.Movie{Title: "Dune", Source: models.SourceRottenTomatoes})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfTitleAbsent_CreatesNewTitle(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{"id", "title", "original_title", "tmdb_id", "imdb_id", "source", "video_id",
		"overview", "release_date", "poster_path", "backdrop_path", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE title = $1")).
		WithArgs("Inception").
		WillReturnRows(sqlmock.NewRows(cols))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO movies")).
		WithArgs(sqlmock.AnyArg(), "Inception", nil, "mubi", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.CreateIfTitleAbsent(&models.Movie{Title: "Inception", Source: models.SourceMubi})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnenriched(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{"id", "title", "original_title", "tmdb_id", "imdb_id", "source", "video_id",
		"overview", "release_date", "poster_path", "backdrop_path", "created_at", "updated_at"}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE tmdb_id IS NULL")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.New().String(), "Dune", nil, nil, nil, "rotten_tomatoes", nil, nil, nil, nil, nil, now, now).
			AddRow(uuid.New().String(), "Bunny", nil, nil, nil, "mubi", nil, nil, nil, nil, nil, now, now))

	movies, err := repo.ListUnenriched()
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Dune", movies[0].Title)
	assert.False(t, movies[0].Enriched())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEnrichment(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	imdb := "tt0330373"
	overview := "Epic sci-fi..."
	release := time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE movies SET")).
		WithArgs(id.String(), 438631, imdb, overview, release, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateEnrichment(id, EnrichmentUpdate{
		TMDBID:      438631,
		IMDBID:      &imdb,
		Overview:    &overview,
		ReleaseDate: &release,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(assert.AnError))
	assert.False(t, IsUniqueViolation(nil))
}
