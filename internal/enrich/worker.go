// Package enrich reconciles locally-known titles against TMDB. The worker
// picks up every record without a tmdb_id, searches by title (no year: the
// ingested year is not reliable enough to narrow by), and writes the first
// match's payload back onto the record.
package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/whichfilm/reelfeed/internal/models"
	"github.com/whichfilm/reelfeed/internal/repository"
	"github.com/whichfilm/reelfeed/internal/tmdb"
)

// Store is the slice of the movie repository the worker needs.
type Store interface {
	ListUnenriched() ([]*models.Movie, error)
	UpdateEnrichment(id uuid.UUID, e repository.EnrichmentUpdate) error
}

// Lookup is the catalog search boundary, implemented by tmdb.Client.
type Lookup interface {
	Search(ctx context.Context, title string, year *int) (*tmdb.Movie, error)
}

// Summary counts one enrichment run. Errored tracks per-record lookup or
// persistence failures, distinct from a clean "not in the catalog" miss.
type Summary struct {
	Enriched int `json:"enriched"`
	NotFound int `json:"not_found"`
	Errored  int `json:"errored"`
}

type Worker struct {
	store  Store
	lookup Lookup
}

func NewWorker(store Store, lookup Lookup) *Worker {
	return &Worker{store: store, lookup: lookup}
}

// Run enriches every unenriched record. An empty selection returns
// immediately without a single lookup call. Per-record failures are logged
// and counted; they never abort the batch.
func (w *Worker) Run(ctx context.Context) (Summary, error) {
	movies, err := w.store.ListUnenriched()
	if err != nil {
		return Summary{}, err
	}
	if len(movies) == 0 {
		log.Info().Msg("enrich: no unenriched movies")
		return Summary{}, nil
	}

	log.Info().Int("count", len(movies)).Msg("enrich: starting run")

	var sum Summary
	for _, m := range movies {
		result, err := w.lookup.Search(ctx, m.Title, nil)
		if err != nil {
			log.Error().Err(err).Str("title", m.Title).Msg("enrich: lookup failed")
			sum.Errored++
			continue
		}
		if result == nil {
			log.Info().Str("title", m.Title).Msg("enrich: not found on tmdb")
			sum.NotFound++
			continue
		}

		if err := w.store.UpdateEnrichment(m.ID, toUpdate(result)); err != nil {
			log.Error().Err(err).Str("title", m.Title).Msg("enrich: update failed")
			sum.Errored++
			continue
		}
		sum.Enriched++
		log.Info().Str("title", m.Title).Int("tmdb_id", result.ID).Msg("enrich: matched")
	}

	log.Info().
		Int("enriched", sum.Enriched).
		Int("not_found", sum.NotFound).
		Int("errored", sum.Errored).
		Msg("enrich: run completed")
	return sum, nil
}

// toUpdate maps a TMDB result onto the persistence payload. Fields TMDB
// omitted stay NULL individually; one missing field never rejects the update.
func toUpdate(m *tmdb.Movie) repository.EnrichmentUpdate {
	e := repository.EnrichmentUpdate{TMDBID: m.ID}
	if m.IMDBID != "" {
		e.IMDBID = &m.IMDBID
	}
	if m.Overview != "" {
		e.Overview = &m.Overview
	}
	if m.PosterPath != "" {
		e.PosterPath = &m.PosterPath
	}
	if m.BackdropPath != "" {
		e.BackdropPath = &m.BackdropPath
	}
	if m.ReleaseDate != "" {
		if d, err := time.Parse("2006-01-02", m.ReleaseDate); err == nil {
			e.ReleaseDate = &d
		}
	}
	return e
}
