// Package ingest runs one source's ingestion pass: fetch the channel
// listing, clean titles, upsert accepted records.
package ingest

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/whichfilm/reelfeed/internal/models"
	"github.com/whichfilm/reelfeed/internal/titles"
	"github.com/whichfilm/reelfeed/internal/youtube"
)

// Store is the slice of the movie repository the pipeline writes through.
// Upserts are keyed by video_id so re-running the pipeline refreshes known
// records instead of duplicating them. Records without a usable video ID
// fall back to title-keyed creation: the video_id conflict arbiter never
// matches a NULL, so without the fallback every re-run would insert a
// duplicate row.
type Store interface {
	UpsertByVideoID(m *models.Movie) (created bool, err error)
	CreateIfTitleAbsent(m *models.Movie) (created bool, err error)
}

// Summary counts one pipeline run.
type Summary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Pipeline ingests one channel: the listing backend delivers raw videos, the
// cleaner decides which are official trailers, accepted records are upserted.
type Pipeline struct {
	listing youtube.Listing
	cleaner titles.Cleaner
	store   Store
	source  models.Source
}

func New(listing youtube.Listing, cleaner titles.Cleaner, store Store, source models.Source) *Pipeline {
	return &Pipeline{listing: listing, cleaner: cleaner, store: store, source: source}
}

func (p *Pipeline) Source() models.Source { return p.source }

// Run executes one ingestion pass. Listing failures abort the whole run and
// propagate to the caller; the scheduler's retry policy deals with them.
// Rejected titles and per-record store failures never abort the batch.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	videos, err := p.listing.Fetch(ctx)
	if err != nil {
		return Summary{}, err
	}

	log.Info().Str("source", string(p.source)).Int("videos", len(videos)).Msg("ingest: fetched listing")

	var sum Summary
	for _, v := range videos {
		parsed, ok := titles.Parse(p.cleaner, v.Title, v.VideoID)
		if !ok {
			sum.Skipped++
			continue
		}

		movie := &models.Movie{
			Title:         parsed.Title,
			OriginalTitle: strp(parsed.OriginalTitle),
			Source:        p.source,
			VideoID:       strp(parsed.VideoID),
		}

		created, err := p.upsert(movie)
		if err != nil {
			log.Error().Err(err).
				Str("source", string(p.source)).
				Str("title", parsed.Title).
				Msg("ingest: upsert failed")
			sum.Skipped++
			continue
		}

		switch {
		case created:
			sum.Created++
			log.Info().Str("title", parsed.Title).Msg("ingest: new movie")
		case movie.VideoID != nil:
			sum.Updated++
		default:
			// Known title without a video ID: skipped, not refreshed.
			sum.Skipped++
		}
	}

	log.Info().
		Str("source", string(p.source)).
		Int("created", sum.Created).
		Int("updated", sum.Updated).
		Int("skipped", sum.Skipped).
		Msg("ingest: run completed")
	return sum, nil
}

// upsert writes one accepted record. Records with a video ID are keyed by
// it; records without one dedupe by exact title and are skipped when the
// title is already known, never updated.
func (p *Pipeline) upsert(m *models.Movie) (bool, error) {
	if m.VideoID != nil {
		return p.store.UpsertByVideoID(m)
	}
	return p.store.CreateIfTitleAbsent(m)
}

func strp(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
