package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/whichfilm/reelfeed/internal/enrich"
	"github.com/whichfilm/reelfeed/internal/ingest"
	"github.com/whichfilm/reelfeed/internal/models"
)

// ──────── Payloads ────────

type IngestPayload struct {
	Source models.Source `json:"source"`
}

// ──────── Ingest handler ────────

// IngestHandler dispatches an ingest:source task to the pipeline registered
// for that source. Pipeline errors propagate so asynq's retry policy engages.
type IngestHandler struct {
	pipelines map[models.Source]*ingest.Pipeline
}

func NewIngestHandler(pipelines ...*ingest.Pipeline) *IngestHandler {
	bymap := make(map[models.Source]*ingest.Pipeline, len(pipelines))
	for _, p := range pipelines {
		bymap[p.Source()] = p
	}
	return &IngestHandler{pipelines: bymap}
}

func (h *IngestHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload IngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	p, ok := h.pipelines[payload.Source]
	if !ok {
		return fmt.Errorf("unknown ingest source %q", payload.Source)
	}

	sum, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", payload.Source, err)
	}
	log.Info().
		Str("source", string(payload.Source)).
		Int("created", sum.Created).
		Int("updated", sum.Updated).
		Int("skipped", sum.Skipped).
		Msg("jobs: ingest task done")
	return nil
}

// ──────── Enrich handler ────────

type EnrichHandler struct {
	worker *enrich.Worker
}

func NewEnrichHandler(worker *enrich.Worker) *EnrichHandler {
	return &EnrichHandler{worker: worker}
}

func (h *EnrichHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	sum, err := h.worker.Run(ctx)
	if err != nil {
		return fmt.Errorf("enrich: %w", err)
	}
	log.Info().
		Int("enriched", sum.Enriched).
		Int("not_found", sum.NotFound).
		Int("errored", sum.Errored).
		Msg("jobs: enrich task done")
	return nil
}
