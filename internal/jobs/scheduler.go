package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/whichfilm/reelfeed/internal/models"
)

// Daily cadences, staggered so each ingestion run finishes before enrichment
// starts. The offsets are the only ordering mechanism between the jobs.
const (
	cronIngestRottenTomatoes = "0 0 * * *"
	cronIngestMubi           = "0 1 * * *"
	cronEnrich               = "0 2 * * *"
)

// Scheduler is an explicitly owned cron scheduler with a start/stop
// lifecycle; there is no process-wide scheduler state.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr string) (*Scheduler, error) {
	s := asynq.NewScheduler(asynq.RedisClientOpt{Addr: redisAddr}, nil)

	entries := []struct {
		cronspec string
		task     *asynq.Task
	}{
		{cronIngestRottenTomatoes, ingestTask(models.SourceRottenTomatoes)},
		{cronIngestMubi, ingestTask(models.SourceMubi)},
		{cronEnrich, asynq.NewTask(TaskEnrichTMDB, nil, asynq.MaxRetry(maxRetries))},
	}
	for _, e := range entries {
		if _, err := s.Register(e.cronspec, e.task); err != nil {
			return nil, fmt.Errorf("register %s: %w", e.task.Type(), err)
		}
	}

	return &Scheduler{scheduler: s}, nil
}

func ingestTask(source models.Source) *asynq.Task {
	payload, _ := json.Marshal(IngestPayload{Source: source})
	return asynq.NewTask(TaskIngestSource, payload, asynq.MaxRetry(maxRetries))
}

func (s *Scheduler) Start() error {
	log.Info().Msg("scheduler: started (daily staggered cadence)")
	return s.scheduler.Start()
}

func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	log.Info().Msg("scheduler: stopped")
}
