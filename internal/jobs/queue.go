package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const (
	TaskIngestSource = "ingest:source"
	TaskEnrichTMDB   = "enrich:tmdb"
)

// maxRetries caps how many times asynq re-runs a failed job.
const maxRetries = 3

// Queue owns the asynq client and worker server. One job runs at a time;
// ordering between ingestion and enrichment is enforced by the staggered
// cron schedule, not by in-process signaling.
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewQueue(redisAddr string) *Queue {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	client := asynq.NewClient(redisOpt)
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 1,
		},
	)
	mux := asynq.NewServeMux()
	return &Queue{client: client, server: server, mux: mux}
}

// isTaskConflict checks whether the error indicates a task ID conflict,
// using errors.Is for unwrapped sentinel values and a string fallback.
func isTaskConflict(err error) bool {
	if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "task ID conflicts") || strings.Contains(msg, "duplicate task")
}

// EnqueueUnique enqueues a task with a deterministic TaskID so a manual
// trigger cannot stack a second copy of a job that is already pending or
// running. A conflict is not an error; the existing task wins.
func (q *Queue) EnqueueUnique(taskType string, payload interface{}, uniqueID string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data, asynq.TaskID(uniqueID), asynq.MaxRetry(maxRetries))
	if _, err := q.client.Enqueue(task); err != nil {
		if isTaskConflict(err) {
			log.Info().Str("task", taskType).Str("id", uniqueID).Msg("queue: task already queued, skipping")
			return nil
		}
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

func (q *Queue) RegisterHandler(taskType string, handler asynq.Handler) {
	q.mux.Handle(taskType, handler)
}

func (q *Queue) Start() error {
	log.Info().Msg("queue: worker starting")
	return q.server.Start(q.mux)
}

func (q *Queue) Stop() {
	q.server.Shutdown()
	q.client.Close()
}
