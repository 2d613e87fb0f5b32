// Package api exposes the read-only movie listing and the manual job
// triggers. The scheduled cadence is the primary driver; these endpoints
// exist for operators who want to kick a run off by hand or inspect results.
package api

import (
	"net/http"
	"strconv"

	"github.com/whichfilm/reelfeed/internal/httputil"
	"github.com/whichfilm/reelfeed/internal/jobs"
	"github.com/whichfilm/reelfeed/internal/models"
	"github.com/whichfilm/reelfeed/internal/repository"
)

const defaultPageSize = 50

// Enqueuer is the slice of the job queue the API needs.
type Enqueuer interface {
	EnqueueUnique(taskType string, payload interface{}, uniqueID string) error
}

type Server struct {
	movieRepo *repository.MovieRepository
	queue     Enqueuer
	router    *http.ServeMux
}

func NewServer(movieRepo *repository.MovieRepository, queue Enqueuer) *Server {
	s := &Server{movieRepo: movieRepo, queue: queue, router: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	s.router.HandleFunc("GET /api/v1/movies", s.handleListMovies)
	s.router.HandleFunc("GET /api/v1/movies/unenriched/count", s.handleUnenrichedCount)
	s.router.HandleFunc("POST /api/v1/jobs/ingest/{source}", s.handleTriggerIngest)
	s.router.HandleFunc("POST /api/v1/jobs/enrich", s.handleTriggerEnrich)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > 500 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	movies, err := s.movieRepo.List(limit, offset)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if movies == nil {
		movies = []*models.Movie{}
	}
	httputil.WriteJSON(w, http.StatusOK, movies)
}

func (s *Server) handleUnenrichedCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.movieRepo.CountUnenriched()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"unenriched": n})
}

func (s *Server) handleTriggerIngest(w http.ResponseWriter, r *http.Request) {
	source := models.Source(r.PathValue("source"))
	if !source.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "unknown_source",
			"source must be one of: rotten_tomatoes, mubi")
		return
	}

	payload := jobs.IngestPayload{Source: source}
	if err := s.queue.EnqueueUnique(jobs.TaskIngestSource, payload, "ingest:"+string(source)); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "enqueue_failed", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"queued": string(source)})
}

func (s *Server) handleTriggerEnrich(w http.ResponseWriter, r *http.Request) {
	if err := s.queue.EnqueueUnique(jobs.TaskEnrichTMDB, nil, "enrich:tmdb"); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "enqueue_failed", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"queued": "enrich"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
