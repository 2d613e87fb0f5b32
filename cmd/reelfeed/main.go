package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/whichfilm/reelfeed/internal/api"
	"github.com/whichfilm/reelfeed/internal/config"
	"github.com/whichfilm/reelfeed/internal/db"
	"github.com/whichfilm/reelfeed/internal/enrich"
	"github.com/whichfilm/reelfeed/internal/ingest"
	"github.com/whichfilm/reelfeed/internal/jobs"
	"github.com/whichfilm/reelfeed/internal/models"
	"github.com/whichfilm/reelfeed/internal/repository"
	"github.com/whichfilm/reelfeed/internal/titles"
	"github.com/whichfilm/reelfeed/internal/tmdb"
	"github.com/whichfilm/reelfeed/internal/version"
	"github.com/whichfilm/reelfeed/internal/youtube"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Info().Str("version", version.Version).Msg("reelfeed starting")

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// The TMDB key is validated here, at construction. A bad deployment
	// fails on boot, not on the first enrichment run at 2 AM.
	tmdbClient, err := tmdb.New(cfg.TMDBAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("tmdb client init failed")
	}

	movieRepo := repository.NewMovieRepository(database.DB)

	rtPipeline := ingest.New(
		newListing(cfg, youtube.RottenTomatoesChannelID),
		titles.RottenTomatoesCleaner{},
		movieRepo,
		models.SourceRottenTomatoes,
	)
	mubiPipeline := ingest.New(
		newListing(cfg, youtube.MubiChannelID),
		titles.MubiCleaner{},
		movieRepo,
		models.SourceMubi,
	)
	enrichWorker := enrich.NewWorker(movieRepo, tmdbClient)

	queue := jobs.NewQueue(cfg.RedisAddr)
	queue.RegisterHandler(jobs.TaskIngestSource, jobs.NewIngestHandler(rtPipeline, mubiPipeline))
	queue.RegisterHandler(jobs.TaskEnrichTMDB, jobs.NewEnrichHandler(enrichWorker))
	if err := queue.Start(); err != nil {
		log.Fatal().Err(err).Msg("job queue failed to start")
	}
	defer queue.Stop()

	scheduler, err := jobs.NewScheduler(cfg.RedisAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler init failed")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler failed to start")
	}
	defer scheduler.Stop()

	srv := api.NewServer(movieRepo, queue)
	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}

// newListing picks the configured listing backend for one channel.
func newListing(cfg *config.Config, channelID string) youtube.Listing {
	if cfg.IngestBackend == config.BackendYTDLP {
		return youtube.NewExtractorClient(channelID, cfg.YTDLPPath)
	}
	return youtube.NewFeedClient(channelID)
}
