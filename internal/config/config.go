package config

import (
	"os"
	"strconv"
)

// Ingest backend selection. The feed backend parses the channel's Atom feed
// directly; the ytdlp backend shells out to yt-dlp for a flat listing.
const (
	BackendFeed  = "feed"
	BackendYTDLP = "ytdlp"
)

type Config struct {
	Port          int
	DatabaseURL   string
	RedisAddr     string
	TMDBAPIKey    string
	IngestBackend string
	YTDLPPath     string
}

func Load() *Config {
	return &Config{
		Port:          envInt("PORT", 8080),
		DatabaseURL:   env("DATABASE_URL", "postgres://reelfeed:reelfeed@db:5432/reelfeed?sslmode=disable"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		TMDBAPIKey:    env("TMDB_API_KEY", ""),
		IngestBackend: env("INGEST_BACKEND", BackendFeed),
		YTDLPPath:     env("YTDLP_PATH", "yt-dlp"),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
