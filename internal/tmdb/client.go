// Package tmdb wraps the TMDB v3 API for movie search and IMDb cross-reference
// resolution. The first result returned by the search endpoint is treated as
// the authoritative match; there is no ranking or scoring on top of it.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/whichfilm/reelfeed/internal/clients"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// Movie is the subset of TMDB search/detail fields the enrichment worker
// persists. Empty strings stand in for fields TMDB omitted.
type Movie struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Overview     string `json:"overview"`
	ReleaseDate  string `json:"release_date"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	IMDBID       string `json:"imdb_id"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New builds a TMDB client. The API key is validated eagerly: a missing key
// fails here, never at first call.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, &clients.ValidationError{
			Msg: "TMDB API key is required, set TMDB_API_KEY",
		}
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(4), 1),
	}, nil
}

type searchResponse struct {
	Results []Movie `json:"results"`
}

// Search queries TMDB by title, optionally narrowed by year, and returns the
// first result with its IMDb ID resolved, or (nil, nil) when nothing matched.
// Transport failures and non-2xx statuses come back as a NetworkError; the
// caller decides whether to swallow them. The secondary IMDb lookup degrades
// to an empty IMDBID on its own failure and never fails the search.
func (c *Client) Search(ctx context.Context, title string, year *int) (*Movie, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", title)
	if year != nil && *year > 0 {
		q.Set("year", fmt.Sprintf("%d", *year))
	}

	var resp searchResponse
	if err := c.getJSON(ctx, "/search/movie", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	movie := resp.Results[0]
	movie.IMDBID = c.resolveIMDBID(ctx, movie.ID)
	return &movie, nil
}

// resolveIMDBID looks up the IMDb cross-reference ID for a TMDB movie ID.
// Failure degrades to "": enrichment proceeds without the cross-reference.
func (c *Client) resolveIMDBID(ctx context.Context, tmdbID int) string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var ids struct {
		IMDBID string `json:"imdb_id"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/external_ids", tmdbID), q, &ids); err != nil {
		log.Warn().Err(err).Int("tmdb_id", tmdbID).Msg("tmdb: external_ids lookup failed")
		return ""
	}
	return ids.IMDBID
}

// getJSON issues a rate-limited GET and decodes the body, retrying with
// backoff when TMDB responds 429.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst interface{}) error {
	reqURL := c.baseURL + path + "?" + q.Encode()

	var resp *http.Response
	for attempt := 0; attempt < 3; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return &clients.NetworkError{Op: "tmdb request", Err: err}
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()
		select {
		case <-time.After(time.Duration(2<<uint(attempt)) * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &clients.NetworkError{
			Op:  "tmdb request",
			Err: fmt.Errorf("%s returned status %d", path, resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &clients.StructuralError{Op: "parse tmdb response", Err: err}
	}
	return nil
}
