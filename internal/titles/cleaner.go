// Package titles turns raw YouTube video titles into canonical movie titles.
// Each channel publishes trailers in its own format, so the cleaning grammar
// is a per-channel strategy behind the Cleaner interface; year extraction is
// shared and always runs against the original, uncleaned title.
package titles

import (
	"regexp"
	"strconv"
	"strings"
)

// Cleaner extracts a movie title from a raw video title. ok is false when
// the video is not an official trailer in the channel's format (teasers,
// announcements, or titles that fail the structural pattern).
type Cleaner interface {
	Clean(raw string) (cleaned string, ok bool)
}

// ParsedTitle is the result of cleaning one accepted video title.
type ParsedTitle struct {
	Title         string
	Year          *int
	OriginalTitle string
	VideoID       string
}

var yearRE = regexp.MustCompile(`\((\d{4})\)`)

// ExtractYear returns the leftmost parenthesized 4-digit number in the
// title, e.g. "Bunny Trailer #1 (2025)" -> 2025. Returns nil when absent.
func ExtractYear(title string) *int {
	m := yearRE.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &y
}

// Parse runs the channel cleaner over one raw title and, on acceptance,
// attaches the year and video ID. ok is false for rejected titles; rejected
// titles must not propagate further.
func Parse(c Cleaner, rawTitle, videoID string) (ParsedTitle, bool) {
	cleaned, ok := c.Clean(rawTitle)
	if !ok {
		return ParsedTitle{}, false
	}
	return ParsedTitle{
		Title:         cleaned,
		Year:          ExtractYear(rawTitle),
		OriginalTitle: rawTitle,
		VideoID:       videoID,
	}, true
}

// ──────── RottenTomatoes INDIE ────────

// rtRE captures everything before "Trailer #" (optionally "Official
// Trailer #"). Lazy so the shortest prefix wins: "Movie Official Trailer #1"
// cleans to "Movie", not "Movie Official".
var rtRE = regexp.MustCompile(`^(.+?)\s+(?:Official\s+)?Trailer\s+#`)

// RottenTomatoesCleaner handles the RottenTomatoes INDIE format:
// "Movie Title Trailer #1 (2025)". Teasers never carry "Trailer #", so
// requiring the marker implicitly skips teaser uploads.
type RottenTomatoesCleaner struct{}

func (RottenTomatoesCleaner) Clean(raw string) (string, bool) {
	if !strings.Contains(raw, "Trailer #") {
		return "", false
	}
	m := rtRE.FindStringSubmatch(raw)
	if m == nil {
		// Marker present but not in the expected position; no partial extraction.
		return "", false
	}
	cleaned := strings.TrimSpace(m[1])
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}

// ──────── Mubi ────────

var mubiRE = regexp.MustCompile(`^(.+?)\s*\|\s*Official Trailer`)

// MubiCleaner handles the Mubi format: "MOVIE TITLE | Official Trailer #1".
// Teasers and "Coming Soon" announcements are rejected outright.
type MubiCleaner struct{}

func (MubiCleaner) Clean(raw string) (string, bool) {
	if strings.Contains(raw, "Official Teaser") || strings.Contains(raw, "Coming Soon") {
		return "", false
	}
	if !strings.Contains(raw, "Official Trailer") {
		return "", false
	}
	m := mubiRE.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	cleaned := strings.TrimSpace(m[1])
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}
