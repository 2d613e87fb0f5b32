// Package youtube fetches the raw video listing for a channel. Two backends
// implement the same Listing contract: FeedClient parses the channel's Atom
// feed, ExtractorClient shells out to yt-dlp for a flat playlist dump. Channel
// IDs are fixed per source.
package youtube

import (
	"context"
	"net/url"
)

// Channel IDs for the two ingested sources.
const (
	RottenTomatoesChannelID = "UCLyYEq4ODlw3OD9qhGqwimw" // RottenTomatoes INDIE
	MubiChannelID           = "UUEuIk8O5Cyzl8J_ylPFzA"
)

// Video is one raw listing entry. Lifetime is a single pipeline run; nothing
// here is persisted directly.
type Video struct {
	Title        string
	VideoID      string
	Description  string
	Published    string
	ThumbnailURL string
	VideoURL     string
}

// Listing fetches the ordered video listing for one channel. Implementations
// return a NetworkError on transport failure and a StructuralError on a
// malformed or entry-less response; a response with no entries is surfaced as
// a failure because it almost always means a transient fetch problem, not a
// genuinely empty channel.
type Listing interface {
	Fetch(ctx context.Context) ([]Video, error)
}

// extractVideoID pulls the v= query parameter out of a watch URL.
//
//	https://www.youtube.com/watch?v=dQw4w9WgXcQ -> dQw4w9WgXcQ
//
// Returns "" when the URL has no usable video ID.
func extractVideoID(videoURL string) string {
	u, err := url.Parse(videoURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}
