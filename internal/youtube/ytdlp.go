package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/whichfilm/reelfeed/internal/clients"
)

// socketTimeoutSeconds bounds how long yt-dlp waits on a stalled connection.
const socketTimeoutSeconds = 20

// ExtractorClient lists a channel's uploads by invoking yt-dlp with a flat
// (non-recursive) playlist dump. Alternative backend to FeedClient for
// deployments where the Atom feed is unreliable or truncated.
type ExtractorClient struct {
	channelID string
	binPath   string
}

func NewExtractorClient(channelID, binPath string) *ExtractorClient {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &ExtractorClient{channelID: channelID, binPath: binPath}
}

type ytdlpDump struct {
	Entries []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Timestamp   int64  `json:"timestamp"`
		Thumbnails  []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"entries"`
}

func (c *ExtractorClient) Fetch(ctx context.Context) ([]Video, error) {
	channelURL := fmt.Sprintf("https://www.youtube.com/channel/%s/videos", c.channelID)

	cmd := exec.CommandContext(ctx, c.binPath,
		"--flat-playlist",
		"--socket-timeout", fmt.Sprintf("%d", socketTimeoutSeconds),
		"-J",
		channelURL,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &clients.NetworkError{
			Op:  "yt-dlp listing",
			Err: fmt.Errorf("%w: %s", err, stderr.String()),
		}
	}

	videos, err := parseFlatDump(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// parseFlatDump decodes a yt-dlp -J flat-playlist dump. An extractor run that
// produced no entries is a NetworkError: the call "succeeded" but delivered
// nothing, which in practice means the fetch went wrong.
func parseFlatDump(data []byte) ([]Video, error) {
	var dump ytdlpDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, &clients.StructuralError{Op: "parse yt-dlp output", Err: err}
	}
	if len(dump.Entries) == 0 {
		return nil, &clients.NetworkError{
			Op:  "yt-dlp listing",
			Err: fmt.Errorf("extractor returned no entries"),
		}
	}

	videos := make([]Video, 0, len(dump.Entries))
	for _, e := range dump.Entries {
		videoURL := e.URL
		if videoURL == "" {
			videoURL = "https://www.youtube.com/watch?v=" + e.ID
		}
		thumb := ""
		if len(e.Thumbnails) > 0 {
			thumb = e.Thumbnails[len(e.Thumbnails)-1].URL
		}
		videos = append(videos, Video{
			Title:        e.Title,
			VideoID:      e.ID,
			Description:  e.Description,
			ThumbnailURL: thumb,
			VideoURL:     videoURL,
		})
	}
	return videos, nil
}
