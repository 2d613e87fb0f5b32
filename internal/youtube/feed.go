package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/whichfilm/reelfeed/internal/clients"
)

const feedURLFormat = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// FeedClient fetches a channel's uploads through the public Atom feed.
type FeedClient struct {
	channelID  string
	httpClient *http.Client

	// baseURL is overridable for tests.
	baseURL string
}

func NewFeedClient(channelID string) *FeedClient {
	return &FeedClient{
		channelID:  channelID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string `xml:"title"`
	Published string `xml:"published"`
	Link      struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
	Group struct {
		Description string `xml:"http://search.yahoo.com/mrss/ description"`
		Thumbnail   struct {
			URL string `xml:"url,attr"`
		} `xml:"http://search.yahoo.com/mrss/ thumbnail"`
	} `xml:"http://search.yahoo.com/mrss/ group"`
}

func (c *FeedClient) feedURL() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf(feedURLFormat, c.channelID)
}

// Fetch downloads and parses the channel feed. A feed with zero entries is a
// StructuralError, not an empty result.
func (c *FeedClient) Fetch(ctx context.Context) ([]Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &clients.NetworkError{Op: "fetch youtube feed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &clients.NetworkError{
			Op:  "fetch youtube feed",
			Err: fmt.Errorf("channel %s returned status %d", c.channelID, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &clients.NetworkError{Op: "read youtube feed", Err: err}
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, &clients.StructuralError{Op: "parse youtube feed", Err: err}
	}
	if len(feed.Entries) == 0 {
		return nil, &clients.StructuralError{
			Op:  "parse youtube feed",
			Err: fmt.Errorf("feed for channel %s has no entries", c.channelID),
		}
	}

	videos := make([]Video, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		videos = append(videos, Video{
			Title:        e.Title,
			VideoID:      extractVideoID(e.Link.Href),
			Description:  e.Group.Description,
			Published:    e.Published,
			ThumbnailURL: e.Group.Thumbnail.URL,
			VideoURL:     e.Link.Href,
		})
	}
	return videos, nil
}
