package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whichfilm/reelfeed/internal/clients"
)

func TestParseFlatDump(t *testing.T) {
	dump := []byte(`{
		"id": "UCLyYEq4ODlw3OD9qhGqwimw",
		"title": "Rotten Tomatoes Indie - Videos",
		"entries": [
			{"id": "abc123", "title": "Bunny Trailer #1 (2025)", "url": "https://www.youtube.com/watch?v=abc123",
			 "description": "trailer", "thumbnails": [{"url": "https://i.ytimg.com/low.jpg"}, {"url": "https://i.ytimg.com/high.jpg"}]},
			{"id": "def456", "title": "DUNE | Official Trailer #1"}
		]
	}`)

	videos, err := parseFlatDump(dump)
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, "abc123", videos[0].VideoID)
	assert.Equal(t, "Bunny Trailer #1 (2025)", videos[0].Title)
	assert.Equal(t, "https://i.ytimg.com/high.jpg", videos[0].ThumbnailURL)

	// Entries without a url still get a watch URL derived from the ID.
	assert.Equal(t, "https://www.youtube.com/watch?v=def456", videos[1].VideoURL)
	assert.Empty(t, videos[1].ThumbnailURL)
}

func TestParseFlatDump_NoEntriesIsNetworkError(t *testing.T) {
	for _, dump := range []string{`{}`, `{"entries": []}`} {
		_, err := parseFlatDump([]byte(dump))
		var netErr *clients.NetworkError
		require.ErrorAs(t, err, &netErr, "dump %q", dump)
	}
}

func TestParseFlatDump_MalformedJSONIsStructuralError(t *testing.T) {
	_, err := parseFlatDump([]byte(`not json`))
	var structErr *clients.StructuralError
	require.ErrorAs(t, err, &structErr)
}
