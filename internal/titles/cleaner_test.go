package titles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRottenTomatoesCleaner(t *testing.T) {
	c := RottenTomatoesCleaner{}

	tests := []struct {
		name   string
		raw    string
		want   string
		accept bool
	}{
		{"plain trailer", "Little Trouble Girls Trailer #1 (2025)", "Little Trouble Girls", true},
		{"official trailer strips the Official token", "The Lord of the Rings Official Trailer #1 (2025)", "The Lord of the Rings", true},
		{"short title", "Bunny Trailer #1 (2025)", "Bunny", true},
		{"teaser has no marker", "Avatar Official Teaser (2025)", "", false},
		{"teaser trailer has no marker", "Young Washington Teaser Trailer (2026)", "", false},
		{"no marker at all", "Some Behind The Scenes Featurette", "", false},
		{"marker without leading title", "Trailer #1 (2025)", "", false},
		{"whitespace-only title before marker", "  Trailer #2", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Clean(tt.raw)
			assert.Equal(t, tt.accept, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMubiCleaner(t *testing.T) {
	c := MubiCleaner{}

	tests := []struct {
		name   string
		raw    string
		want   string
		accept bool
	}{
		{"pipe delimited", "DUNE | Official Trailer #1", "DUNE", true},
		{"no space around pipe", "PERFECT DAYS|Official Trailer", "PERFECT DAYS", true},
		{"trailing segments", "THE SUBSTANCE | Official Trailer | In Cinemas Now", "THE SUBSTANCE", true},
		{"teaser rejected", "OPPENHEIMER | Official Teaser (2023)", "", false},
		{"coming soon rejected", "DECISION TO LEAVE | Coming Soon", "", false},
		{"no marker", "AFTERSUN | Clip", "", false},
		{"marker without pipe", "AFTERSUN Official Trailer", "", false},
		{"empty title before pipe", "| Official Trailer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Clean(tt.raw)
			assert.Equal(t, tt.accept, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"simple year", "Bunny Trailer #1 (2025)", intp(2025)},
		{"no year", "DUNE | Official Trailer #1", nil},
		{"non-year parens skipped, leftmost 4-digit group wins", "Movie (Part 2) Trailer #1 (2025)", intp(2025)},
		{"two 4-digit groups, leftmost wins", "1917 (2019) Trailer #1 (2020)", intp(2019)},
		{"unparenthesized digits ignored", "Blade Runner 2049 Trailer #1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractYear(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParse(t *testing.T) {
	p, ok := Parse(RottenTomatoesCleaner{}, "The Lord of the Rings Official Trailer #1 (2025)", "dQw4w9WgXcQ")
	require.True(t, ok)
	assert.Equal(t, "The Lord of the Rings", p.Title)
	require.NotNil(t, p.Year)
	assert.Equal(t, 2025, *p.Year)
	assert.Equal(t, "The Lord of the Rings Official Trailer #1 (2025)", p.OriginalTitle)
	assert.Equal(t, "dQw4w9WgXcQ", p.VideoID)

	_, ok = Parse(RottenTomatoesCleaner{}, "Avatar Official Teaser (2025)", "abc")
	assert.False(t, ok)

	// Year extraction never causes rejection.
	p, ok = Parse(MubiCleaner{}, "DUNE | Official Trailer #1", "xyz")
	require.True(t, ok)
	assert.Equal(t, "DUNE", p.Title)
	assert.Nil(t, p.Year)
}

func intp(v int) *int { return &v }
