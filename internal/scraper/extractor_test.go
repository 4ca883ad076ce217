package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostremiour/internal/models"
	"github.com/amaumene/gostremiour/pkg/pixeldrain"
)

func TestExtract(t *testing.T) {
	host, err := pixeldrain.NewClient("", time.Second)
	require.NoError(t, err)

	anchors := []Anchor{
		{Text: "  1080p Download ", Href: "https://pixeldrain.com/u/abc123"},
		{Text: "Watch online", Href: "https://ok.ru/video/1"},
		{Text: "Folder", Href: "https://pixeldrain.com/l/folder1"},
		{Text: "Download 720p", Href: "https://pixeldrain.com/u/XYZ789?download"},
	}

	links := NewLinkExtractor(host).Extract(anchors)
	assert.Equal(t, []models.CandidateLink{
		{HostFileID: "abc123", DisplayTitle: "1080p", APIURL: "https://pixeldrain.com/api/file/abc123"},
		{HostFileID: "XYZ789", DisplayTitle: "720p", APIURL: "https://pixeldrain.com/api/file/XYZ789"},
	}, links)
}

func TestExtractReturnsNothingOnFormatDrift(t *testing.T) {
	host, err := pixeldrain.NewClient("", time.Second)
	require.NoError(t, err)

	links := NewLinkExtractor(host).Extract([]Anchor{{Text: "Episode 1", Href: "/video/1"}})
	assert.Empty(t, links)
}
