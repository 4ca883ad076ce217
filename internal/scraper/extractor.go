package scraper

import (
	"strings"

	"github.com/amaumene/gostremiour/internal/models"
)

// FileHost describes the file-sharing host whose links are collected.
type FileHost interface {
	Host() string
	ShareID(href string) (string, bool)
	APIURL(fileID string) string
}

// LinkExtractor collects file-host download links from an episode page.
type LinkExtractor struct {
	host FileHost
}

func NewLinkExtractor(host FileHost) *LinkExtractor {
	return &LinkExtractor{host: host}
}

// Extract returns a CandidateLink for every share link in anchors, in
// document order. The download URL is built from the file id since the
// anchor points at the human-facing share page.
func (e *LinkExtractor) Extract(anchors []Anchor) []models.CandidateLink {
	var links []models.CandidateLink
	for _, a := range anchors {
		if !strings.Contains(a.Href, e.host.Host()) {
			continue
		}
		fileID, ok := e.host.ShareID(a.Href)
		if !ok {
			continue
		}
		links = append(links, models.CandidateLink{
			HostFileID:   fileID,
			DisplayTitle: cleanTitle(a.Text),
			APIURL:       e.host.APIURL(fileID),
		})
	}
	return links
}

func cleanTitle(text string) string {
	return strings.TrimSpace(strings.Replace(strings.TrimSpace(text), "Download", "", 1))
}
