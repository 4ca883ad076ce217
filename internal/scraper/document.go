// Package scraper fetches Qayadat listing and episode pages and turns their
// anchors into episode page URLs and file-host download links.
package scraper

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Anchor is one <a> element of a page, in document order.
type Anchor struct {
	Text string
	Href string
}

// DocumentReader turns raw markup into the ordered anchors of the page.
type DocumentReader interface {
	Anchors(r io.Reader) ([]Anchor, error)
}

// GoqueryReader implements DocumentReader with goquery.
type GoqueryReader struct{}

func (GoqueryReader) Anchors(r io.Reader) ([]Anchor, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var anchors []Anchor
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		anchors = append(anchors, Anchor{
			Text: s.Text(),
			Href: strings.TrimSpace(href),
		})
	})
	return anchors, nil
}
