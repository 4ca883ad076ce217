package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/amaumene/gostremiour/internal/cache"
	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/pkg/logger"
)

// episodePathMarker identifies episode pages on the listing site.
const episodePathMarker = "/video/"

// AnchorSource fetches a page and returns its anchors.
type AnchorSource interface {
	Anchors(ctx context.Context, pageURL string) ([]Anchor, error)
}

// ListingQuery describes the episode searched for on a listing.
type ListingQuery struct {
	BaseURL    string
	Season     int
	Episode    int // absolute target
	HasOffsets bool
}

// Strict reports whether episode-only matches must be rejected. Without an
// offset table an un-qualified "Episode 14" beyond season 1 may belong to
// any season.
func (q ListingQuery) Strict() bool {
	return q.Season > 1 && !q.HasOffsets
}

func (q ListingQuery) cacheKey() string {
	return fmt.Sprintf("%s|%d|%d|%t", q.BaseURL, q.Season, q.Episode, q.Strict())
}

// ListingSearch walks the paginated episode listing of a show.
type ListingSearch struct {
	source   AnchorSource
	maxPages int
	cache    cache.Cache[string]
	logger   logger.Logger
}

// NewListingSearch creates a search over at most maxPages pages. found may
// be nil to disable caching of found episode URLs.
func NewListingSearch(source AnchorSource, maxPages int, found cache.Cache[string], log logger.Logger) *ListingSearch {
	if maxPages <= 0 {
		maxPages = constants.DefaultMaxListingPages
	}
	if log == nil {
		log = logger.New()
	}
	return &ListingSearch{
		source:   source,
		maxPages: maxPages,
		cache:    found,
		logger:   log.With("stage", "listing"),
	}
}

// Find returns the absolute URL of the episode page matching q. A page that
// cannot be fetched ends the search for this site.
func (s *ListingSearch) Find(ctx context.Context, q ListingQuery) (string, bool) {
	key := q.cacheKey()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debugf("[Listing] cache hit for %s", key)
			return cached, true
		}
	}

	matcher := newEpisodeMatcher(q)
	for page := 1; page <= s.maxPages; page++ {
		pageURL := PageURL(q.BaseURL, page)
		s.logger.Debugf("[Listing] checking page %d: %s", page, pageURL)

		anchors, err := s.source.Anchors(ctx, pageURL)
		if err != nil {
			s.logger.With("url", pageURL, "reason", err).Warnf("[Listing] page %d failed, giving up on site", page)
			return "", false
		}

		href, ok := matcher.scan(anchors)
		if !ok {
			continue
		}

		episodeURL := resolveURL(origin(pageURL), href)
		s.logger.Infof("[Listing] season %d episode %d found on page %d: %s", q.Season, q.Episode, page, episodeURL)
		if s.cache != nil {
			s.cache.Set(key, episodeURL)
		}
		return episodeURL, true
	}

	s.logger.With("url", q.BaseURL).Infof("[Listing] season %d episode %d not found in %d pages (strict=%t)", q.Season, q.Episode, s.maxPages, q.Strict())
	return "", false
}

// PageURL returns the listing URL of page n; page 1 is the base itself.
func PageURL(baseURL string, page int) string {
	if page <= 1 {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/page/" + strconv.Itoa(page)
}

// EpisodeAnchors returns the anchors of a listing page that point at episode
// pages, with hrefs made absolute against pageURL.
func EpisodeAnchors(pageURL string, anchors []Anchor) []Anchor {
	base := origin(pageURL)
	var episodes []Anchor
	for _, a := range anchors {
		if !strings.Contains(a.Href, episodePathMarker) {
			continue
		}
		episodes = append(episodes, Anchor{Text: a.Text, Href: resolveURL(base, a.Href)})
	}
	return episodes
}

type episodeMatcher struct {
	season  *regexp.Regexp
	episode *regexp.Regexp
	strict  bool
}

func newEpisodeMatcher(q ListingQuery) episodeMatcher {
	return episodeMatcher{
		season:  regexp.MustCompile(fmt.Sprintf(`(?i)(?:season|sezon)\s*0*%d\b`, q.Season)),
		episode: regexp.MustCompile(fmt.Sprintf(`(?i)(?:episode|bolum)\s*0*%d\b`, q.Episode)),
		strict:  q.Strict(),
	}
}

// scan returns the first season+episode match of the page, else the first
// episode-only match when weak matches are allowed.
func (m episodeMatcher) scan(anchors []Anchor) (string, bool) {
	var candidate string
	for _, a := range anchors {
		if !strings.Contains(a.Href, episodePathMarker) {
			continue
		}
		if !m.episode.MatchString(a.Text) {
			continue
		}
		if m.season.MatchString(a.Text) {
			return a.Href, true
		}
		if !m.strict && candidate == "" {
			candidate = a.Href
		}
	}
	return candidate, candidate != ""
}

func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// resolveURL resolves relative URLs against the site origin
func resolveURL(base, ref string) string {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "//"):
		if u, err := url.Parse(base); err == nil && u.Scheme != "" {
			return u.Scheme + ":" + ref
		}
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		return base + ref
	default:
		return base + "/" + ref
	}
}
