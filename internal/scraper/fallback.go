package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/amaumene/gostremiour/internal/errors"
)

// fallbackSlugSuffix is carried by primary-site series slugs but not by the
// fallback site's episode pages.
const fallbackSlugSuffix = "-urdu-subtitles"

// ShowSlug derives the show slug from a primary-site series URL such as
// https://play.qayadat.org/series/kurulus-orhan-urdu-subtitles.
func ShowSlug(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.NewFormatDriftError(baseURL, "parsable series url")
	}

	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		slug := strings.TrimSuffix(segments[i], fallbackSlugSuffix)
		if slug == "" {
			break
		}
		return slug, nil
	}
	return "", errors.NewFormatDriftError(baseURL, "series slug")
}

// FallbackEpisodeURL builds the fallback site's page for an absolute episode:
// <fallbackBase>/<slug>-episode-<n>-urdu-subtitles.html.
func FallbackEpisodeURL(fallbackBase, baseURL string, episode int) (string, error) {
	slug, err := ShowSlug(baseURL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s-episode-%d%s.html", strings.TrimRight(fallbackBase, "/"), slug, episode, fallbackSlugSuffix), nil
}
