// Package pixeldrain knows the Pixeldrain share-link layout and talks to its
// file API: availability probing and redirect resolution.
package pixeldrain

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amaumene/gostremiour/pkg/httputil"
)

const (
	DefaultBaseURL      = "https://pixeldrain.com"
	DefaultProbeTimeout = 5 * time.Second

	resolveTimeout = 15 * time.Second
)

// Availability is the outcome of a quota probe.
type Availability int

const (
	Available Availability = iota
	Unavailable
)

func (a Availability) String() string {
	if a == Unavailable {
		return "unavailable"
	}
	return "available"
}

type Client struct {
	baseURL      string
	host         string
	sharePattern *regexp.Regexp
	probeClient  *http.Client
	httpClient   *http.Client
}

// NewClient builds a client for the Pixeldrain instance at baseURL. An empty
// baseURL selects the public instance.
func NewClient(baseURL string, probeTimeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, errors.Errorf("invalid pixeldrain base url %q", baseURL)
	}

	host := strings.TrimPrefix(parsed.Host, "www.")
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		host:         host,
		sharePattern: regexp.MustCompile(regexp.QuoteMeta(host) + `/u/([a-zA-Z0-9]+)`),
		probeClient:  httputil.NewNoRedirectClient(probeTimeout),
		httpClient:   httputil.NewNoRedirectClient(resolveTimeout),
	}, nil
}

// Host returns the domain share links are expected on.
func (c *Client) Host() string {
	return c.host
}

// ShareID extracts the file id from a share link such as
// https://pixeldrain.com/u/abc123.
func (c *Client) ShareID(href string) (string, bool) {
	match := c.sharePattern.FindStringSubmatch(href)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// APIURL returns the direct file endpoint for a file id.
func (c *Client) APIURL(fileID string) string {
	return c.baseURL + "/api/file/" + fileID
}

// Probe checks whether the host is currently serving files. Only 509
// (bandwidth exceeded) and 429 (rate limited) count as unavailable; network
// errors fail open and are returned for logging alongside Available.
func (c *Client) Probe(ctx context.Context, apiURL string) (Availability, error) {
	resp, err := c.head(ctx, c.probeClient, apiURL)
	if err != nil {
		return Available, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case 509, http.StatusTooManyRequests:
		return Unavailable, nil
	default:
		return Available, nil
	}
}

// Resolve follows a single API redirect by hand and returns the CDN
// location. The original URL is returned whenever no redirect is offered or
// the request fails.
func (c *Client) Resolve(ctx context.Context, apiURL string) (string, error) {
	resp, err := c.head(ctx, c.httpClient, apiURL)
	if err != nil {
		return apiURL, err
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if location == "" {
		return apiURL, nil
	}

	target, err := resp.Request.URL.Parse(location)
	if err != nil {
		return apiURL, errors.Wrapf(err, "parse location %q", location)
	}
	return target.String(), nil
}

func (c *Client) head(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", httputil.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "HEAD %s", rawURL)
	}
	return resp, nil
}
