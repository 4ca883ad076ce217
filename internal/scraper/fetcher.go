package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/errors"
	"github.com/amaumene/gostremiour/pkg/httputil"
)

// Fetcher downloads a page with browser headers and hands back its anchors.
type Fetcher struct {
	client   *http.Client
	reader   DocumentReader
	maxBytes int64
}

func NewFetcher(client *http.Client, reader DocumentReader) *Fetcher {
	if client == nil {
		client = httputil.NewDefaultHTTPClient()
	}
	if reader == nil {
		reader = GoqueryReader{}
	}
	return &Fetcher{client: client, reader: reader, maxBytes: constants.MaxPageBytes}
}

// Anchors fetches pageURL. Transport failures and non-2xx responses are
// reported as TRANSPORT_ERROR.
func (f *Fetcher) Anchors(ctx context.Context, pageURL string) ([]Anchor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.NewTransportError(pageURL, err)
	}
	httputil.SetBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NewTransportError(pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewTransportError(pageURL, fmt.Errorf("server returned: %s", resp.Status))
	}

	anchors, err := f.reader.Anchors(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, errors.NewTransportError(pageURL, fmt.Errorf("failed to parse HTML: %w", err))
	}
	return anchors, nil
}
