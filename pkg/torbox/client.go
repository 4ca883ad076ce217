// Package torbox is a minimal client for the TorBox web-download API.
package torbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amaumene/gostremiour/pkg/httputil"
)

const DefaultBaseURL = "https://api.torbox.app/v1/api"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httputil.NewHTTPClient(30 * time.Second),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// envelope is the common shape of every TorBox response.
type envelope struct {
	Success bool            `json:"success"`
	Detail  string          `json:"detail"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// CreateResponse represents the response from the createwebdownload endpoint
type CreateResponse struct {
	Success bool
	Detail  string
	ID      string
}

// LinkResponse represents a response carrying a download URL
type LinkResponse struct {
	Success bool
	Detail  string
	URL     string
}

// CreateWebDownload submits sourceURL for server-side download.
func (c *Client) CreateWebDownload(ctx context.Context, apiKey, sourceURL string) (*CreateResponse, error) {
	body, err := json.Marshal(map[string]string{"url": sourceURL})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/webdl/createwebdownload", apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}

	result := &CreateResponse{Success: env.Success, Detail: env.detail()}
	if !env.Success {
		return result, nil
	}

	var data struct {
		ID flexibleID `json:"webdownload_id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errors.Wrap(err, "failed to decode webdownload id")
	}
	result.ID = string(data.ID)
	return result, nil
}

// RequestDownloadLink asks for the direct link of a finished web download.
func (c *Client) RequestDownloadLink(ctx context.Context, apiKey, webID string) (*LinkResponse, error) {
	params := url.Values{}
	params.Set("token", apiKey)
	params.Set("web_id", webID)
	params.Set("zip_link", "false")

	return c.getLink(ctx, apiKey, c.baseURL+"/webdl/requestdl?"+params.Encode())
}

// CheckCached looks sourceURL up in the TorBox cache.
func (c *Client) CheckCached(ctx context.Context, apiKey, sourceURL string) (*LinkResponse, error) {
	params := url.Values{}
	params.Set("url", sourceURL)

	return c.getLink(ctx, apiKey, c.baseURL+"/webdl/checkcached?"+params.Encode())
}

func (c *Client) getLink(ctx context.Context, apiKey, endpoint string) (*LinkResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, apiKey, nil)
	if err != nil {
		return nil, err
	}

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return &LinkResponse{
		Success: env.Success,
		Detail:  env.detail(),
		URL:     extractURL(env.Data),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint, apiKey string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrapf(err, "failed to decode response (status %d)", resp.StatusCode)
	}
	return &env, nil
}

func (e *envelope) detail() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error
}

// extractURL pulls a download URL out of a data payload. requestdl returns
// the link as a bare string; checkcached returns an object whose values
// carry it.
func extractURL(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}

	var link string
	if err := json.Unmarshal(data, &link); err == nil {
		return link
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return ""
	}
	for _, key := range []string{"url", "link", "download", "download_url"} {
		if raw, ok := object[key]; ok {
			if err := json.Unmarshal(raw, &link); err == nil && isHTTP(link) {
				return link
			}
		}
	}
	for _, raw := range object {
		if nested := extractURL(raw); isHTTP(nested) {
			return nested
		}
	}
	return ""
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// flexibleID accepts ids encoded either as JSON numbers or strings.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("unsupported id %s", string(b))
	}
	*f = flexibleID(n.String())
	return nil
}
