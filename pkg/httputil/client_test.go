package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoRedirectClientReturnsLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://cdn.example.org/file", http.StatusFound)
	}))
	defer server.Close()

	resp, err := NewNoRedirectClient(time.Second).Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://cdn.example.org/file", resp.Header.Get("Location"))
}

func TestSetBrowserHeaders(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.org", nil)
	require.NoError(t, err)

	SetBrowserHeaders(req)

	assert.Equal(t, UserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, AcceptHTML, req.Header.Get("Accept"))
	assert.Equal(t, AcceptLanguage, req.Header.Get("Accept-Language"))
}
