package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostremiour/internal/database"
	"github.com/amaumene/gostremiour/internal/mapping"
	"github.com/amaumene/gostremiour/internal/models"
	"github.com/amaumene/gostremiour/internal/services"
	"github.com/amaumene/gostremiour/pkg/logger"
)

type fakeResolver struct {
	mu      sync.Mutex
	results []models.StreamResult
	calls   []string
	ctxErr  error
}

func (f *fakeResolver) ResolveStreams(ctx context.Context, mediaType, id string) []models.StreamResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, mediaType+"/"+id)
	f.ctxErr = ctx.Err()
	return f.results
}

func setupTestRouter(resolver services.StreamResolver) *gin.Engine {
	return setupTestRouterWithDB(resolver, nil)
}

func setupTestRouterWithDB(resolver services.StreamResolver, db database.Database) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	container := &services.Container{
		Resolver: resolver,
		Mappings: mapping.NewTable(map[string]mapping.ShowMapping{"tt1": {BaseURL: "https://site/x"}}),
		DB:       db,
		Logger:   logger.Nop(),
	}
	New(container, nil).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)
	return w
}

func TestManifest(t *testing.T) {
	w := get(t, setupTestRouter(&fakeResolver{}), "/manifest.json")
	assert.Equal(t, http.StatusOK, w.Code)

	var manifest models.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &manifest))
	assert.Equal(t, "org.qayadat.stremio", manifest.ID)
	assert.Equal(t, []string{"series"}, manifest.Types)
	assert.Equal(t, []string{"stream"}, manifest.Resources)
	assert.Equal(t, []string{"tt"}, manifest.IDPrefixes)
	assert.Empty(t, manifest.Catalogs)
}

func TestStreamRoute(t *testing.T) {
	resolver := &fakeResolver{results: []models.StreamResult{
		{Title: "1080p", URL: "https://cdn/abc", Source: models.SourceRedirected},
		{Title: "720p", URL: "https://pixeldrain.com/api/file/def", Source: models.SourceDebridFailedFallback},
	}}
	w := get(t, setupTestRouter(resolver), "/stream/series/tt1:1:1.json")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"series/tt1:1:1"}, resolver.calls)
	assert.NoError(t, resolver.ctxErr)

	var response models.StreamResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Streams, 2)
	assert.Equal(t, "https://cdn/abc", response.Streams[0].URL)
	assert.True(t, strings.HasPrefix(response.Streams[0].Name, "Qayadat Play"))
	assert.Equal(t, "Qayadat Play\n1080p", response.Streams[0].Title)
	assert.Nil(t, response.Streams[0].BehaviorHints)
	require.NotNil(t, response.Streams[1].BehaviorHints)
	assert.True(t, response.Streams[1].BehaviorHints.NotWebReady)
}

func TestStreamRouteWithoutResults(t *testing.T) {
	resolver := &fakeResolver{}
	w := get(t, setupTestRouter(resolver), "/stream/series/tt404:1:1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"streams":[]}`, w.Body.String())
	assert.Equal(t, []string{"series/tt404:1:1"}, resolver.calls)
}

func TestHealth(t *testing.T) {
	w := get(t, setupTestRouter(&fakeResolver{}), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["shows"])
	assert.Equal(t, false, body["debrid_enabled"])
	assert.NotContains(t, body, "debrid_jobs")
}

func TestHealthCountsDebridJobs(t *testing.T) {
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.StoreDebridJob(&database.DebridJob{ID: "a", Status: database.JobStatusReady}))
	require.NoError(t, db.StoreDebridJob(&database.DebridJob{ID: "b", Status: database.JobStatusFailed}))
	require.NoError(t, db.StoreDebridJob(&database.DebridJob{ID: "c", Status: database.JobStatusFailed}))

	w := get(t, setupTestRouterWithDB(&fakeResolver{}, db), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		DebridJobs map[string]int `json:"debrid_jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]int{"ready": 1, "failed": 2}, body.DebridJobs)
}

func TestToStremioStreamLabelsDebrid(t *testing.T) {
	stream := toStremioStream(models.StreamResult{URL: "https://torbox/x", Source: models.SourceDebrid})

	assert.Equal(t, "Qayadat Play [TorBox]", stream.Name)
	assert.Equal(t, "Qayadat Play\nStream", stream.Title)
}
