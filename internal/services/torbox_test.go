package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostremiour/internal/database"
	"github.com/amaumene/gostremiour/internal/errors"
	"github.com/amaumene/gostremiour/pkg/logger"
	"github.com/amaumene/gostremiour/pkg/torbox"
)

const testAPIKey = "0b9a4f3e-6c1d-4e2b-9f7a-2d5c8e1b3a40"

type fakeDebrid struct {
	mu       sync.Mutex
	create   *torbox.CreateResponse
	link     *torbox.LinkResponse
	cached   *torbox.LinkResponse
	err      error
	linkErr  error
	requests []string
}

func (f *fakeDebrid) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, name)
}

func (f *fakeDebrid) CreateWebDownload(_ context.Context, _, _ string) (*torbox.CreateResponse, error) {
	f.called("create")
	if f.err != nil {
		return nil, f.err
	}
	return f.create, nil
}

func (f *fakeDebrid) RequestDownloadLink(_ context.Context, _, _ string) (*torbox.LinkResponse, error) {
	f.called("requestdl")
	if f.linkErr != nil {
		return nil, f.linkErr
	}
	if f.link == nil {
		return &torbox.LinkResponse{}, nil
	}
	return f.link, nil
}

func (f *fakeDebrid) CheckCached(_ context.Context, _, _ string) (*torbox.LinkResponse, error) {
	f.called("checkcached")
	if f.cached == nil {
		return &torbox.LinkResponse{}, nil
	}
	return f.cached, nil
}

func TestUnrestrictWithoutKeyMakesNoCalls(t *testing.T) {
	client := &fakeDebrid{}
	tb := NewTorBox("", client, 0, logger.Nop())

	outcome := tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")

	assert.Equal(t, DebridFailed, outcome.State)
	assert.True(t, errors.IsType(outcome.Reason, errors.ErrorTypeAPIKeyMissing))
	assert.Empty(t, client.requests)
	assert.False(t, tb.Configured())
}

func TestUnrestrictRejectedCreate(t *testing.T) {
	client := &fakeDebrid{create: &torbox.CreateResponse{Success: false, Detail: "invalid url"}}
	tb := NewTorBox(testAPIKey, client, 0, logger.Nop())

	outcome := tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")

	assert.Equal(t, DebridFailed, outcome.State)
	assert.True(t, errors.IsType(outcome.Reason, errors.ErrorTypeDebridFailed))
	assert.Equal(t, []string{"create"}, client.requests)
}

func TestUnrestrictTransportError(t *testing.T) {
	client := &fakeDebrid{err: fmt.Errorf("dial tcp: refused")}
	tb := NewTorBox(testAPIKey, client, 0, logger.Nop())

	outcome := tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")
	assert.Equal(t, DebridFailed, outcome.State)
}

func TestUnrestrictReadyAfterPoll(t *testing.T) {
	client := &fakeDebrid{
		create: &torbox.CreateResponse{Success: true, ID: "42"},
		link:   &torbox.LinkResponse{Success: true, URL: "https://cdn.torbox/abc"},
	}
	tb := NewTorBox(testAPIKey, client, 0, logger.Nop())

	outcome := tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")

	assert.Equal(t, DebridReady, outcome.State)
	assert.Equal(t, "https://cdn.torbox/abc", outcome.URL)
	assert.Equal(t, []string{"create", "requestdl"}, client.requests)
}

func TestUnrestrictFallsBackToCache(t *testing.T) {
	client := &fakeDebrid{
		create: &torbox.CreateResponse{Success: true, ID: "42"},
		cached: &torbox.LinkResponse{Success: true, URL: "https://cdn.torbox/cached"},
	}
	tb := NewTorBox(testAPIKey, client, 0, logger.Nop())

	outcome := tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")

	assert.Equal(t, DebridReady, outcome.State)
	assert.Equal(t, "https://cdn.torbox/cached", outcome.URL)
	assert.Equal(t, []string{"create", "requestdl", "checkcached"}, client.requests)
}

func TestUnrestrictChecksCacheAfterRequestdlError(t *testing.T) {
	client := &fakeDebrid{
		create:  &torbox.CreateResponse{Success: true, ID: "42"},
		linkErr: fmt.Errorf("GET /webdl/requestdl: connection reset"),
		cached:  &torbox.LinkResponse{Success: true, URL: "https://cdn.torbox/cached"},
	}
	tb := NewTorBox(testAPIKey, client, 0, logger.Nop())

	outcome := tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")

	assert.Equal(t, DebridReady, outcome.State)
	assert.Equal(t, "https://cdn.torbox/cached", outcome.URL)
	assert.Equal(t, []string{"create", "requestdl", "checkcached"}, client.requests)
}

func TestUnrestrictNotReadyAnywhere(t *testing.T) {
	client := &fakeDebrid{create: &torbox.CreateResponse{Success: true, ID: "42"}}
	tb := NewTorBox(testAPIKey, client, 0, logger.Nop())

	outcome := tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")

	assert.Equal(t, DebridFailed, outcome.State)
	assert.Len(t, client.requests, 3)
}

func TestUnrestrictHonoursCancellationDuringPoll(t *testing.T) {
	client := &fakeDebrid{create: &torbox.CreateResponse{Success: true, ID: "42"}}
	tb := NewTorBox(testAPIKey, client, time.Hour, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	outcome := tb.Unrestrict(ctx, "https://pixeldrain.com/api/file/abc")
	assert.Equal(t, DebridFailed, outcome.State)
	assert.Equal(t, []string{"create"}, client.requests)
}

func TestUnrestrictRecordsJobs(t *testing.T) {
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	defer db.Close()

	client := &fakeDebrid{
		create: &torbox.CreateResponse{Success: true, ID: "42"},
		link:   &torbox.LinkResponse{Success: true, URL: "https://cdn.torbox/abc"},
	}
	tb := NewTorBox(testAPIKey, client, 0, logger.Nop())
	tb.SetDB(db)

	tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")

	jobs, err := db.GetDebridJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, database.JobStatusReady, jobs[0].Status)
	assert.Equal(t, "42", jobs[0].WebDownloadID)
	assert.Equal(t, "https://cdn.torbox/abc", jobs[0].DownloadURL)
}

func TestUnrestrictAgainstHTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/webdl/createwebdownload":
			assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"success":true,"data":{"webdownload_id":7}}`)
		case "/webdl/requestdl":
			assert.Equal(t, "7", r.URL.Query().Get("web_id"))
			fmt.Fprint(w, `{"success":true,"data":"https://cdn.torbox/seven"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	tb := NewTorBox(testAPIKey, torbox.NewClient(server.URL), 0, logger.Nop())
	outcome := tb.Unrestrict(context.Background(), "https://pixeldrain.com/api/file/abc")

	require.Equal(t, DebridReady, outcome.State)
	assert.Equal(t, "https://cdn.torbox/seven", outcome.URL)
}
