package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/database"
	"github.com/amaumene/gostremiour/internal/errors"
	"github.com/amaumene/gostremiour/pkg/logger"
	"github.com/amaumene/gostremiour/pkg/ratelimiter"
	"github.com/amaumene/gostremiour/pkg/security"
	"github.com/amaumene/gostremiour/pkg/torbox"
)

// DebridState is the position of one link in the unrestriction flow.
type DebridState int

const (
	DebridSubmitted DebridState = iota
	DebridReady
	DebridFailed
)

func (s DebridState) String() string {
	switch s {
	case DebridSubmitted:
		return "submitted"
	case DebridReady:
		return "ready"
	default:
		return "failed"
	}
}

// DebridOutcome is the terminal state of Unrestrict.
type DebridOutcome struct {
	State  DebridState
	URL    string
	Reason error
}

// DebridClient is the subset of the TorBox API used by the fallback.
type DebridClient interface {
	CreateWebDownload(ctx context.Context, apiKey, sourceURL string) (*torbox.CreateResponse, error)
	RequestDownloadLink(ctx context.Context, apiKey, webID string) (*torbox.LinkResponse, error)
	CheckCached(ctx context.Context, apiKey, sourceURL string) (*torbox.LinkResponse, error)
}

type TorBox struct {
	apiKey      string
	client      DebridClient
	rateLimiter *ratelimiter.TokenBucket
	pollDelay   time.Duration
	logger      logger.Logger
	validator   *security.APIKeyValidator
	db          database.Database
}

// NewTorBox creates the debrid fallback. An empty apiKey leaves the service
// unconfigured: every Unrestrict call fails without touching the network.
func NewTorBox(apiKey string, client DebridClient, pollDelay time.Duration, log logger.Logger) *TorBox {
	validator := security.NewAPIKeyValidator()
	if client == nil {
		client = torbox.NewClient("")
	}
	if pollDelay < 0 {
		pollDelay = constants.DebridPollDelay
	}
	if log == nil {
		log = logger.New()
	}

	sanitizedKey := validator.SanitizeAPIKey(apiKey)
	if sanitizedKey != "" && !validator.IsValidTorBoxKey(sanitizedKey) {
		log.Warnf("[TorBox] api key %s does not look like a TorBox key", validator.MaskAPIKey(sanitizedKey))
	}

	return &TorBox{
		apiKey:      sanitizedKey,
		client:      client,
		rateLimiter: ratelimiter.NewTokenBucket(constants.TorBoxRateBurst, constants.TorBoxRateLimit),
		pollDelay:   pollDelay,
		logger:      log.With("stage", "debrid"),
		validator:   validator,
	}
}

// SetDB sets the database used to record job outcomes
func (t *TorBox) SetDB(db database.Database) {
	t.db = db
}

// Configured reports whether an API key is available.
func (t *TorBox) Configured() bool {
	return t.apiKey != ""
}

// Unrestrict submits sourceURL and checks once for a ready link, then falls
// back to the cache lookup. There is no polling loop.
func (t *TorBox) Unrestrict(ctx context.Context, sourceURL string) DebridOutcome {
	if !t.Configured() {
		return DebridOutcome{State: DebridFailed, Reason: errors.NewAPIKeyMissingError("TorBox")}
	}

	job := &database.DebridJob{ID: uuid.NewString(), SourceURL: sourceURL}
	outcome := t.unrestrict(ctx, sourceURL, job)
	t.record(job, outcome)

	if outcome.State == DebridReady {
		t.logger.Infof("[TorBox] stream ready for %s", sourceURL)
	} else {
		t.logger.With("url", sourceURL, "reason", outcome.Reason).Warnf("[TorBox] unrestriction failed")
	}
	return outcome
}

func (t *TorBox) unrestrict(ctx context.Context, sourceURL string, job *database.DebridJob) DebridOutcome {
	if err := t.rateLimiter.Wait(ctx); err != nil {
		return failed("rate limiter", err)
	}
	created, err := t.client.CreateWebDownload(ctx, t.apiKey, sourceURL)
	if err != nil {
		return failed("create web download", err)
	}
	if !created.Success {
		return failed("create web download rejected: "+created.Detail, nil)
	}
	job.WebDownloadID = created.ID
	t.logger.Debugf("[TorBox] web download %s created for %s", created.ID, sourceURL)

	select {
	case <-ctx.Done():
		return failed("waiting for processing", ctx.Err())
	case <-time.After(t.pollDelay):
	}

	if err := t.rateLimiter.Wait(ctx); err != nil {
		return failed("rate limiter", err)
	}
	link, err := t.client.RequestDownloadLink(ctx, t.apiKey, created.ID)
	if err != nil {
		t.logger.Debugf("[TorBox] requestdl for %s failed: %v", created.ID, err)
	} else if link.Success && link.URL != "" {
		return DebridOutcome{State: DebridReady, URL: link.URL}
	}

	if err := t.rateLimiter.Wait(ctx); err != nil {
		return failed("rate limiter", err)
	}
	cached, err := t.client.CheckCached(ctx, t.apiKey, sourceURL)
	if err != nil {
		return failed("check cached", err)
	}
	if cached.Success && cached.URL != "" {
		return DebridOutcome{State: DebridReady, URL: cached.URL}
	}
	return failed("download not ready and not cached", nil)
}

func (t *TorBox) record(job *database.DebridJob, outcome DebridOutcome) {
	if t.db == nil {
		return
	}
	job.Status = database.JobStatusFailed
	if outcome.State == DebridReady {
		job.Status = database.JobStatusReady
		job.DownloadURL = outcome.URL
	}
	if outcome.Reason != nil {
		job.Reason = outcome.Reason.Error()
	}
	if err := t.db.StoreDebridJob(job); err != nil {
		t.logger.Errorf("[TorBox] failed to record job %s: %v", job.ID, err)
	}
}

func failed(message string, cause error) DebridOutcome {
	return DebridOutcome{State: DebridFailed, Reason: errors.NewDebridError(message, cause)}
}
