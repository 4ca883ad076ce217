package services

import (
	"context"

	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/errors"
	"github.com/amaumene/gostremiour/internal/mapping"
	"github.com/amaumene/gostremiour/internal/models"
	"github.com/amaumene/gostremiour/internal/scraper"
	"github.com/amaumene/gostremiour/pkg/logger"
	"github.com/amaumene/gostremiour/pkg/pixeldrain"
)

// FileAPI probes and resolves file-host API URLs.
type FileAPI interface {
	Probe(ctx context.Context, apiURL string) (pixeldrain.Availability, error)
	Resolve(ctx context.Context, apiURL string) (string, error)
}

// Unrestricter turns a restricted source URL into a direct download.
type Unrestricter interface {
	Unrestrict(ctx context.Context, sourceURL string) DebridOutcome
}

// ResolverConfig carries the collaborators of a Resolver.
type ResolverConfig struct {
	Mappings        *mapping.Table
	Pages           scraper.AnchorSource
	Listing         *scraper.ListingSearch
	Extractor       *scraper.LinkExtractor
	Files           FileAPI
	Debrid          Unrestricter
	FallbackBaseURL string
	MaxConcurrency  int
	Logger          logger.Logger
}

// Resolver turns a series identifier into playable streams, trying the
// primary listing site first and the fallback site second.
type Resolver struct {
	mappings        *mapping.Table
	pages           scraper.AnchorSource
	listing         *scraper.ListingSearch
	extractor       *scraper.LinkExtractor
	files           FileAPI
	debrid          Unrestricter
	fallbackBaseURL string
	maxConcurrency  int
	logger          logger.Logger
}

func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = constants.MaxConcurrentLinks
	}
	if cfg.FallbackBaseURL == "" {
		cfg.FallbackBaseURL = constants.DefaultFallbackBaseURL
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.New()
	}
	return &Resolver{
		mappings:        cfg.Mappings,
		pages:           cfg.Pages,
		listing:         cfg.Listing,
		extractor:       cfg.Extractor,
		files:           cfg.Files,
		debrid:          cfg.Debrid,
		fallbackBaseURL: cfg.FallbackBaseURL,
		maxConcurrency:  cfg.MaxConcurrency,
		logger:          cfg.Logger,
	}
}

// ResolveStreams returns the streams for id. An empty result is a valid
// "nothing available" answer; failures are only visible in the logs.
func (r *Resolver) ResolveStreams(ctx context.Context, mediaType, id string) []models.StreamResult {
	if mediaType != constants.MediaTypeSeries {
		r.logger.Debugf("[Resolver] ignoring %s request for %s", mediaType, id)
		return []models.StreamResult{}
	}

	req, err := models.ParseEpisodeRequest(id)
	if err != nil {
		r.logger.With("stage", "parse", "reason", err).Warnf("[Resolver] rejecting id %q", id)
		return []models.StreamResult{}
	}

	show, ok := r.mappings.Lookup(req.ShowKey)
	if !ok {
		r.logger.With("stage", "mapping", "reason", errors.NewMappingMissError(req.ShowKey)).Infof("[Resolver] no mapping found for %s", req.ShowKey)
		return []models.StreamResult{}
	}

	target := show.Target(req.Season, req.Episode)
	if target.AbsoluteEpisode != req.Episode {
		r.logger.Infof("[Resolver] applied offset for season %d: %d -> episode %d", req.Season, req.Episode, target.AbsoluteEpisode)
	}

	if links := r.primaryLinks(ctx, req, show, target); len(links) > 0 {
		return r.buildStreams(ctx, links)
	}
	if links := r.fallbackLinks(ctx, show, target); len(links) > 0 {
		return r.buildStreams(ctx, links)
	}

	r.logger.Infof("[Resolver] no streams for %s (target episode %d)", req, target.AbsoluteEpisode)
	return []models.StreamResult{}
}

func (r *Resolver) primaryLinks(ctx context.Context, req models.EpisodeRequest, show mapping.ShowMapping, target mapping.ResolvedTarget) []models.CandidateLink {
	episodeURL, ok := r.listing.Find(ctx, scraper.ListingQuery{
		BaseURL:    show.BaseURL,
		Season:     req.Season,
		Episode:    target.AbsoluteEpisode,
		HasOffsets: show.HasOffsets(),
	})
	if !ok {
		return nil
	}
	return r.linksFrom(ctx, "episode", episodeURL)
}

func (r *Resolver) fallbackLinks(ctx context.Context, show mapping.ShowMapping, target mapping.ResolvedTarget) []models.CandidateLink {
	pageURL, err := scraper.FallbackEpisodeURL(r.fallbackBaseURL, show.BaseURL, target.AbsoluteEpisode)
	if err != nil {
		r.logger.With("stage", "fallback", "url", show.BaseURL, "reason", err).Warnf("[Resolver] cannot build fallback url")
		return nil
	}
	r.logger.Infof("[Resolver] trying fallback site: %s", pageURL)
	return r.linksFrom(ctx, "fallback", pageURL)
}

func (r *Resolver) linksFrom(ctx context.Context, stage, pageURL string) []models.CandidateLink {
	anchors, err := r.pages.Anchors(ctx, pageURL)
	if err != nil {
		r.logger.With("stage", stage, "url", pageURL, "reason", err).Warnf("[Resolver] page fetch failed")
		return nil
	}

	links := r.extractor.Extract(anchors)
	if len(links) == 0 {
		r.logger.With("stage", stage, "url", pageURL, "reason", errors.NewFormatDriftError(pageURL, "download links")).Infof("[Resolver] no streams found on page")
	}
	return links
}
