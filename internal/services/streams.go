package services

import (
	"context"
	"sync"

	"github.com/amaumene/gostremiour/internal/models"
	"github.com/amaumene/gostremiour/pkg/pixeldrain"
)

// buildStreams decides once, from the first link, whether the file host is
// serving, then resolves every link through the matching path. Results keep
// the order of links.
func (r *Resolver) buildStreams(ctx context.Context, links []models.CandidateLink) []models.StreamResult {
	availability, err := r.files.Probe(ctx, links[0].APIURL)
	if err != nil {
		r.logger.With("stage", "probe", "url", links[0].APIURL, "reason", err).Debugf("[Resolver] probe failed, assuming available")
	}
	r.logger.Infof("[Resolver] file host %s, resolving %d links", availability, len(links))

	results := make([]models.StreamResult, len(links))
	sem := make(chan struct{}, r.maxConcurrency)
	var wg sync.WaitGroup

	for i, link := range links {
		wg.Add(1)
		go func(i int, link models.CandidateLink) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if availability == pixeldrain.Unavailable {
				results[i] = r.viaDebrid(ctx, link)
			} else {
				results[i] = r.viaRedirect(ctx, link)
			}
		}(i, link)
	}
	wg.Wait()

	return results
}

func (r *Resolver) viaRedirect(ctx context.Context, link models.CandidateLink) models.StreamResult {
	resolved, err := r.files.Resolve(ctx, link.APIURL)
	if err != nil {
		r.logger.With("stage", "redirect", "url", link.APIURL, "reason", err).Warnf("[Resolver] failed to resolve, using api url")
	}

	source := models.SourceDirect
	if resolved != link.APIURL {
		source = models.SourceRedirected
	}
	return models.StreamResult{Title: link.DisplayTitle, URL: resolved, Source: source}
}

func (r *Resolver) viaDebrid(ctx context.Context, link models.CandidateLink) models.StreamResult {
	outcome := r.debrid.Unrestrict(ctx, link.APIURL)
	if outcome.State == DebridReady {
		return models.StreamResult{Title: link.DisplayTitle, URL: outcome.URL, Source: models.SourceDebrid}
	}
	return models.StreamResult{Title: link.DisplayTitle, URL: link.APIURL, Source: models.SourceDebridFailedFallback}
}
