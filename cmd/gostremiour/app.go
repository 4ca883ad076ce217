package main

import (
	"fmt"

	"github.com/amaumene/gostremiour/internal/cache"
	"github.com/amaumene/gostremiour/internal/config"
	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/database"
	"github.com/amaumene/gostremiour/internal/mapping"
	"github.com/amaumene/gostremiour/internal/scraper"
	"github.com/amaumene/gostremiour/internal/services"
	"github.com/amaumene/gostremiour/pkg/httputil"
	"github.com/amaumene/gostremiour/pkg/logger"
	"github.com/amaumene/gostremiour/pkg/pixeldrain"
	"github.com/amaumene/gostremiour/pkg/torbox"
)

// app is the wired resolution pipeline shared by every command.
type app struct {
	container    *services.Container
	fetcher      *scraper.Fetcher
	listingCache *cache.LRU[string]
}

type appOptions struct {
	// withDatabase opens the debrid job store; one-shot commands skip it.
	withDatabase bool
}

func newApp(cfg *config.Config, log logger.Logger, opts appOptions) (*app, error) {
	table, warnings, err := mapping.Load(cfg.MappingFile)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warnf("[App] mapping: %s", w)
	}
	table = table.WithBaseURL(cfg.PrimaryBaseURL)
	log.Infof("[App] loaded %d show mappings from %s", table.Len(), cfg.MappingFile)

	files, err := pixeldrain.NewClient(cfg.PixeldrainBaseURL, cfg.ProbeTimeout.Std())
	if err != nil {
		return nil, fmt.Errorf("failed to configure file host: %w", err)
	}

	fetcher := scraper.NewFetcher(httputil.NewHTTPClient(constants.PageFetchTimeout), scraper.GoqueryReader{})

	a := &app{fetcher: fetcher}
	var found cache.Cache[string]
	if cfg.CacheSize > 0 {
		a.listingCache = cache.New[string](cfg.CacheSize, cfg.CacheTTL.Std())
		found = a.listingCache
	}

	tb := services.NewTorBox(cfg.TorBoxAPIKey, torbox.NewClient(cfg.TorBoxAPIURL), cfg.DebridPollDelay.Std(), log)
	if !tb.Configured() {
		log.Warnf("[App] TORBOX_API_KEY not set, quota-limited links will be served unresolved")
	}

	var db database.Database
	if opts.withDatabase {
		db, err = database.NewBolt(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		tb.SetDB(db)
		log.Infof("[App] bbolt database initialized at %s", cfg.DatabasePath)
	}

	resolver := services.NewResolver(services.ResolverConfig{
		Mappings:        table,
		Pages:           fetcher,
		Listing:         scraper.NewListingSearch(fetcher, cfg.MaxPages, found, log),
		Extractor:       scraper.NewLinkExtractor(files),
		Files:           files,
		Debrid:          tb,
		FallbackBaseURL: cfg.FallbackBaseURL,
		MaxConcurrency:  constants.MaxConcurrentLinks,
		Logger:          log,
	})

	a.container = &services.Container{
		Resolver: resolver,
		TorBox:   tb,
		Mappings: table,
		DB:       db,
		Logger:   log,
	}
	if db != nil {
		cleanup := services.NewCleanupService(db, log)
		cleanup.SetRetentionPeriod(cfg.DebridRetention.Std())
		a.container.Cleanup = cleanup
	}
	return a, nil
}

func (a *app) Close() error {
	if a.container.Cleanup != nil {
		a.container.Cleanup.Stop()
	}
	if a.container.DB != nil {
		return a.container.DB.Close()
	}
	return nil
}
