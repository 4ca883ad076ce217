package services

import (
	"context"
	"sync"
	"time"

	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/database"
	"github.com/amaumene/gostremiour/pkg/logger"
)

// CleanupService manages periodic pruning of old debrid job records
type CleanupService struct {
	db              database.Database
	logger          logger.Logger
	interval        time.Duration
	retentionPeriod time.Duration
	mu              sync.Mutex
	running         bool
	stopChan        chan struct{}
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(db database.Database, log logger.Logger) *CleanupService {
	if log == nil {
		log = logger.New()
	}
	return &CleanupService{
		db:              db,
		logger:          log,
		interval:        constants.CleanupInterval,
		retentionPeriod: constants.DebridRetention,
		stopChan:        make(chan struct{}),
	}
}

// SetRetentionPeriod sets how long to keep job records before cleanup
func (c *CleanupService) SetRetentionPeriod(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retentionPeriod = duration
}

// SetInterval sets how often cleanup runs
func (c *CleanupService) SetInterval(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = duration
}

// Start begins the cleanup service
func (c *CleanupService) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	interval, retention := c.interval, c.retentionPeriod
	c.mu.Unlock()

	c.logger.Infof("[Cleanup] starting with interval: %v, retention: %v", interval, retention)

	c.performCleanup()
	go c.cleanupLoop(ctx, interval)

	return nil
}

// Stop stops the cleanup service
func (c *CleanupService) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	c.running = false
	close(c.stopChan)
	c.logger.Infof("[Cleanup] stopped")
}

func (c *CleanupService) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Stop()
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.performCleanup()
		}
	}
}

func (c *CleanupService) performCleanup() int {
	c.mu.Lock()
	retention := c.retentionPeriod
	c.mu.Unlock()

	oldJobs, err := c.db.GetOldDebridJobs(retention)
	if err != nil {
		c.logger.Errorf("[Cleanup] failed to get old debrid jobs: %v", err)
		return 0
	}
	if len(oldJobs) == 0 {
		c.logger.Debugf("[Cleanup] no old debrid jobs to clean up")
		return 0
	}

	cleaned := 0
	for _, job := range oldJobs {
		if err := c.db.DeleteDebridJob(job.ID); err != nil {
			c.logger.Errorf("[Cleanup] failed to delete job %s: %v", job.ID, err)
			continue
		}
		cleaned++
	}
	c.logger.Infof("[Cleanup] %d debrid jobs removed from database", cleaned)
	return cleaned
}

// CleanupNow performs an immediate cleanup and returns the number of records removed
func (c *CleanupService) CleanupNow() int {
	return c.performCleanup()
}
