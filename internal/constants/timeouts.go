// Package constants defines timeout values used throughout the application.
package constants

import "time"

const (
	// Timeout for each upstream page fetch
	PageFetchTimeout = 30 * time.Second

	// Quota probe against the file host
	AvailabilityProbeTimeout = 5 * time.Second

	// Time given to TorBox between job creation and the single status check
	DebridPollDelay = 2 * time.Second

	// Debrid job records older than this are pruned
	DebridRetention = 24 * time.Hour
	CleanupInterval = 1 * time.Hour
)
