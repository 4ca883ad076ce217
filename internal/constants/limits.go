// Package constants defines numerical limits and conversion factors.
package constants

const (
	// Listing pages examined per site before giving up
	DefaultMaxListingPages = 5

	// Concurrent per-link resolutions within one request
	MaxConcurrentLinks = 4

	// Upstream HTML read per page; the rest of the body is ignored
	MaxPageBytes = 8 << 20
)
