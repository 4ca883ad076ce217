// Package constants defines application-wide constants and default values.
package constants

const (
	// Addon metadata
	AddonID          = "org.qayadat.stremio"
	AddonVersion     = "1.1.0"
	AddonName        = "Qayadat Play"
	AddonDescription = "Watch Turkish shows with Urdu/English subtitles from Qayadat Play"

	// Default configuration values
	DefaultPort        = "7000"
	DefaultLogLevel    = "info"
	DefaultMappingFile = "mapping.json"

	// Upstream sites
	DefaultPrimaryBaseURL  = "https://play.qayadat.org"
	DefaultFallbackBaseURL = "https://qayadatplay.com"

	// Cache settings
	DefaultCacheSize = 500
	DefaultCacheTTL  = 6 // hours

	// Rate limiting
	TorBoxRateBurst = 10 // burst capacity
	TorBoxRateLimit = 5  // requests per second
)

// Stremio content types.
const (
	MediaTypeSeries = "series"
	MediaTypeMovie  = "movie"
)
