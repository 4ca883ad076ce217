package models

// SourceTag records how a stream URL was obtained.
type SourceTag string

const (
	// SourceDirect is the file API URL served as is.
	SourceDirect SourceTag = "direct"
	// SourceRedirected is the CDN location the file API redirected to.
	SourceRedirected SourceTag = "redirected"
	// SourceDebrid is a link unrestricted through the debrid service.
	SourceDebrid SourceTag = "debrid"
	// SourceDebridFailedFallback is the unresolved file API URL handed out
	// after the debrid service could not produce a link.
	SourceDebridFailedFallback SourceTag = "debrid_failed_fallback"
)

// CandidateLink is one file-host download reference found on an episode page.
type CandidateLink struct {
	HostFileID   string
	DisplayTitle string
	APIURL       string
}

// StreamResult is a resolved, playable location for one CandidateLink.
type StreamResult struct {
	Title  string    `json:"title"`
	URL    string    `json:"url"`
	Source SourceTag `json:"source"`
}

// Stream represents a single playable stream in Stremio format.
type Stream struct {
	Name          string               `json:"name,omitempty"`
	Title         string               `json:"title,omitempty"`
	URL           string               `json:"url"`
	BehaviorHints *StreamBehaviorHints `json:"behaviorHints,omitempty"`
}

// StreamBehaviorHints carries per-stream hints for the Stremio player.
type StreamBehaviorHints struct {
	NotWebReady bool   `json:"notWebReady,omitempty"`
	BingeGroup  string `json:"bingeGroup,omitempty"`
}

// StreamResponse is the response format for stream endpoints.
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}
