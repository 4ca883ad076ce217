// Package database provides data persistence using BoltDB.
package database

import "time"

// Debrid job outcomes.
const (
	JobStatusReady  = "ready"
	JobStatusFailed = "failed"
)

// DebridJob records one submission of a file-host URL to the debrid service.
type DebridJob struct {
	ID            string    `json:"id"`
	SourceURL     string    `json:"source_url"`
	WebDownloadID string    `json:"web_download_id,omitempty"`
	DownloadURL   string    `json:"download_url,omitempty"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Database defines the interface for data persistence operations.
type Database interface {
	// StoreDebridJob inserts or replaces a job record
	StoreDebridJob(job *DebridJob) error
	// GetDebridJobs retrieves all stored job records
	GetDebridJobs() ([]DebridJob, error)
	// GetOldDebridJobs retrieves job records older than the specified duration
	GetOldDebridJobs(olderThan time.Duration) ([]DebridJob, error)
	// DeleteDebridJob removes a job record by ID
	DeleteDebridJob(id string) error
	// Close closes the database connection
	Close() error
}
