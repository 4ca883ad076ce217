package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// Default database file permissions
	dbFileMode = 0600
	dbDirMode  = 0755

	// Default database filename
	defaultDBFile = "data.db"

	openTimeout = 5 * time.Second
)

var debridJobsBucket = []byte("debrid_jobs")

// BoltDB implements the Database interface using BoltDB.
type BoltDB struct {
	db *bolt.DB
}

// NewBolt creates a new BoltDB database instance.
// If dbPath is empty, uses the default database file in current directory.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(debridJobsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// Close closes the database connection.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// StoreDebridJob stores a job record, replacing any record with the same ID.
func (b *BoltDB) StoreDebridJob(job *DebridJob) error {
	if job.ID == "" {
		return fmt.Errorf("failed to store debrid job: empty id")
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode debrid job: %w", err)
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(debridJobsBucket).Put([]byte(job.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store debrid job: %w", err)
	}
	return nil
}

// GetDebridJobs retrieves all stored job records.
func (b *BoltDB) GetDebridJobs() ([]DebridJob, error) {
	return b.findJobs(func(DebridJob) bool { return true })
}

// GetOldDebridJobs returns job records older than the specified duration.
// Used primarily for cleanup operations.
func (b *BoltDB) GetOldDebridJobs(olderThan time.Duration) ([]DebridJob, error) {
	cutoff := time.Now().Add(-olderThan)
	return b.findJobs(func(job DebridJob) bool { return job.CreatedAt.Before(cutoff) })
}

// DeleteDebridJob removes a job record. Missing records are not an error.
func (b *BoltDB) DeleteDebridJob(id string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(debridJobsBucket).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete debrid job: %w", err)
	}
	return nil
}

func (b *BoltDB) findJobs(keep func(DebridJob) bool) ([]DebridJob, error) {
	var jobs []DebridJob
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(debridJobsBucket).ForEach(func(_, v []byte) error {
			var job DebridJob
			if err := json.Unmarshal(v, &job); err != nil {
				return err
			}
			if keep(job) {
				jobs = append(jobs, job)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read debrid jobs: %w", err)
	}
	return jobs, nil
}
