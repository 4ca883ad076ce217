package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostremiour/internal/database"
	"github.com/amaumene/gostremiour/pkg/logger"
)

func TestCleanupNowRemovesOnlyOldJobs(t *testing.T) {
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.StoreDebridJob(&database.DebridJob{ID: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, db.StoreDebridJob(&database.DebridJob{ID: "fresh"}))

	cleanup := NewCleanupService(db, logger.Nop())
	cleanup.SetRetentionPeriod(24 * time.Hour)

	assert.Equal(t, 1, cleanup.CleanupNow())

	jobs, err := db.GetDebridJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "fresh", jobs[0].ID)
}

func TestCleanupStartStop(t *testing.T) {
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	defer db.Close()

	cleanup := NewCleanupService(db, logger.Nop())
	cleanup.SetInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, cleanup.Start(ctx))
	require.NoError(t, cleanup.Start(ctx))
	cleanup.Stop()
	cleanup.Stop()
}
