// Package services provides the stream resolution pipeline and the
// dependency injection container wiring it together.
package services

import (
	"context"

	"github.com/amaumene/gostremiour/internal/database"
	"github.com/amaumene/gostremiour/internal/mapping"
	"github.com/amaumene/gostremiour/internal/models"
	"github.com/amaumene/gostremiour/pkg/logger"
)

// Container holds all application services for dependency injection.
type Container struct {
	Resolver StreamResolver
	TorBox   *TorBox
	Mappings *mapping.Table
	DB       database.Database
	Cleanup  *CleanupService
	Logger   logger.Logger
}

// StreamResolver defines the stream lookup served to the add-on routes.
type StreamResolver interface {
	ResolveStreams(ctx context.Context, mediaType, id string) []models.StreamResult
}
