// Package handlers implements HTTP request handlers for the Stremio addon API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostremiour/internal/config"
	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/database"
	"github.com/amaumene/gostremiour/internal/services"
)

// Handler handles HTTP requests for the Stremio addon.
type Handler struct {
	services *services.Container
	config   *config.Config
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, config *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

// RegisterRoutes registers all HTTP routes for the Stremio addon.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)
	r.GET("/health", h.handleHealth)
	r.GET("/manifest.json", h.handleManifest)

	// Stream route - handle both with and without .json in the handler
	r.GET("/stream/:type/:id", h.handleStreamWrapper)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.String(http.StatusOK, "%s add-on. Install it from /manifest.json.", constants.AddonName)
}

func (h *Handler) handleHealth(c *gin.Context) {
	body := gin.H{
		"status":         "ok",
		"version":        constants.AddonVersion,
		"shows":          h.services.Mappings.Len(),
		"debrid_enabled": h.services.TorBox != nil && h.services.TorBox.Configured(),
	}

	if h.services.DB != nil {
		jobs, err := h.services.DB.GetDebridJobs()
		if err != nil {
			h.services.Logger.Errorf("[Health] failed to read debrid jobs: %v", err)
		} else {
			counts := map[string]int{database.JobStatusReady: 0, database.JobStatusFailed: 0}
			for _, job := range jobs {
				counts[job.Status]++
			}
			body["debrid_jobs"] = counts
		}
	}

	c.JSON(http.StatusOK, body)
}

func (h *Handler) handleStreamWrapper(c *gin.Context) {
	// Strip .json extension from ID if present
	stripJSONExtension(c, "id")
	h.handleStream(c)
}
