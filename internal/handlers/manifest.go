package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/models"
)

func (h *Handler) handleManifest(c *gin.Context) {
	c.JSON(http.StatusOK, h.createManifest())
}

func (h *Handler) createManifest() models.Manifest {
	return models.Manifest{
		ID:          constants.AddonID,
		Version:     constants.AddonVersion,
		Name:        constants.AddonName,
		Description: constants.AddonDescription,
		Types:       []string{constants.MediaTypeSeries},
		Resources:   []string{"stream"},
		Catalogs:    []models.Catalog{},
		IDPrefixes:  []string{"tt"},
	}
}
