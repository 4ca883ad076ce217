package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/cehbz/torrentname"
	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/models"
)

func (h *Handler) handleStream(c *gin.Context) {
	mediaType := c.Param("type")
	id := c.Param("id")

	// Resolution runs to completion even if Stremio drops the connection.
	ctx := context.WithoutCancel(c.Request.Context())

	h.services.Logger.Infof("[StreamHandler] processing %s request for %s", mediaType, id)
	results := h.services.Resolver.ResolveStreams(ctx, mediaType, id)

	streams := make([]models.Stream, 0, len(results))
	for _, result := range results {
		streams = append(streams, toStremioStream(result))
	}

	h.services.Logger.Infof("[StreamHandler] returning %d streams for %s", len(streams), id)
	c.JSON(http.StatusOK, models.StreamResponse{Streams: streams})
}

// toStremioStream renders a StreamResult the way the Stremio client lists it:
// the add-on name with the quality label, then the display title.
func toStremioStream(result models.StreamResult) models.Stream {
	name := constants.AddonName
	if label := qualityLabel(result.Title); label != "" {
		name += " " + label
	}
	if result.Source == models.SourceDebrid {
		name += " [TorBox]"
	}

	title := result.Title
	if title == "" {
		title = "Stream"
	}

	stream := models.Stream{
		Name:  name,
		Title: constants.AddonName + "\n" + title,
		URL:   result.URL,
	}
	if result.Source == models.SourceDebridFailedFallback {
		stream.BehaviorHints = &models.StreamBehaviorHints{NotWebReady: true}
	}
	return stream
}

func qualityLabel(title string) string {
	if title == "" {
		return ""
	}
	parsed := torrentname.Parse(title)
	if parsed == nil {
		return ""
	}
	return strings.TrimSpace(parsed.Resolution)
}
