package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetSnapshot godoc
// @Summary      Get the latest derived market snapshot
// @Description  Returns the composite score, zone, regime, and the underlying market fields
// @Tags         snapshot
// @Produce      json
// @Success      200  {object}  domain.DerivedSnapshot
// @Failure      503  {object}  map[string]string
// @Router       /api/snapshot [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-snapshot")
	defer span.End()

	snap, ok := h.pipeline.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "warming up, no snapshot yet"})
		return
	}
	span.SetAttributes(attribute.Int("composite_score", snap.CompositeScore))

	c.JSON(http.StatusOK, snap)
}

// GetSources godoc
// @Summary      Get per-source cache freshness
// @Description  Returns capture time, age, and freshness for every cached source
// @Tags         snapshot
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/sources [get]
func (h *Handler) GetSources(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-sources")
	defer span.End()

	snap, ok := h.pipeline.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "warming up, no snapshot yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"computed_at": snap.ComputedAt,
		"sources":     snap.Sources,
	})
}
