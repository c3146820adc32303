package handler

import (
	"market-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotSource is the read-only surface the pipeline exposes to sinks.
type SnapshotSource interface {
	Latest() (domain.DerivedSnapshot, bool)
}

type Handler struct {
	tracer   trace.Tracer
	pipeline SnapshotSource
}

func New(tracer trace.Tracer, pipeline SnapshotSource) *Handler {
	return &Handler{
		tracer:   tracer,
		pipeline: pipeline,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/snapshot", h.GetSnapshot)
	r.GET("/api/sources", h.GetSources)
}
