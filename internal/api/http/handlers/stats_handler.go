package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/observability"
	"github.com/spec-kit/triage-service/internal/service"
)

// StatsHandler exposes processing counters.
type StatsHandler struct {
	triage  *service.TriageService
	metrics *observability.Metrics
}

// NewStatsHandler constructs handler.
func NewStatsHandler(triage *service.TriageService, metrics *observability.Metrics) *StatsHandler {
	return &StatsHandler{triage: triage, metrics: metrics}
}

// Get GET /stats.
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	stats := h.triage.Stats()
	counters := h.metrics.TriageCounters()

	avgSeconds := 0.0
	if stats.TotalProcessed > 0 {
		avgSeconds = stats.TotalProcessing / float64(stats.TotalProcessed)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"total_processed":        stats.TotalProcessed,
		"completed":              stats.Completed,
		"failed":                 stats.Failed,
		"cache_hits":             stats.CacheHits,
		"avg_processing_seconds": avgSeconds,
		"last_processed_at":      stats.LastProcessedAt,
		"total_duration_ms":      counters.TotalDurationMS,
	}})
}
