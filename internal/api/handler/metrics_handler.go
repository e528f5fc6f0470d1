package handler

import (
	"net/http"

	"github.com/worshipops/rosterd/internal/queue"
)

// MetricsHandler serves a human-readable JSON queue snapshot.
// Raw Prometheus metrics (counters, histograms) are available at /metrics
// via promhttp.Handler and are separate from this endpoint.
type MetricsHandler struct {
	q *queue.EventQueue
}

func NewMetricsHandler(q *queue.EventQueue) *MetricsHandler {
	return &MetricsHandler{q: q}
}

// GetMetrics handles GET /api/v1/metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	urgent, reminders := h.q.Depths()
	respondJSON(w, http.StatusOK, map[string]any{
		"queue_depth": map[string]int{
			"urgent":    urgent,
			"reminders": reminders,
			"total":     urgent + reminders,
		},
	})
}
