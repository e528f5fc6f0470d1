package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/worker"
)

// ReminderHandler exposes the manual reminder scan trigger.
type ReminderHandler struct {
	scanner *worker.ReminderScanner
	logger  *zap.Logger
}

func NewReminderHandler(scanner *worker.ReminderScanner, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{scanner: scanner, logger: logger}
}

// Run handles POST /api/v1/reminders/run
//
// Kicks off the same scan the schedule runs. A trigger that overlaps a
// running scan is skipped and answered with 409 so the operator knows
// nothing was dispatched on this call.
func (h *ReminderHandler) Run(w http.ResponseWriter, r *http.Request) {
	ran, err := h.scanner.Scan(r.Context())
	if err != nil {
		h.logger.Error("manual reminder scan failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "reminder scan failed")
		return
	}
	if !ran {
		respondJSON(w, http.StatusConflict, map[string]string{"status": "scan already running, skipped"})
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "scan complete"})
}
