package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/worshipops/rosterd/internal/api/middleware"
	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/roster"
)

// ServiceHandler handles service and assignment endpoints.
type ServiceHandler struct {
	svc    *roster.Service
	logger *zap.Logger
}

func NewServiceHandler(svc *roster.Service, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/services
//
// Creates a service with its initial assignments; everyone assigned is
// notified (the previous assignment snapshot is empty).
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		mapError(w, err)
		return
	}

	svc, notified, err := h.svc.CreateService(r.Context(), req)
	if err != nil {
		h.logger.Warn("create service failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"service":       svc,
		"notifications": notified,
	})
}

// GetByID handles GET /api/v1/services/{id}
func (h *ServiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	svc, err := h.svc.GetService(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, svc)
}

// ListUpcoming handles GET /api/v1/services/upcoming?days=N
func (h *ServiceHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	days := 10
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 {
		days = d
	}

	services, err := h.svc.ListUpcoming(r.Context(), days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list upcoming services")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data":  services,
		"days":  days,
		"total": len(services),
	})
}

// SetSongList handles PUT /api/v1/services/{id}/songs
//
// Replaces the whole song list. Rejected with 403 unless the requesting
// director is assigned to the service.
func (h *ServiceHandler) SetSongList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.SetSongListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		mapError(w, err)
		return
	}

	svc, err := h.svc.SetSongList(r.Context(), id, req)
	if err != nil {
		h.logger.Warn("set song list failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.String("service_id", id),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, svc)
}

// UpdateAssignments handles PUT /api/v1/services/{id}/assignments
//
// Replaces the assignment set; only the people whose assignment changed
// are notified. The response carries the generated notification counts.
func (h *ServiceHandler) UpdateAssignments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateAssignmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		mapError(w, err)
		return
	}

	svc, notified, err := h.svc.UpdateAssignments(r.Context(), id, req)
	if err != nil {
		h.logger.Warn("update assignments failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.String("service_id", id),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"service":       svc,
		"notifications": notified,
	})
}
