package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/roster"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	svc    *roster.Service
	logger *zap.Logger
}

func NewUserHandler(svc *roster.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		mapError(w, err)
		return
	}

	u, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		h.logger.Warn("create user failed", zap.Error(err))
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

// GetByID handles GET /api/v1/users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// List handles GET /api/v1/users with an optional ?role= filter.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var role *domain.Role
	if v := r.URL.Query().Get("role"); v != "" {
		candidate := domain.Role(v)
		if !candidate.IsValid() {
			mapError(w, domain.ErrInvalidRole)
			return
		}
		role = &candidate
	}

	users, err := h.svc.ListUsers(r.Context(), role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data":  users,
		"total": len(users),
	})
}
