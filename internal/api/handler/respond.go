package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/worshipops/rosterd/internal/domain"
)

// validate checks the shape of inbound request DTOs (required fields,
// email formats). Domain invariants stay sentinel-error based.
var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// mapError translates domain sentinel errors to HTTP status codes.
// All mapping lives here so individual handlers stay concise.
func mapError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotServiceDirector):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidServiceID),
		errors.Is(err, domain.ErrInvalidServiceDate),
		errors.Is(err, domain.ErrInvalidLocation),
		errors.Is(err, domain.ErrInvalidAssignment),
		errors.Is(err, domain.ErrPracticeAfterDate),
		errors.Is(err, domain.ErrEmptySongList):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &validationErrs):
		respondError(w, http.StatusUnprocessableEntity, validationErrs.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
