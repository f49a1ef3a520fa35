package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"sentinel/internal/api/dto"
	"sentinel/internal/blacklist"
)

// writeServiceError maps service-layer failures onto HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *blacklist.ValidationError
		conflictErr   *blacklist.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Error:   validationErr.Error(),
			Details: validationErr.Details,
		})
	case errors.As(err, &conflictErr):
		writeError(w, conflictErr.Error(), http.StatusConflict)
	case errors.Is(err, blacklist.ErrUnavailable):
		log.Error("Entry store unavailable", "error", err)
		resp := dto.ErrorResponse{Error: "Internal server error"}
		if s.debug {
			resp.Message = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	default:
		log.Error("Unhandled service error", "error", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}
