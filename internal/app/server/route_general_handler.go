package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"sentinel/internal/api/dto"
)

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.issuer.Token()
	if err != nil {
		log.Error("Failed to generate token", "error", err)
		writeError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTokenResponse(token))
}

func (s *Server) healthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewHealthStatus(s.health.Status(r.Context())))
}

// ping also answers HEAD, which ServeMux routes to GET patterns.
func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPingResponse(s.health.Ping()))
}
