package server

import (
	"encoding/json"
	"net/http"

	"sentinel/internal/api/dto"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Routes builds the full handler chain.
func (s *Server) Routes() http.Handler {
	router := http.NewServeMux()

	router.Handle("POST /blacklists", s.gate.RequireAuth(http.HandlerFunc(s.addBlacklistEntry)))
	router.Handle("GET /blacklists/{email}", s.gate.RequireAuth(http.HandlerFunc(s.checkBlacklistEntry)))
	router.Handle("GET /blacklists/{$}", s.gate.RequireAuth(http.HandlerFunc(s.checkBlacklistEntry)))

	router.HandleFunc("POST /token", s.issueToken)
	router.HandleFunc("GET /health", s.healthStatus)
	router.HandleFunc("GET /ping", s.ping)

	return enableCORS(logRequests(recoverPanics(captureOrigin(router))))
}
