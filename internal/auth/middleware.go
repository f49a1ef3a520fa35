package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
)

// RequireAuth rejects requests the gate does not admit with 401 and stores
// the admitted Identity on the request context.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			log.Debug("Rejected request", "path", r.URL.Path, "reason", err)
			writeUnauthorized(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "invalid_identity",
		"message": Reason(err),
	})
}

// Reason is the caller-facing text for a rejection.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "Missing Authorization Header"
	case errors.Is(err, ErrMalformedCredential):
		return "Missing 'Bearer' type in 'Authorization' header. Expected 'Authorization: Bearer <JWT>'"
	case errors.Is(err, ErrExpiredCredential):
		return "Token has expired"
	case errors.Is(err, ErrMissingIdentity):
		return "Invalid token identity"
	default:
		return "Invalid token"
	}
}
