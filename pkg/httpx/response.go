package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// WriteJSON writes a JSON response with the given status code. Token-bearing
// responses must never be cached, so this also sets no-cache headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error body with a machine-readable code and a
// human-readable description.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	WriteJSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ErrNoBearerToken is returned by BearerToken when the Authorization header
// is missing or not a Bearer credential.
var ErrNoBearerToken = errors.New("httpx: missing bearer token")

// BearerToken extracts the Bearer credential from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", ErrNoBearerToken
	}

	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	if token == "" {
		return "", ErrNoBearerToken
	}
	return token, nil
}
