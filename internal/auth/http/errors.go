package http

import (
	"errors"
	"net/http"

	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/internal/auth/store"
	"github.com/ticketloft/auth/pkg/httpx"
	"github.com/ticketloft/auth/pkg/jwtx"
)

// writeServiceError maps a service-layer verdict onto an HTTP response. All
// token and credential failures are terminal 401s; only input-shape errors
// get a 4xx of their own.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, jwtx.ErrTokenExpired):
		httpx.WriteError(w, http.StatusUnauthorized, "token_expired", "token expired")
	case errors.Is(err, jwtx.ErrTokenInvalid):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token verification failed")
	case errors.Is(err, service.ErrTokenRevoked):
		httpx.WriteError(w, http.StatusUnauthorized, "token_revoked", "token has been revoked")
	case errors.Is(err, service.ErrWrongTokenKind):
		httpx.WriteError(w, http.StatusUnauthorized, "wrong_token_kind", "token kind not valid for this endpoint")
	case errors.Is(err, service.ErrMissingCredential):
		httpx.WriteError(w, http.StatusBadRequest, "missing_credential", "required credential fields are missing")
	case errors.Is(err, service.ErrDuplicateIdentity):
		httpx.WriteError(w, http.StatusConflict, "duplicate_identity", "an account with this email already exists")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "record not found")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
	}
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", desc)
}
