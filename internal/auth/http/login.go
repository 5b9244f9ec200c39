package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/pkg/httpx"
	"github.com/ticketloft/auth/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Log in with email and password
//	@Description	Verifies the credentials and returns an access/refresh token pair.
//	@Description	The response shape is identical for unknown emails and wrong passwords.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"email, password"
//	@Success		200		{object}	TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	ErrorResponse	"malformed request"
//	@Failure		401		{object}	ErrorResponse	"invalid credentials"
//	@Failure		500		{object}	ErrorResponse	"internal error"
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}

	pair, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Error("login failed", "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}
