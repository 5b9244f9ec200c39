package http

import (
	"encoding/json"
	"net/http"

	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/pkg/httpx"
)

// RefreshHandler serves POST /v1/auth/refresh.
type RefreshHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Exchange a refresh token for a new access token
//	@Description	The refresh token must be valid, of kind "refresh" and not revoked.
//	@Description	The refresh token itself is not rotated by this exchange.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		refreshRequest	true	"refresh_token"
//	@Success		200		{object}	TokenResponse	"access_token, token_type, expires_in"
//	@Failure		400		{object}	ErrorResponse	"malformed request"
//	@Failure		401		{object}	ErrorResponse	"invalid, expired, revoked or wrong-kind token"
//	@Failure		500		{object}	ErrorResponse	"internal error"
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if req.RefreshToken == "" {
		writeBadRequest(w, "refresh_token is required")
		return
	}

	pair, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}
