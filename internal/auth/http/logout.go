package http

import (
	"net/http"

	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/pkg/httpx"
)

// LogoutHandler serves POST /v1/auth/logout.
type LogoutHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Log out, revoking the presented access token
//	@Description	The bearer token must itself be a currently valid access token; its jti
//	@Description	is added to the revocation ledger.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	MessageResponse	"logged out"
//	@Failure		401	{object}	ErrorResponse	"invalid, expired, revoked or wrong-kind token"
//	@Failure		500	{object}	ErrorResponse	"internal error"
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	if err := h.Sessions.Logout(ctx, token); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}
