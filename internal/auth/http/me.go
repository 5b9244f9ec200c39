package http

import (
	"net/http"

	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/pkg/httpx"
	"github.com/ticketloft/auth/pkg/slogx"
)

// MeHandler serves GET /v1/auth/me. It runs behind the authn middleware, so
// by the time it executes the claims in context are fully verified.
type MeHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Get the authenticated user's profile
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse	"id, email, full_name"
//	@Failure		401	{object}	ErrorResponse	"invalid or missing access token"
//	@Failure		500	{object}	ErrorResponse	"internal error"
//	@Router			/v1/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, err := service.SubjectID(httpx.SubjectFromCtx(ctx))
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token subject is not a user id")
		return
	}

	user, err := h.Sessions.GetUser(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}
