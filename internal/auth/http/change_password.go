package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/pkg/httpx"
	"github.com/ticketloft/auth/pkg/slogx"
)

// ChangePasswordHandler serves POST /v1/auth/change-password. Runs behind
// the authn middleware; the old password must additionally verify before
// the new one is accepted.
type ChangePasswordHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Change the authenticated user's password
//	@Description	Requires a valid access token and the current password.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		changePasswordRequest	true	"old_password, new_password"
//	@Success		200		{object}	MessageResponse			"password changed"
//	@Failure		400		{object}	ErrorResponse			"missing fields"
//	@Failure		401		{object}	ErrorResponse			"invalid token or wrong old password"
//	@Failure		500		{object}	ErrorResponse			"internal error"
//	@Router			/v1/auth/change-password [post].
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, err := service.SubjectID(httpx.SubjectFromCtx(ctx))
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token subject is not a user id")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}

	if err := h.Sessions.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) && !errors.Is(err, service.ErrMissingCredential) {
			log.Error("password change failed", "user_id", userID, "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "password changed"})
}
