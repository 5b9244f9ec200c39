package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/pkg/httpx"
	"github.com/ticketloft/auth/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register.
type RegisterHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Creates a user account with an email, password and optional full name.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerRequest	true	"email, password, full_name"
//	@Success		201		{object}	UserResponse	"the created user"
//	@Failure		400		{object}	ErrorResponse	"missing email or password"
//	@Failure		409		{object}	ErrorResponse	"email already registered"
//	@Failure		500		{object}	ErrorResponse	"internal error"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}

	user, err := h.Sessions.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if !errors.Is(err, service.ErrMissingCredential) && !errors.Is(err, service.ErrDuplicateIdentity) {
			log.Error("registration failed", "err", err)
		}
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newUserResponse(*user))
}
