package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/commonsapp/commons/internal/commons/service"
	"github.com/commonsapp/commons/pkg/commonsdk"
	"github.com/commonsapp/commons/pkg/httpx"
	"github.com/commonsapp/commons/pkg/slogx"
)

// BootstrapHandler creates the first superadmin on an empty system.
type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// HandleBootstrap handles POST /v1/bootstrap
//
//	@Summary		Bootstrap the system
//	@Description	Creates the first superadmin. Only works while no user exists; optionally guarded by a pre-shared token.
//	@Tags			System
//	@Accept			json
//	@Produce		json
//	@Param			request	body		commonsdk.BootstrapRequest	true	"First admin account"
//	@Success		201		{object}	commonsdk.User
//	@Failure		400		{object}	commonsdk.ErrorResponse	"Validation failure"
//	@Failure		403		{object}	commonsdk.ErrorResponse	"Wrong token or already bootstrapped"
//	@Failure		500		{object}	commonsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req commonsdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.BootstrapService.Bootstrap(ctx, req.Token, req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready),
			errors.Is(err, service.ErrBootstrapUnauthorized):
			// Identical response either way: don't tell probers whether a
			// system is bootstrapped.
			commonsdk.ErrForbidden.WriteError(w)
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, commonsdk.ErrorCodeInvalidRequest, err.Error())
		default:
			log.Error("bootstrap failed", "err", err)
			commonsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, apiUser(user))
}
