package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/commonsapp/commons/internal/commons/service"
	"github.com/commonsapp/commons/pkg/commonsdk"
	"github.com/commonsapp/commons/pkg/httpx"
	"github.com/commonsapp/commons/pkg/slogx"
)

// TwoFactorHandler covers the authenticated two-factor management surface.
type TwoFactorHandler struct {
	TwoFactorService *service.TwoFactorService
	UserService      *service.UserService
}

// HandleSetup handles GET /v1/2fa/setup
//
//	@Summary		Start TOTP enrollment
//	@Description	Generates a secret, stores it encrypted in pending form, and returns the provisioning URI with a QR rendering. The secret itself never appears as a standalone field.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	commonsdk.TwoFactorSetupResponse
//	@Failure		400	{object}	commonsdk.ErrorResponse	"Already enabled"
//	@Failure		401	{object}	commonsdk.ErrorResponse	"Invalid or missing token"
//	@Failure		500	{object}	commonsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/2fa/setup [get].
func (h *TwoFactorHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		commonsdk.ErrInvalidToken.WriteError(w)
		return
	}

	setup, err := h.TwoFactorService.EnrollTOTP(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrTwoFactorAlreadyEnabled) {
			httpx.WriteError(w, http.StatusBadRequest, "already_enabled",
				"two-factor is already enabled")
			return
		}
		log.Error("failed to start enrollment", "user_id", userID, "err", err)
		commonsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, commonsdk.TwoFactorSetupResponse{
		URI:    setup.URI,
		QRCode: setup.QRCode,
	})
}

// HandleActivate handles POST /v1/2fa/activate
//
//	@Summary		Complete TOTP enrollment
//	@Description	Verifies a code against the pending secret, enables two-factor, and returns the recovery codes. The codes are shown exactly once.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		commonsdk.TwoFactorActivateRequest	true	"Code from the authenticator app"
//	@Success		200		{object}	commonsdk.RecoveryCodesResponse		"Recovery codes (shown once)"
//	@Failure		400		{object}	commonsdk.ErrorResponse				"Invalid code or no pending enrollment"
//	@Failure		401		{object}	commonsdk.ErrorResponse				"Invalid or missing token"
//	@Failure		500		{object}	commonsdk.ErrorResponse				"Internal server error"
//	@Router			/v1/2fa/activate [post].
func (h *TwoFactorHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		commonsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req commonsdk.TwoFactorActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	codes, err := h.TwoFactorService.ActivateTOTP(ctx, userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			commonsdk.ErrInvalidCode.WriteError(w)
		case errors.Is(err, service.ErrTwoFactorAlreadyEnabled):
			httpx.WriteError(w, http.StatusBadRequest, "already_enabled",
				"two-factor is already enabled")
		case errors.Is(err, service.ErrTwoFactorPendingNotFound):
			httpx.WriteError(w, http.StatusBadRequest, "not_enrolled",
				"no pending enrollment; call setup first")
		default:
			log.Error("failed to activate two-factor", "user_id", userID, "err", err)
			commonsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, commonsdk.RecoveryCodesResponse{RecoveryCodes: codes})
}

// HandleStatus handles GET /v1/2fa
//
//	@Summary		Two-factor status
//	@Description	Reports the caller's enrollment state and remaining recovery codes.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	commonsdk.TwoFactorStatusResponse
//	@Failure		401	{object}	commonsdk.ErrorResponse	"Invalid or missing token"
//	@Failure		500	{object}	commonsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/2fa [get].
func (h *TwoFactorHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		commonsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		log.Error("failed to load user", "user_id", userID, "err", err)
		commonsdk.ErrServerError.WriteError(w)
		return
	}

	remaining, err := h.TwoFactorService.RecoveryCodesRemaining(ctx, userID)
	if err != nil {
		log.Error("failed to count recovery codes", "user_id", userID, "err", err)
		commonsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, commonsdk.TwoFactorStatusResponse{
		Enabled:                user.TOTPActive(),
		EnabledAt:              user.TOTPEnabled,
		PendingSetup:           user.TOTPPendingAt != nil,
		RecoveryCodesRemaining: remaining,
	})
}

// HandleRegenerate handles POST /v1/2fa/recovery-codes
//
//	@Summary		Regenerate recovery codes
//	@Description	Replaces the recovery code set after a fresh TOTP code check. The new codes are shown exactly once; the old set stops working immediately.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		commonsdk.TwoFactorCodeRequest	true	"Fresh TOTP code"
//	@Success		200		{object}	commonsdk.RecoveryCodesResponse	"Recovery codes (shown once)"
//	@Failure		400		{object}	commonsdk.ErrorResponse			"Invalid code or two-factor not enabled"
//	@Failure		401		{object}	commonsdk.ErrorResponse			"Invalid or missing token"
//	@Failure		500		{object}	commonsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/2fa/recovery-codes [post].
func (h *TwoFactorHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		commonsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req commonsdk.TwoFactorCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	codes, err := h.TwoFactorService.RegenerateRecoveryCodes(ctx, userID, req.Code)
	if err != nil {
		writeTwoFactorCodeError(w, log, "regenerate recovery codes", userID, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, commonsdk.RecoveryCodesResponse{RecoveryCodes: codes})
}

// HandleDisable handles DELETE /v1/2fa
//
//	@Summary		Disable two-factor
//	@Description	Removes the two-factor credential and all recovery codes after a fresh TOTP code check.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Success		204	"Disabled"
//	@Failure		400	{object}	commonsdk.ErrorResponse	"Invalid code or two-factor not enabled"
//	@Failure		401	{object}	commonsdk.ErrorResponse	"Invalid or missing token"
//	@Failure		500	{object}	commonsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/2fa [delete].
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		commonsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req commonsdk.TwoFactorCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.TwoFactorService.DisableTOTP(ctx, userID, req.Code); err != nil {
		writeTwoFactorCodeError(w, log, "disable two-factor", userID, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

func writeTwoFactorCodeError(w http.ResponseWriter, log *slog.Logger, op, userID string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCode):
		commonsdk.ErrInvalidCode.WriteError(w)
	case errors.Is(err, service.ErrTwoFactorNotEnabled):
		httpx.WriteError(w, http.StatusBadRequest, "not_enabled",
			"two-factor is not enabled")
	default:
		log.Error("failed to "+op, "user_id", userID, "err", err)
		commonsdk.ErrServerError.WriteError(w)
	}
}
