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

// LoginHandler covers password login and the step-up exchange that follows
// it for accounts with two-factor enabled.
type LoginHandler struct {
	LoginService *service.LoginService
}

// HandleLogin handles POST /v1/login
//
//	@Summary		Password login
//	@Description	Checks email and password. Accounts with two-factor enabled receive a short-lived challenge token and must call /v1/login/verify; others receive a full session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		commonsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	commonsdk.LoginResponse
//	@Failure		400		{object}	commonsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	commonsdk.ErrorResponse	"Invalid credentials"
//	@Failure		500		{object}	commonsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req commonsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.LoginService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			commonsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		commonsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse(result))
}

// HandleVerify handles POST /v1/login/verify
//
//	@Summary		Complete two-factor step-up
//	@Description	Exchanges the challenge token plus a TOTP code (or a single-use recovery code) for a full session token. All code failures return the same generic denial.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		commonsdk.StepUpRequest	true	"Challenge token and code"
//	@Success		200		{object}	commonsdk.LoginResponse
//	@Failure		400		{object}	commonsdk.ErrorResponse	"Invalid code"
//	@Failure		401		{object}	commonsdk.ErrorResponse	"Invalid or expired challenge"
//	@Failure		500		{object}	commonsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/login/verify [post].
func (h *LoginHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req commonsdk.StepUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.ChallengeToken == "" || (req.Code == "" && req.RecoveryCode == "") {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	code, recovery := req.Code, false
	if req.RecoveryCode != "" {
		code, recovery = req.RecoveryCode, true
	}

	result, err := h.LoginService.VerifyStepUp(ctx, req.ChallengeToken, code, recovery)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidChallenge):
			commonsdk.ErrInvalidToken.WriteError(w)
		case errors.Is(err, service.ErrInvalidCode):
			commonsdk.ErrInvalidCode.WriteError(w)
		default:
			log.Error("step-up verify failed", "err", err)
			commonsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse(result))
}

func loginResponse(result service.LoginResult) commonsdk.LoginResponse {
	resp := commonsdk.LoginResponse{
		Token:          result.Token,
		ChallengeToken: result.ChallengeToken,
		StepUpRequired: result.StepUpRequired,
		ExpiresIn:      result.ExpiresIn,
	}
	if resp.Token != "" {
		resp.TokenType = "Bearer"
	}
	return resp
}
