package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/internal/commons/service"
	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/pkg/commonsdk"
	"github.com/commonsapp/commons/pkg/httpx"
	"github.com/commonsapp/commons/pkg/slogx"
)

// AdminHandler is the platform-admin surface: user management, community
// management, membership management. Every request passes the platform-role
// gate first.
type AdminHandler struct {
	GateService      *service.GateService
	UserService      *service.UserService
	CommunityService *service.CommunityService
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	_, decision := h.GateService.RequirePlatformAdmin(r.Context(), claimsFromRequest(r), r.URL.Path)
	if !decision.Allowed() {
		writeDecision(w, r, decision)
		return false
	}
	return true
}

// HandleCreateUser handles POST /v1/admin/users
//
//	@Summary		Create a user
//	@Description	Creates a user with the given platform role. Platform admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		commonsdk.CreateUserRequest	true	"New user"
//	@Success		201		{object}	commonsdk.User
//	@Failure		400		{object}	commonsdk.ErrorResponse	"Validation failure"
//	@Failure		403		{object}	commonsdk.ErrorResponse	"Not a platform admin"
//	@Failure		409		{object}	commonsdk.ErrorResponse	"Email already registered"
//	@Router			/v1/admin/users [post].
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req commonsdk.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.CreateUser(ctx, req.Email, req.DisplayName,
		req.Password, domain.PlatformRole(req.PlatformRole))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			commonsdk.ErrConflict.WriteError(w)
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrInvalidPlatformRole),
			errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, commonsdk.ErrorCodeInvalidRequest, err.Error())
		default:
			log.Error("failed to create user", "err", err)
			commonsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, apiUser(user))
}

// HandleListUsers handles GET /v1/admin/users
//
//	@Summary		List users
//	@Description	Lists all users, newest first. Platform admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		commonsdk.User
//	@Failure		403	{object}	commonsdk.ErrorResponse	"Not a platform admin"
//	@Router			/v1/admin/users [get].
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		commonsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]commonsdk.User, 0, len(users))
	for _, u := range users {
		out = append(out, apiUser(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreateCommunity handles POST /v1/admin/communities
//
//	@Summary		Create a community
//	@Description	Creates an active community addressed by a unique slug. Platform admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		commonsdk.CreateCommunityRequest	true	"New community"
//	@Success		201		{object}	commonsdk.Community
//	@Failure		400		{object}	commonsdk.ErrorResponse	"Invalid slug"
//	@Failure		403		{object}	commonsdk.ErrorResponse	"Not a platform admin"
//	@Failure		409		{object}	commonsdk.ErrorResponse	"Slug already in use"
//	@Router			/v1/admin/communities [post].
func (h *AdminHandler) HandleCreateCommunity(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req commonsdk.CreateCommunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	community, err := h.CommunityService.CreateCommunity(ctx, req.Slug, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			commonsdk.ErrConflict.WriteError(w)
		case errors.Is(err, service.ErrInvalidSlug):
			httpx.WriteError(w, http.StatusBadRequest, commonsdk.ErrorCodeInvalidRequest, err.Error())
		default:
			log.Error("failed to create community", "err", err)
			commonsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, apiCommunity(community))
}

// HandleListCommunities handles GET /v1/admin/communities
//
//	@Summary		List communities
//	@Description	Lists all communities, newest first. Platform admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		commonsdk.Community
//	@Failure		403	{object}	commonsdk.ErrorResponse	"Not a platform admin"
//	@Router			/v1/admin/communities [get].
func (h *AdminHandler) HandleListCommunities(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	communities, err := h.CommunityService.ListCommunities(ctx)
	if err != nil {
		log.Error("failed to list communities", "err", err)
		commonsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]commonsdk.Community, 0, len(communities))
	for _, c := range communities {
		out = append(out, apiCommunity(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpsertMembership handles PUT /v1/admin/communities/{id}/members/{userID}
//
//	@Summary		Set a community membership
//	@Description	Creates or updates a (community, user) membership with the given role and status. Platform admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Community id"
//	@Param			userID	path		string								true	"User id"
//	@Param			request	body		commonsdk.UpsertMembershipRequest	true	"Role and status"
//	@Success		200		{object}	commonsdk.Membership
//	@Failure		400		{object}	commonsdk.ErrorResponse	"Invalid role or status"
//	@Failure		403		{object}	commonsdk.ErrorResponse	"Not a platform admin"
//	@Failure		404		{object}	commonsdk.ErrorResponse	"Unknown community or user"
//	@Router			/v1/admin/communities/{id}/members/{userID} [put].
func (h *AdminHandler) HandleUpsertMembership(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req commonsdk.UpsertMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commonsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	membership, err := h.CommunityService.UpsertMembership(ctx,
		r.PathValue("id"), r.PathValue("userID"),
		domain.MemberRole(req.Role), domain.MemberStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			commonsdk.ErrNotFound.WriteError(w)
		case errors.Is(err, service.ErrInvalidRole),
			errors.Is(err, service.ErrInvalidMemberStatus):
			httpx.WriteError(w, http.StatusBadRequest, commonsdk.ErrorCodeInvalidRequest, err.Error())
		default:
			log.Error("failed to upsert membership", "err", err)
			commonsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apiMembership(membership))
}
