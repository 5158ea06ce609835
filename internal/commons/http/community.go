package http

import (
	"net/http"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/internal/commons/service"
	"github.com/commonsapp/commons/pkg/commonsdk"
	"github.com/commonsapp/commons/pkg/httpx"
)

// CommunityHandler serves community pages through the access gate.
type CommunityHandler struct {
	GateService *service.GateService
}

// HandleGet handles GET /v1/communities/{slug}
//
//	@Summary		Community page
//	@Description	Runs the full access gate for the community addressed by slug (or, for strict-UUID values, by raw id with a canonical redirect to the slug address). Redirect-class outcomes answer with a Location header; denial outcomes with the uniform error shape.
//	@Tags			Communities
//	@Security		BearerAuth
//	@Produce		json
//	@Param			slug	path		string	true	"Community slug (or raw UUID id)"
//	@Success		200		{object}	commonsdk.CommunityPageResponse
//	@Failure		303		"Login or step-up required"
//	@Failure		301		"Canonical slug redirect"
//	@Failure		403		{object}	commonsdk.ErrorResponse	"Forbidden or suspended"
//	@Failure		404		{object}	commonsdk.ErrorResponse	"No such community or no membership"
//	@Router			/v1/communities/{slug} [get].
func (h *CommunityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		commonsdk.ErrNotFound.WriteError(w)
		return
	}

	decision := h.GateService.RequireCommunity(r.Context(), claimsFromRequest(r), slug, r.URL.Path)
	if !decision.Allowed() {
		writeDecision(w, r, decision)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, commonsdk.CommunityPageResponse{
		Community:  apiCommunity(*decision.Community),
		Membership: apiMembership(*decision.Membership),
	})
}

func apiCommunity(c domain.Community) commonsdk.Community {
	return commonsdk.Community{
		ID:        c.ID,
		Slug:      c.Slug,
		Name:      c.Name,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}

func apiMembership(m domain.Membership) commonsdk.Membership {
	return commonsdk.Membership{
		CommunityID:  m.CommunityID,
		UserID:       m.UserID,
		Role:         string(m.Role),
		Status:       string(m.Status),
		LastActiveAt: m.LastActiveAt,
	}
}

func apiUser(u domain.User) commonsdk.User {
	return commonsdk.User{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PlatformRole: string(u.PlatformRole),
		TOTPEnabled:  u.TOTPActive(),
		CreatedAt:    u.CreatedAt,
	}
}
