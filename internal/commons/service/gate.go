package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/pkg/jwtx"
	"github.com/commonsapp/commons/pkg/slogx"

	"github.com/google/uuid"
)

const (
	loginPath         = "/login"
	stepUpPath        = "/login/verify"
	suspendedPath     = "/suspended"
	communityPathBase = "/c/"
)

// GateService evaluates the ordered access checks for a request: identity,
// then step-up, then the requested scope's authorization. It only produces a
// domain.Decision; translating that into redirects and status codes belongs
// to the transport layer.
//
// All state comes in through parameters. The gate holds no per-request state
// of its own, which keeps every check directly testable.
type GateService struct {
	Store store.Store
}

// RequireUser runs the identity and step-up checks shared by every gated
// scope. claims is nil when the request carried no (valid) session. dest is
// the originally requested path, preserved through redirects.
//
// On Allowed the loaded user is returned so callers don't re-fetch it.
func (s *GateService) RequireUser(ctx context.Context, claims *jwtx.Claims, dest string) (domain.User, domain.Decision) {
	if claims == nil || claims.Subject == "" {
		return domain.User{}, domain.Decision{
			Outcome:    domain.OutcomeUnauthenticated,
			RedirectTo: withNext(loginPath, dest),
		}
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// A token for a user that no longer exists is just an invalid
			// session.
			return domain.User{}, domain.Decision{
				Outcome:    domain.OutcomeUnauthenticated,
				RedirectTo: withNext(loginPath, dest),
			}
		}
		slogx.FromContext(ctx).Error("gate failed to load user",
			slog.String("user_id", claims.Subject), slog.Any("error", err))
		return domain.User{}, domain.Decision{
			Outcome:    domain.OutcomeUnauthenticated,
			RedirectTo: withNext(loginPath, dest),
		}
	}

	// Two-factor is enabled but this session never completed step-up.
	if user.TOTPActive() && !claims.StepUpDone() {
		return domain.User{}, domain.Decision{
			Outcome:    domain.OutcomeStepUpRequired,
			RedirectTo: withNext(stepUpPath, dest),
		}
	}

	return user, domain.Decision{Outcome: domain.OutcomeAllowed}
}

// RequirePlatformAdmin gates the platform admin surface: identity, step-up,
// then platform role admin or superadmin.
func (s *GateService) RequirePlatformAdmin(ctx context.Context, claims *jwtx.Claims, dest string) (domain.User, domain.Decision) {
	user, decision := s.RequireUser(ctx, claims, dest)
	if !decision.Allowed() {
		return domain.User{}, decision
	}

	if !user.PlatformRole.IsAdmin() {
		return domain.User{}, domain.Decision{Outcome: domain.OutcomeForbidden}
	}

	return user, domain.Decision{Outcome: domain.OutcomeAllowed}
}

// RequireCommunity gates a community-scoped request addressed by slugOrID.
// Resolution prefers the canonical slug; a raw community id is accepted only
// when it has strict UUID shape, and then answers with a canonical redirect
// to the slug address rather than serving the page.
//
// Membership mapping: no row -> NotFound (indistinguishable from an unknown
// community, to avoid enumeration), suspended -> Suspended, any other
// non-active status -> Forbidden. An Allowed decision stamps the membership's
// last-active time in the background; failure to stamp never blocks access.
func (s *GateService) RequireCommunity(ctx context.Context, claims *jwtx.Claims, slugOrID, dest string) domain.Decision {
	user, decision := s.RequireUser(ctx, claims, dest)
	if !decision.Allowed() {
		return decision
	}

	community, err := s.Store.Communities().GetCommunityBySlug(ctx, slugOrID)
	switch {
	case err == nil:
		// Matched by slug.
	case errors.Is(err, store.ErrNotFound) && isStrictUUID(slugOrID):
		community, err = s.Store.Communities().GetCommunityByID(ctx, slugOrID)
		if err != nil {
			return notFoundOrError(ctx, err, "community by id")
		}
		if community.Status != domain.CommunityActive {
			return domain.Decision{Outcome: domain.OutcomeNotFound}
		}
		return domain.Decision{
			Outcome:    domain.OutcomeCanonicalRedirect,
			RedirectTo: communityPathBase + community.Slug,
			Community:  &community,
		}
	default:
		return notFoundOrError(ctx, err, "community by slug")
	}

	if community.Status != domain.CommunityActive {
		return domain.Decision{Outcome: domain.OutcomeNotFound}
	}

	membership, err := s.Store.Members().GetMembership(ctx, community.ID, user.ID)
	if err != nil {
		return notFoundOrError(ctx, err, "membership")
	}

	switch membership.Status {
	case domain.MemberActive:
		// fall through
	case domain.MemberSuspended:
		return domain.Decision{Outcome: domain.OutcomeSuspended, RedirectTo: suspendedPath}
	default:
		return domain.Decision{Outcome: domain.OutcomeForbidden}
	}

	s.touchLastActive(ctx, community.ID, user.ID)

	return domain.Decision{
		Outcome:    domain.OutcomeAllowed,
		Community:  &community,
		Membership: &membership,
	}
}

// touchLastActive stamps the membership's last-active time without holding up
// the request. Last writer wins; a lost or failed stamp is harmless.
func (s *GateService) touchLastActive(ctx context.Context, communityID, userID string) {
	l := slogx.FromContext(ctx)
	bg := context.WithoutCancel(ctx)

	go func() {
		ctx, cancel := context.WithTimeout(bg, 5*time.Second)
		defer cancel()

		if err := s.Store.Members().TouchLastActive(ctx, communityID, userID); err != nil {
			l.Warn("failed to stamp last-active",
				slog.String("community_id", communityID),
				slog.String("user_id", userID),
				slog.Any("error", err))
		}
	}()
}

func notFoundOrError(ctx context.Context, err error, what string) domain.Decision {
	if !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Error(fmt.Sprintf("gate failed to load %s", what),
			slog.Any("error", err))
	}
	// Store failures deny as NotFound rather than leaking state.
	return domain.Decision{Outcome: domain.OutcomeNotFound}
}

// isStrictUUID accepts only the canonical 36-character hyphenated form, so an
// arbitrary slug can never be mistaken for an id lookup.
func isStrictUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func withNext(path, dest string) string {
	if dest == "" {
		return path
	}
	return path + "?next=" + url.QueryEscape(dest)
}
