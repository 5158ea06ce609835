package commons_test

import (
	"testing"

	"github.com/commonsapp/commons/pkg/commonsdk"
	"github.com/stretchr/testify/require"
)

// TestCommunityGate walks a member through every gate outcome the community
// page can produce.
func TestCommunityGate(t *testing.T) {
	baseURL, cleanup := setupCommonsContainer(t)
	defer cleanup()

	client := commonsdk.NewClient(baseURL)
	_, adminSession := bootstrapService(t, client)

	community, err := adminSession.CreateCommunity(t.Context(), commonsdk.CreateCommunityRequest{
		Slug: "acme",
		Name: "Acme Collective",
	})
	require.NoError(t, err)
	require.Equal(t, "acme", community.Slug)

	member, memberSession := createMember(t, client, adminSession)

	var apiErr *commonsdk.APIError

	// Anonymous callers are sent to login with the destination preserved.
	anon := client.NewSessionFromToken("")
	_, err = anon.GetCommunity(t.Context(), "acme")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "unauthenticated", apiErr.Code)
	require.Equal(t, "/login?next=%2Fv1%2Fcommunities%2Facme", apiErr.Description)

	// Authenticated but not a member: indistinguishable from no community.
	_, err = memberSession.GetCommunity(t.Context(), "acme")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeNotFound, apiErr.Code)

	// Unknown slug looks exactly the same.
	_, err = memberSession.GetCommunity(t.Context(), "no-such-community")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeNotFound, apiErr.Code)

	// Pending members are denied outright.
	_, err = adminSession.UpsertMembership(t.Context(), community.ID, member.ID,
		commonsdk.UpsertMembershipRequest{Role: "member", Status: "pending"})
	require.NoError(t, err)

	_, err = memberSession.GetCommunity(t.Context(), "acme")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeForbidden, apiErr.Code)

	// Suspended members land on the suspension page.
	_, err = adminSession.UpsertMembership(t.Context(), community.ID, member.ID,
		commonsdk.UpsertMembershipRequest{Role: "member", Status: "suspended"})
	require.NoError(t, err)

	_, err = memberSession.GetCommunity(t.Context(), "acme")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "suspended", apiErr.Code)
	require.Equal(t, "/suspended", apiErr.Description)

	// Active members get the page.
	_, err = adminSession.UpsertMembership(t.Context(), community.ID, member.ID,
		commonsdk.UpsertMembershipRequest{Role: "member", Status: "active"})
	require.NoError(t, err)

	page, err := memberSession.GetCommunity(t.Context(), "acme")
	require.NoError(t, err)
	require.Equal(t, community.ID, page.Community.ID)
	require.Equal(t, member.ID, page.Membership.UserID)
	require.Equal(t, "active", page.Membership.Status)

	// Addressing the community by raw id redirects to the canonical slug.
	_, err = memberSession.GetCommunity(t.Context(), community.ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "canonical_redirect", apiErr.Code)
	require.Equal(t, "/c/acme", apiErr.Description)
}

// TestCommunityGateStepUp verifies two-factor users cannot use a
// password-only session on gated pages.
func TestCommunityGateStepUp(t *testing.T) {
	baseURL, cleanup := setupCommonsContainer(t)
	defer cleanup()

	client := commonsdk.NewClient(baseURL)
	_, adminSession := bootstrapService(t, client)

	community, err := adminSession.CreateCommunity(t.Context(), commonsdk.CreateCommunityRequest{
		Slug: "acme",
		Name: "Acme Collective",
	})
	require.NoError(t, err)

	member, memberSession := createMember(t, client, adminSession)
	_, err = adminSession.UpsertMembership(t.Context(), community.ID, member.ID,
		commonsdk.UpsertMembershipRequest{Role: "member", Status: "active"})
	require.NoError(t, err)

	// Before enrollment the password session is enough.
	_, err = memberSession.GetCommunity(t.Context(), "acme")
	require.NoError(t, err)

	enrollTwoFactor(t, memberSession)

	// The pre-enrollment session was minted with password-only AMR, so the
	// gate now demands step-up.
	var apiErr *commonsdk.APIError
	_, err = memberSession.GetCommunity(t.Context(), "acme")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "step_up_required", apiErr.Code)
	require.Equal(t, "/login/verify?next=%2Fv1%2Fcommunities%2Facme", apiErr.Description)
}

// TestAdminEndpoints covers the platform-admin surface: user and community
// management plus the gate on the admin routes themselves.
func TestAdminEndpoints(t *testing.T) {
	baseURL, cleanup := setupCommonsContainer(t)
	defer cleanup()

	client := commonsdk.NewClient(baseURL)
	_, adminSession := bootstrapService(t, client)

	_, memberSession := createMember(t, client, adminSession)

	var apiErr *commonsdk.APIError

	// Regular users cannot reach the admin surface.
	_, err := memberSession.ListCommunities(t.Context())
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeForbidden, apiErr.Code)

	_, err = memberSession.CreateCommunity(t.Context(), commonsdk.CreateCommunityRequest{
		Slug: "sneaky", Name: "Sneaky",
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeForbidden, apiErr.Code)

	// Slug validation and uniqueness.
	_, err = adminSession.CreateCommunity(t.Context(), commonsdk.CreateCommunityRequest{
		Slug: "Not A Slug", Name: "Bad",
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeInvalidRequest, apiErr.Code)

	_, err = adminSession.CreateCommunity(t.Context(), commonsdk.CreateCommunityRequest{
		Slug: "acme", Name: "Acme",
	})
	require.NoError(t, err)

	_, err = adminSession.CreateCommunity(t.Context(), commonsdk.CreateCommunityRequest{
		Slug: "acme", Name: "Acme Again",
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeConflict, apiErr.Code)

	communities, err := adminSession.ListCommunities(t.Context())
	require.NoError(t, err)
	require.Len(t, communities, 1)

	// Duplicate email is a conflict; weak password a validation error.
	_, err = adminSession.CreateUser(t.Context(), commonsdk.CreateUserRequest{
		Email: memberEmail, DisplayName: "Duplicate", Password: memberPassword, PlatformRole: "user",
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeConflict, apiErr.Code)

	_, err = adminSession.CreateUser(t.Context(), commonsdk.CreateUserRequest{
		Email: "weak@example.com", DisplayName: "Weak", Password: "short", PlatformRole: "user",
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeInvalidRequest, apiErr.Code)

	// User listing is admin-only and covers both accounts created so far.
	_, err = memberSession.ListUsers(t.Context())
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeForbidden, apiErr.Code)

	users, err := adminSession.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 2)

	// Membership upsert against an unknown user is a 404.
	_, err = adminSession.UpsertMembership(t.Context(), communities[0].ID, "does-not-exist",
		commonsdk.UpsertMembershipRequest{Role: "member", Status: "active"})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeNotFound, apiErr.Code)
}
