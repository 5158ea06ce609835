package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/pkg/idx"

	"github.com/google/uuid"
)

var (
	ErrInvalidSlug         = errors.New("invalid slug")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidMemberStatus = errors.New("invalid member status")
	ErrSlugTaken           = errors.New("slug already in use")
)

// Slugs are lowercase kebab-case and must not look like a UUID, since a raw
// UUID in the community path triggers the gate's id fallback.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CommunityService manages communities and memberships (the admin surface
// behind the platform-role gate).
type CommunityService struct {
	Store store.Store
}

// CreateCommunity creates an active community with a fresh UUID id.
func (s *CommunityService) CreateCommunity(ctx context.Context, slug, name string) (domain.Community, error) {
	if !slugPattern.MatchString(slug) || len(slug) > 64 || isStrictUUID(slug) {
		return domain.Community{}, ErrInvalidSlug
	}

	if _, err := s.Store.Communities().GetCommunityBySlug(ctx, slug); err == nil {
		return domain.Community{}, ErrSlugTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Community{}, fmt.Errorf("failed to check slug: %w", err)
	}

	community := domain.Community{
		ID:     uuid.NewString(),
		Slug:   slug,
		Name:   name,
		Status: domain.CommunityActive,
	}
	if err := s.Store.Communities().CreateCommunity(ctx, community); err != nil {
		return domain.Community{}, fmt.Errorf("failed to create community: %w", err)
	}

	return s.Store.Communities().GetCommunityBySlug(ctx, slug)
}

func (s *CommunityService) ListCommunities(ctx context.Context) ([]domain.Community, error) {
	return s.Store.Communities().ListCommunities(ctx)
}

func (s *CommunityService) GetCommunityBySlug(ctx context.Context, slug string) (domain.Community, error) {
	return s.Store.Communities().GetCommunityBySlug(ctx, slug)
}

// UpsertMembership sets a user's role and status within a community,
// creating the membership row if it does not exist yet.
func (s *CommunityService) UpsertMembership(ctx context.Context, communityID, userID string, role domain.MemberRole, status domain.MemberStatus) (domain.Membership, error) {
	if !role.Valid() {
		return domain.Membership{}, ErrInvalidRole
	}
	if !status.Valid() {
		return domain.Membership{}, ErrInvalidMemberStatus
	}

	// Both sides must exist; FKs would catch this too, but the sentinel
	// errors map to cleaner responses.
	if _, err := s.Store.Communities().GetCommunityByID(ctx, communityID); err != nil {
		return domain.Membership{}, err
	}
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return domain.Membership{}, err
	}

	err := s.Store.Members().UpsertMembership(ctx, domain.Membership{
		ID:          idx.New().String(),
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		Status:      status,
	})
	if err != nil {
		return domain.Membership{}, fmt.Errorf("failed to upsert membership: %w", err)
	}

	return s.Store.Members().GetMembership(ctx, communityID, userID)
}
