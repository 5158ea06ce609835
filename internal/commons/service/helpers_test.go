package service

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/internal/commons/store/drivers/sqlite"
	"github.com/commonsapp/commons/pkg/cryptox"
	"github.com/commonsapp/commons/pkg/idx"
	"github.com/commonsapp/commons/pkg/jwtx"
	"github.com/commonsapp/commons/pkg/totpx"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testEncryptionKey = mustKey()

func mustKey() []byte {
	key, err := cryptox.ParseKey(
		"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	if err != nil {
		panic(err)
	}
	return key
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, email, password string, role domain.PlatformRole) domain.User {
	t.Helper()
	ctx := context.Background()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: hash,
		PlatformRole: role,
	}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	got, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	return got
}

func seedCommunity(t *testing.T, st store.Store, slug string, status domain.CommunityStatus) domain.Community {
	t.Helper()
	ctx := context.Background()

	community := domain.Community{
		ID:     uuid.NewString(),
		Slug:   slug,
		Name:   slug,
		Status: status,
	}
	require.NoError(t, st.Communities().CreateCommunity(ctx, community))

	got, err := st.Communities().GetCommunityBySlug(ctx, slug)
	require.NoError(t, err)
	return got
}

func seedMembership(t *testing.T, st store.Store, communityID, userID string, role domain.MemberRole, status domain.MemberStatus) {
	t.Helper()
	require.NoError(t, st.Members().UpsertMembership(context.Background(), domain.Membership{
		ID:          idx.New().String(),
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		Status:      status,
	}))
}

// enrollAndActivate walks a user through the full enrollment flow and returns
// the plaintext secret plus the issued recovery codes.
func enrollAndActivate(t *testing.T, svc *TwoFactorService, userID string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	setup, err := svc.EnrollTOTP(ctx, userID)
	require.NoError(t, err)

	secret := secretFromURI(t, setup.URI)

	code, err := totpx.GenerateCodeAt(secret, time.Now().UTC())
	require.NoError(t, err)

	codes, err := svc.ActivateTOTP(ctx, userID, code)
	require.NoError(t, err)
	return secret, codes
}

func secretFromURI(t *testing.T, uri string) string {
	t.Helper()
	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	secret := parsed.Query().Get("secret")
	require.NotEmpty(t, secret)
	return secret
}

func sessionClaims(userID string, amr ...string) *jwtx.Claims {
	return &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Use:              jwtx.UseSession,
		AMR:              amr,
		SessionID:        idx.New().String(),
	}
}
