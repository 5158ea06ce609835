package service

import (
	"context"
	"testing"
	"time"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/pkg/jwtx"
	"github.com/commonsapp/commons/pkg/totpx"

	"github.com/stretchr/testify/require"
)

func newLoginService(t *testing.T) (*LoginService, *TwoFactorService) {
	t.Helper()
	st := newTestStore(t)
	mfa := &TwoFactorService{Store: st, EncryptionKey: testEncryptionKey, Issuer: "Commons"}
	return &LoginService{
		Store:     st,
		Signer:    &jwtx.Signer{Key: []byte("login-test-signing-key"), Issuer: "commons"},
		TwoFactor: mfa,
	}, mfa
}

func TestLoginPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLoginService(t)

	user := seedUser(t, svc.Store, "alice@example.com", "correct-horse-battery", domain.RoleUser)

	t.Run("unknown email and wrong password deny identically", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "whatever-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login(ctx, "alice@example.com", "wrong-password-here")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("valid login without two-factor yields a session", func(t *testing.T) {
		result, err := svc.Login(ctx, "alice@example.com", "correct-horse-battery")
		require.NoError(t, err)
		require.False(t, result.StepUpRequired)
		require.NotEmpty(t, result.Token)
		require.Empty(t, result.ChallengeToken)

		claims, err := svc.Signer.Verify(result.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
		require.Equal(t, jwtx.UseSession, claims.Use)
		require.Equal(t, []string{jwtx.AMRPassword}, claims.AMR)
		require.False(t, claims.StepUpDone())
	})
}

func TestLoginStepUp(t *testing.T) {
	ctx := context.Background()
	svc, mfa := newLoginService(t)

	user := seedUser(t, svc.Store, "alice@example.com", "correct-horse-battery", domain.RoleUser)
	secret, recoveryCodes := enrollAndActivate(t, mfa, user.ID)

	login := func(t *testing.T) LoginResult {
		t.Helper()
		result, err := svc.Login(ctx, "alice@example.com", "correct-horse-battery")
		require.NoError(t, err)
		require.True(t, result.StepUpRequired)
		require.Empty(t, result.Token)
		require.NotEmpty(t, result.ChallengeToken)
		return result
	}

	t.Run("password alone only yields a challenge", func(t *testing.T) {
		result := login(t)
		claims, err := svc.Signer.Verify(result.ChallengeToken)
		require.NoError(t, err)
		require.Equal(t, jwtx.UseStepUp, claims.Use)
		require.False(t, claims.StepUpDone())
	})

	t.Run("totp code completes step-up", func(t *testing.T) {
		result := login(t)

		code, err := totpx.GenerateCodeAt(secret, time.Now().UTC())
		require.NoError(t, err)

		full, err := svc.VerifyStepUp(ctx, result.ChallengeToken, code, false)
		require.NoError(t, err)
		require.NotEmpty(t, full.Token)

		claims, err := svc.Signer.Verify(full.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
		require.Equal(t, jwtx.UseSession, claims.Use)
		require.True(t, claims.StepUpDone())

		// The session id survives the exchange.
		challenge, err := svc.Signer.Verify(result.ChallengeToken)
		require.NoError(t, err)
		require.Equal(t, challenge.SessionID, claims.SessionID)
	})

	t.Run("recovery code completes step-up once", func(t *testing.T) {
		result := login(t)

		full, err := svc.VerifyStepUp(ctx, result.ChallengeToken, recoveryCodes[0], true)
		require.NoError(t, err)
		require.NotEmpty(t, full.Token)

		// Spent codes are a uniform denial on reuse.
		result = login(t)
		_, err = svc.VerifyStepUp(ctx, result.ChallengeToken, recoveryCodes[0], true)
		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("wrong code is a uniform denial", func(t *testing.T) {
		result := login(t)
		_, err := svc.VerifyStepUp(ctx, result.ChallengeToken, "000000", false)
		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("a session token is not a challenge", func(t *testing.T) {
		session, err := svc.Signer.Sign(user.ID, jwtx.UseSession,
			[]string{jwtx.AMRPassword}, "sid", time.Minute)
		require.NoError(t, err)

		code, err := totpx.GenerateCodeAt(secret, time.Now().UTC())
		require.NoError(t, err)

		_, err = svc.VerifyStepUp(ctx, session, code, false)
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("garbage challenge token", func(t *testing.T) {
		_, err := svc.VerifyStepUp(ctx, "not-a-token", "000000", false)
		require.ErrorIs(t, err, ErrInvalidChallenge)
	})
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &UserService{Store: st}
	svc := &BootstrapService{Users: users, Token: "bootstrap-token"}

	t.Run("rejects a wrong token", func(t *testing.T) {
		_, err := svc.Bootstrap(ctx, "wrong", "root@example.com", "Root", "a-long-password")
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	})

	t.Run("creates the first superadmin", func(t *testing.T) {
		user, err := svc.Bootstrap(ctx, "bootstrap-token", "root@example.com", "Root", "a-long-password")
		require.NoError(t, err)
		require.Equal(t, domain.RoleSuperadmin, user.PlatformRole)
	})

	t.Run("closes permanently once a user exists", func(t *testing.T) {
		_, err := svc.Bootstrap(ctx, "bootstrap-token", "other@example.com", "Other", "a-long-password")
		require.ErrorIs(t, err, ErrBootstrapAlready)
	})
}
