package commons_test

import (
	"strings"
	"testing"
	"time"

	"github.com/commonsapp/commons/pkg/commonsdk"
	"github.com/commonsapp/commons/pkg/totpx"
	"github.com/stretchr/testify/require"
)

// TestBootstrapAndLogin covers the first-run path: bootstrap the superadmin,
// log in, and confirm bootstrap is closed afterwards.
func TestBootstrapAndLogin(t *testing.T) {
	baseURL, cleanup := setupCommonsContainer(t)
	defer cleanup()

	client := commonsdk.NewClient(baseURL)

	admin, _ := bootstrapService(t, client)
	require.Equal(t, adminEmail, admin.Email)

	// A second bootstrap is rejected regardless of token.
	_, err := client.Bootstrap(t.Context(), commonsdk.BootstrapRequest{
		Token:       bootstrapToken,
		Email:       "second@example.com",
		DisplayName: "Second",
		Password:    "Another123!long",
	})
	var apiErr *commonsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeForbidden, apiErr.Code)

	// Wrong password and unknown email deny with the same code.
	_, err = client.Login(t.Context(), adminEmail, "wrong-password-here")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeInvalidCredentials, apiErr.Code)

	_, err = client.Login(t.Context(), "nobody@example.com", "wrong-password-here")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeInvalidCredentials, apiErr.Code)
}

// TestTwoFactorLifecycle covers enrollment, step-up login, recovery code
// consumption, regeneration, and disable end to end.
func TestTwoFactorLifecycle(t *testing.T) {
	baseURL, cleanup := setupCommonsContainer(t)
	defer cleanup()

	client := commonsdk.NewClient(baseURL)
	_, adminSession := bootstrapService(t, client)

	secret, recoveryCodes := enrollTwoFactor(t, adminSession)

	status, err := adminSession.TwoFactorStatus(t.Context())
	require.NoError(t, err)
	require.True(t, status.Enabled)
	require.Equal(t, len(recoveryCodes), status.RecoveryCodesRemaining)

	// Password alone now only yields a challenge.
	resp, err := client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.True(t, resp.StepUpRequired)
	require.Empty(t, resp.Token)
	require.NotEmpty(t, resp.ChallengeToken)

	// A wrong code is a generic denial.
	_, err = client.VerifyStepUp(t.Context(), commonsdk.StepUpRequest{
		ChallengeToken: resp.ChallengeToken,
		Code:           "000000",
	})
	var apiErr *commonsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeInvalidCode, apiErr.Code)

	// The authenticator code completes step-up.
	code, err := totpx.GenerateCodeAt(secret, time.Now().UTC())
	require.NoError(t, err)

	full, err := client.VerifyStepUp(t.Context(), commonsdk.StepUpRequest{
		ChallengeToken: resp.ChallengeToken,
		Code:           code,
	})
	require.NoError(t, err)
	require.NotEmpty(t, full.Token)
	steppedUp := client.NewSessionFromToken(full.Token)

	// A recovery code also completes step-up, once. Submit it sloppily to
	// exercise normalization.
	resp, err = client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)
	sloppy := strings.ToLower(recoveryCodes[0][:4] + " " + recoveryCodes[0][4:])
	_, err = client.VerifyStepUp(t.Context(), commonsdk.StepUpRequest{
		ChallengeToken: resp.ChallengeToken,
		RecoveryCode:   sloppy,
	})
	require.NoError(t, err)

	resp, err = client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)
	_, err = client.VerifyStepUp(t.Context(), commonsdk.StepUpRequest{
		ChallengeToken: resp.ChallengeToken,
		RecoveryCode:   recoveryCodes[0],
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeInvalidCode, apiErr.Code)

	// Regeneration invalidates the remaining old codes.
	code, err = totpx.GenerateCodeAt(secret, time.Now().UTC())
	require.NoError(t, err)
	fresh, err := steppedUp.RegenerateRecoveryCodes(t.Context(), code)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.RecoveryCodes)

	resp, err = client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)
	_, err = client.VerifyStepUp(t.Context(), commonsdk.StepUpRequest{
		ChallengeToken: resp.ChallengeToken,
		RecoveryCode:   recoveryCodes[1],
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, commonsdk.ErrorCodeInvalidCode, apiErr.Code)

	// Disable, then password alone grants a full session again.
	code, err = totpx.GenerateCodeAt(secret, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, steppedUp.TwoFactorDisable(t.Context(), code))

	resp, err = client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.False(t, resp.StepUpRequired)
	require.NotEmpty(t, resp.Token)
}

// TestHealthEndpoints covers the liveness and readiness probes.
func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupCommonsContainer(t)
	defer cleanup()

	client := commonsdk.NewClient(baseURL)

	live, err := client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := client.Readyz(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
}

// TestLoginRateLimit verifies the strict profile actually bites on the login
// endpoint when production defaults are in force.
func TestLoginRateLimit(t *testing.T) {
	baseURL, cleanup := setupCommonsContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := commonsdk.NewClient(baseURL)

	var apiErr *commonsdk.APIError
	limited := false
	for range 20 {
		_, err := client.Login(t.Context(), "nobody@example.com", "wrong-password-here")
		require.Error(t, err)
		require.ErrorAs(t, err, &apiErr)
		if apiErr.Code == "rate_limit_exceeded" {
			limited = true
			break
		}
		require.Equal(t, commonsdk.ErrorCodeInvalidCredentials, apiErr.Code)
	}
	require.True(t, limited, "expected the strict limit to trigger within 20 attempts")
}
