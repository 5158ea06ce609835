package totpx_test

import (
	"encoding/base32"
	"strings"
	"testing"
	"time"

	"github.com/commonsapp/commons/pkg/totpx"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	secret, err := totpx.GenerateSecret()
	require.NoError(t, err)

	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	require.NoError(t, err)
	require.Len(t, raw, 20)

	other, err := totpx.GenerateSecret()
	require.NoError(t, err)
	require.NotEqual(t, secret, other)
}

func TestProvisioningURI(t *testing.T) {
	t.Parallel()

	secret, err := totpx.GenerateSecret()
	require.NoError(t, err)

	t.Run("builds standard key uri", func(t *testing.T) {
		uri, err := totpx.ProvisioningURI(secret, "alice@example.com", "Commons")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(uri, "otpauth://totp/Commons:alice@example.com?"))
		require.Contains(t, uri, "secret="+secret)
		require.Contains(t, uri, "issuer=Commons")
		require.Contains(t, uri, "algorithm=SHA1")
		require.Contains(t, uri, "digits=6")
		require.Contains(t, uri, "period=30")
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		a, err := totpx.ProvisioningURI(secret, "alice@example.com", "Commons")
		require.NoError(t, err)
		b, err := totpx.ProvisioningURI(secret, "alice@example.com", "Commons")
		require.NoError(t, err)
		require.Equal(t, a, b)
	})

	t.Run("rejects missing inputs", func(t *testing.T) {
		_, err := totpx.ProvisioningURI("", "alice@example.com", "Commons")
		require.ErrorIs(t, err, totpx.ErrInvalidSecret)

		_, err = totpx.ProvisioningURI(secret, "", "Commons")
		require.ErrorIs(t, err, totpx.ErrMissingAccount)

		_, err = totpx.ProvisioningURI(secret, "alice@example.com", "")
		require.ErrorIs(t, err, totpx.ErrMissingIssuer)
	})
}

func TestQRCodeDataURI(t *testing.T) {
	t.Parallel()

	secret, err := totpx.GenerateSecret()
	require.NoError(t, err)
	uri, err := totpx.ProvisioningURI(secret, "alice@example.com", "Commons")
	require.NoError(t, err)

	dataURI, err := totpx.QRCodeDataURI(uri)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataURI, "data:image/png;base64,"))
	require.Greater(t, len(dataURI), 100)

	_, err = totpx.QRCodeDataURI("  ")
	require.Error(t, err)
}

func TestVerifyCodeDriftTolerance(t *testing.T) {
	t.Parallel()

	secret, err := totpx.GenerateSecret()
	require.NoError(t, err)

	// Pin the reference time to the middle of a period so one period of
	// drift stays within the same accepted window set.
	now := time.Date(2026, 3, 14, 15, 9, 15, 0, time.UTC)

	code, err := totpx.GenerateCodeAt(secret, now)
	require.NoError(t, err)

	t.Run("valid at T and one period either side", func(t *testing.T) {
		require.True(t, totpx.VerifyCodeAt(code, secret, now))
		require.True(t, totpx.VerifyCodeAt(code, secret, now.Add(30*time.Second)))
		require.True(t, totpx.VerifyCodeAt(code, secret, now.Add(-30*time.Second)))
	})

	t.Run("rejected beyond the tolerance window", func(t *testing.T) {
		require.False(t, totpx.VerifyCodeAt(code, secret, now.Add(90*time.Second)))
		require.False(t, totpx.VerifyCodeAt(code, secret, now.Add(-90*time.Second)))
		require.False(t, totpx.VerifyCodeAt(code, secret, now.Add(24*time.Hour)))
	})
}

func TestVerifyCodeFailsClosed(t *testing.T) {
	t.Parallel()

	secret, err := totpx.GenerateSecret()
	require.NoError(t, err)
	now := time.Now().UTC()

	for _, code := range []string{
		"",
		"123",
		"1234567",
		"abcdef",
		"12 345",
		"000000\n",
	} {
		require.False(t, totpx.VerifyCodeAt(code, secret, now), "code %q", code)
	}

	// Garbage secret never verifies and never panics.
	require.False(t, totpx.VerifyCodeAt("123456", "not base32!", now))
	require.False(t, totpx.VerifyCodeAt("123456", "", now))
}

func TestVerifyCodeWrongCode(t *testing.T) {
	t.Parallel()

	secret, err := totpx.GenerateSecret()
	require.NoError(t, err)
	now := time.Now().UTC()

	code, err := totpx.GenerateCodeAt(secret, now)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	require.False(t, totpx.VerifyCodeAt(wrong, secret, now))
}
