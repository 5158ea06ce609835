package cryptox_test

import (
	"strings"
	"testing"

	"github.com/commonsapp/commons/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := cryptox.ParseKey(testKeyHex)
	require.NoError(t, err)
	return key
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	t.Run("accepts 64 hex characters", func(t *testing.T) {
		key, err := cryptox.ParseKey(testKeyHex)
		require.NoError(t, err)
		require.Len(t, key, cryptox.KeySize)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		_, err := cryptox.ParseKey("")
		require.ErrorIs(t, err, cryptox.ErrKeyNotConfigured)

		_, err = cryptox.ParseKey("   ")
		require.ErrorIs(t, err, cryptox.ErrKeyNotConfigured)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := cryptox.ParseKey("abcd")
		require.ErrorIs(t, err, cryptox.ErrInvalidKey)

		_, err = cryptox.ParseKey(testKeyHex + "00")
		require.ErrorIs(t, err, cryptox.ErrInvalidKey)
	})

	t.Run("rejects non-hex characters", func(t *testing.T) {
		bad := "zz" + testKeyHex[2:]
		_, err := cryptox.ParseKey(bad)
		require.ErrorIs(t, err, cryptox.ErrInvalidKey)
	})
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()
	key := testKey(t)

	plaintexts := []string{
		"",
		"a",
		"JBSWY3DPEHPK3PXP",
		"some longer secret with spaces and unicode: héllo wörld",
		strings.Repeat("x", 4096),
	}

	for _, p := range plaintexts {
		envelope, err := cryptox.Encrypt(p, key)
		require.NoError(t, err)
		require.Len(t, strings.Split(envelope, ":"), 3)

		got, err := cryptox.Decrypt(envelope, key)
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}

func TestEncryptDrawsFreshNonce(t *testing.T) {
	t.Parallel()
	key := testKey(t)

	first, err := cryptox.Encrypt("same plaintext", key)
	require.NoError(t, err)
	second, err := cryptox.Encrypt("same plaintext", key)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.NotEqual(t, strings.Split(first, ":")[0], strings.Split(second, ":")[0])
}

func TestDecryptRejectsTampering(t *testing.T) {
	t.Parallel()
	key := testKey(t)

	envelope, err := cryptox.Encrypt("the secret", key)
	require.NoError(t, err)

	flipHex := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'f' || b[i] == '9' {
			b[i] = '0'
		} else {
			b[i]++
		}
		return string(b)
	}

	fields := strings.Split(envelope, ":")

	t.Run("tampered tag", func(t *testing.T) {
		tampered := fields[0] + ":" + flipHex(fields[1], 0) + ":" + fields[2]
		_, err := cryptox.Decrypt(tampered, key)
		require.ErrorIs(t, err, cryptox.ErrDecryptFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := fields[0] + ":" + fields[1] + ":" + flipHex(fields[2], 0)
		_, err := cryptox.Decrypt(tampered, key)
		require.ErrorIs(t, err, cryptox.ErrDecryptFailed)
	})

	t.Run("tampered nonce", func(t *testing.T) {
		tampered := flipHex(fields[0], 0) + ":" + fields[1] + ":" + fields[2]
		_, err := cryptox.Decrypt(tampered, key)
		require.ErrorIs(t, err, cryptox.ErrDecryptFailed)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherKey, err := cryptox.ParseKey(strings.Repeat("ab", 32))
		require.NoError(t, err)
		_, err = cryptox.Decrypt(envelope, otherKey)
		require.ErrorIs(t, err, cryptox.ErrDecryptFailed)
	})
}

func TestDecryptRejectsMalformedEnvelope(t *testing.T) {
	t.Parallel()
	key := testKey(t)

	for _, envelope := range []string{
		"",
		"onlyonefield",
		"two:fields",
		"a:b:c:d",
	} {
		_, err := cryptox.Decrypt(envelope, key)
		require.ErrorIs(t, err, cryptox.ErrMalformedEnvelope, "envelope %q", envelope)
	}

	// Right field count but garbage hex is an authentication failure, not a
	// shape error.
	_, err := cryptox.Decrypt("zz:zz:zz", key)
	require.ErrorIs(t, err, cryptox.ErrDecryptFailed)
}

func TestEncryptRequiresValidKey(t *testing.T) {
	t.Parallel()

	_, err := cryptox.Encrypt("data", nil)
	require.ErrorIs(t, err, cryptox.ErrKeyNotConfigured)

	_, err = cryptox.Encrypt("data", []byte("short"))
	require.ErrorIs(t, err, cryptox.ErrInvalidKey)

	wellFormed := strings.Repeat("00", 16) + ":" + strings.Repeat("00", 16) + ":" + "00"
	_, err = cryptox.Decrypt(wellFormed, []byte("short"))
	require.ErrorIs(t, err, cryptox.ErrInvalidKey)
}
