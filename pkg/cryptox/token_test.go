package cryptox_test

import (
	"testing"

	"github.com/commonsapp/commons/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("hex length is twice the byte size", func(t *testing.T) {
		for _, size := range []int{1, 16, 32, 64} {
			token, err := cryptox.GenerateToken(size)
			require.NoError(t, err)
			require.Len(t, token, size*2)
		}
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			token, err := cryptox.GenerateToken(cryptox.DefaultTokenSize)
			require.NoError(t, err)
			_, dup := seen[token]
			require.False(t, dup)
			seen[token] = struct{}{}
		}
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)
		_, err = cryptox.GenerateToken(-1)
		require.Error(t, err)
	})
}

func TestHash(t *testing.T) {
	t.Parallel()

	require.Equal(t, cryptox.Hash("abc"), cryptox.Hash("abc"))
	require.NotEqual(t, cryptox.Hash("abc"), cryptox.Hash("abd"))
	require.Len(t, cryptox.Hash("anything"), 64)
}

func TestSecureCompare(t *testing.T) {
	t.Parallel()

	t.Run("equal strings match", func(t *testing.T) {
		require.True(t, cryptox.SecureCompare("", ""))
		require.True(t, cryptox.SecureCompare("abc123", "abc123"))
	})

	t.Run("differing lengths never match and never panic", func(t *testing.T) {
		require.False(t, cryptox.SecureCompare("abc", "abcd"))
		require.False(t, cryptox.SecureCompare("abcd", "abc"))
		require.False(t, cryptox.SecureCompare("", "x"))
	})

	t.Run("same length mismatches return false", func(t *testing.T) {
		require.False(t, cryptox.SecureCompare("abc123", "abc124"))
		require.False(t, cryptox.SecureCompare("xbc123", "abc123"))
	})
}
