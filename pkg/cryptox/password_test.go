package cryptox_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/commonsapp/commons/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	hash, err := cryptox.HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	t.Run("verifies correct password", func(t *testing.T) {
		require.NoError(t, cryptox.VerifyPassword("Sup3rSecret!", hash))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		err := cryptox.VerifyPassword("wrong", hash)
		require.ErrorIs(t, err, cryptox.ErrPasswordMismatch)
	})

	t.Run("salts are unique per hash", func(t *testing.T) {
		other, err := cryptox.HashPassword("Sup3rSecret!")
		require.NoError(t, err)
		require.NotEqual(t, hash, other)
	})

	t.Run("rejects malformed hash", func(t *testing.T) {
		require.Error(t, cryptox.VerifyPassword("x", "not-a-phc-string"))
		require.Error(t, cryptox.VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$AA$AA"))
	})
}
