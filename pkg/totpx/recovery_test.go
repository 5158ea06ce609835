package totpx_test

import (
	"strings"
	"testing"

	"github.com/commonsapp/commons/pkg/totpx"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecoveryCodes(t *testing.T) {
	t.Parallel()

	codes, err := totpx.GenerateRecoveryCodes(totpx.DefaultRecoveryCodeCount)
	require.NoError(t, err)
	require.Len(t, codes, 10)

	seen := make(map[string]struct{})
	for _, code := range codes {
		require.Len(t, code, totpx.RecoveryCodeLength)

		// Alphabet excludes visually ambiguous symbols.
		for _, r := range code {
			require.NotContains(t, "0OI1L", string(r))
			require.True(t, (r >= 'A' && r <= 'Z') || (r >= '2' && r <= '9'), "symbol %q", r)
		}

		_, dup := seen[code]
		require.False(t, dup, "duplicate code in batch")
		seen[code] = struct{}{}
	}

	_, err = totpx.GenerateRecoveryCodes(0)
	require.ErrorIs(t, err, totpx.ErrInvalidRecoveryCodeCount)
}

func TestNormalizeRecoveryCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, "AB12CD34", totpx.NormalizeRecoveryCode("ab12 cd34"))
	require.Equal(t, "AB12CD34", totpx.NormalizeRecoveryCode("  AB12CD34\n"))
	require.Equal(t, "AB12CD34", totpx.NormalizeRecoveryCode("a b 1 2 c d 3 4"))
}

func TestVerifyRecoveryCode(t *testing.T) {
	t.Parallel()

	valid := []string{"AB12CD34", "WXYZ2345", "QRST6789"}

	t.Run("matches normalized submissions", func(t *testing.T) {
		idx, ok := totpx.VerifyRecoveryCode("ab12 cd34", valid)
		require.True(t, ok)
		require.Equal(t, 0, idx)

		idx, ok = totpx.VerifyRecoveryCode("  wxyz2345  ", valid)
		require.True(t, ok)
		require.Equal(t, 1, idx)

		idx, ok = totpx.VerifyRecoveryCode("QRST6789", valid)
		require.True(t, ok)
		require.Equal(t, 2, idx)
	})

	t.Run("no match for unknown codes", func(t *testing.T) {
		_, ok := totpx.VerifyRecoveryCode("NOPE0000", valid)
		require.False(t, ok)

		_, ok = totpx.VerifyRecoveryCode("", valid)
		require.False(t, ok)

		_, ok = totpx.VerifyRecoveryCode("AB12CD34", nil)
		require.False(t, ok)
	})

	t.Run("near misses do not match", func(t *testing.T) {
		// Same prefix as a valid code; the scan must compare full strings.
		_, ok := totpx.VerifyRecoveryCode("AB12CD35", valid)
		require.False(t, ok)
		_, ok = totpx.VerifyRecoveryCode("AB12CD3", valid)
		require.False(t, ok)
		_, ok = totpx.VerifyRecoveryCode(strings.ToLower("AB12CD345"), valid)
		require.False(t, ok)
	})
}
