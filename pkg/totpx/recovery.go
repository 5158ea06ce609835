package totpx

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// RecoveryCodeLength is the number of symbols per recovery code.
	RecoveryCodeLength = 8

	// DefaultRecoveryCodeCount is how many codes an enrollment issues.
	DefaultRecoveryCodeCount = 10

	// recoveryAlphabet excludes 0, O, I, 1 and L so codes survive being read
	// over the phone or scribbled on paper.
	recoveryAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// ErrInvalidRecoveryCodeCount reports a non-positive count.
var ErrInvalidRecoveryCodeCount = errors.New("totpx: recovery code count must be positive")

// GenerateRecoveryCodes returns count unique single-use codes drawn from the
// reduced alphabet with a cryptographically secure source. Duplicate draws
// within a batch are retried rather than silently returned.
func GenerateRecoveryCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidRecoveryCodeCount
	}

	codes := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for len(codes) < count {
		code, err := generateRecoveryCode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

func generateRecoveryCode() (string, error) {
	var b strings.Builder
	b.Grow(RecoveryCodeLength)
	max := big.NewInt(int64(len(recoveryAlphabet)))
	for range RecoveryCodeLength {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("totpx: failed to generate recovery code: %w", err)
		}
		b.WriteByte(recoveryAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeRecoveryCode uppercases a submitted code and strips all
// whitespace, so "ab12 cd34" and "AB12CD34" compare equal.
func NormalizeRecoveryCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToUpper(code) {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// VerifyRecoveryCode matches a submitted code against the remaining valid
// codes and returns the matched position so the caller can mark it consumed.
// The whole list is scanned with constant-time per-entry comparison; the scan
// never stops at the first match, so timing does not reveal list position.
func VerifyRecoveryCode(submitted string, valid []string) (int, bool) {
	normalized := NormalizeRecoveryCode(submitted)

	matched := -1
	for i, candidate := range valid {
		c := NormalizeRecoveryCode(candidate)
		if len(c) == len(normalized) &&
			subtle.ConstantTimeCompare([]byte(c), []byte(normalized)) == 1 &&
			matched < 0 {
			matched = i
		}
	}
	if matched < 0 {
		return 0, false
	}
	return matched, true
}
