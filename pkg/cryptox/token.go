package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// DefaultTokenSize is the byte length used for opaque tokens when callers
// have no reason to pick something else (256 bits of entropy).
const DefaultTokenSize = 32

// GenerateToken creates a cryptographically secure random token of size
// bytes, hex-encoded (2*size characters).
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Hash returns a deterministic SHA-256 hex digest of text. It is a
// fingerprint for non-secret lookup (stored recovery codes, token
// references), not a password hash.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SecureCompare reports whether a and b are equal without leaking the
// position of the first differing byte. Differing lengths return false
// immediately; the length itself is not secret.
func SecureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
