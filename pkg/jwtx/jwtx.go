// Package jwtx issues and verifies the service's session tokens. Tokens are
// HS256-signed and carry the authentication method references (amr) that the
// access gate uses to tell a fully verified session from one still pending
// two-factor step-up.
package jwtx

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Token uses. A step-up token proves the password check passed but grants
	// nothing until the second factor is verified.
	UseSession = "session"
	UseStepUp  = "stepup"

	// AMR values per RFC 8176.
	AMRPassword = "pwd"
	AMROTP      = "otp"
)

var (
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrTokenExpired = errors.New("jwtx: token expired")
)

// Claims is the session token payload.
type Claims struct {
	jwt.RegisteredClaims

	Use       string   `json:"use"`
	AMR       []string `json:"amr,omitempty"`
	SessionID string   `json:"sid,omitempty"`
}

// StepUpDone reports whether this session completed two-factor verification.
func (c Claims) StepUpDone() bool {
	return slices.Contains(c.AMR, AMROTP)
}

// Signer mints and verifies HS256 session tokens for a single issuer.
type Signer struct {
	Key    []byte
	Issuer string
}

// Sign mints a token for subject with the given use, amr set, session id and
// lifetime.
func (s *Signer) Sign(subject, use string, amr []string, sessionID string, ttl time.Duration) (string, error) {
	if len(s.Key) == 0 {
		return "", errors.New("jwtx: signing key not configured")
	}

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Use:       use,
		AMR:       amr,
		SessionID: sessionID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Key)
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to sign token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a token: signature, algorithm, issuer, expiry.
// All failures map to ErrInvalidToken except expiry, which gets its own
// sentinel so callers can hint re-authentication.
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.Key, nil
	}, jwt.WithIssuer(s.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
