// Package totpx implements the time-based one-time-password engine: secret
// generation, provisioning URIs with QR rendering, drift-tolerant code
// verification, and single-use recovery codes.
package totpx

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	// Digits per code and the code validity period, per RFC 6238 defaults.
	Digits = 6
	Period = 30

	secretBytes = 20 // 160-bit shared seed, RFC 4226 recommendation

	qrSize = 256 // rendered QR edge length in pixels
)

var (
	ErrMissingAccount = errors.New("totpx: account label is required")
	ErrMissingIssuer  = errors.New("totpx: issuer is required")
	ErrInvalidSecret  = errors.New("totpx: secret is not valid base32")

	base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)
	secretShape = regexp.MustCompile(`^[A-Z2-7]+$`)
	codeShape   = regexp.MustCompile(`^[0-9]{6}$`)
)

// GenerateSecret returns a fresh random shared seed, base32-encoded without
// padding. Pure: no side effects beyond drawing randomness.
func GenerateSecret() (string, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("totpx: failed to generate secret: %w", err)
	}
	return base32NoPad.EncodeToString(raw), nil
}

// ProvisioningURI builds the otpauth key URI an authenticator app enrolls
// from: SHA-1, 6 digits, 30-second period.
func ProvisioningURI(secret, account, issuer string) (string, error) {
	secret = strings.ToUpper(strings.TrimSpace(secret))
	if !secretShape.MatchString(secret) {
		return "", ErrInvalidSecret
	}
	if account == "" {
		return "", ErrMissingAccount
	}
	if issuer == "" {
		return "", ErrMissingIssuer
	}

	label := url.PathEscape(issuer) + ":" + url.PathEscape(account)
	return fmt.Sprintf("otpauth://totp/%s?secret=%s&issuer=%s&algorithm=SHA1&digits=%d&period=%d",
		label, secret, url.QueryEscape(issuer), Digits, Period), nil
}

// QRCodeDataURI renders the provisioning URI as a PNG QR code and returns it
// as a data URI suitable for direct embedding in an <img> tag.
func QRCodeDataURI(uri string) (string, error) {
	if strings.TrimSpace(uri) == "" {
		return "", errors.New("totpx: uri is empty")
	}
	png, err := qrcode.Encode(uri, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("totpx: failed to render QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// VerifyCode reports whether code is valid for secret at the current time,
// tolerating one period of clock drift on either side. Fails closed: any
// malformed code or secret is simply not valid.
func VerifyCode(code, secret string) bool {
	return VerifyCodeAt(code, secret, time.Now().UTC())
}

// VerifyCodeAt is VerifyCode pinned to an explicit reference time.
func VerifyCodeAt(code, secret string, at time.Time) bool {
	code = strings.TrimSpace(code)
	if !codeShape.MatchString(code) {
		return false
	}
	secret = strings.ToUpper(strings.TrimSpace(secret))
	if !secretShape.MatchString(secret) {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    Period,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

// GenerateCodeAt computes the valid code for secret at the given time. Used
// by tests and by operators diagnosing drift; production verification goes
// through VerifyCode.
func GenerateCodeAt(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    Period,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("totpx: failed to generate code: %w", err)
	}
	return code, nil
}
