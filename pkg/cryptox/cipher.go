package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// KeySize is the required key length for AES-256 (32 bytes, 64 hex chars).
	KeySize = 32
	// NonceSize is the per-envelope random nonce length in bytes.
	NonceSize = 16
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

var (
	// ErrKeyNotConfigured reports a missing encryption key. This is a fatal
	// configuration error; callers must not degrade to plaintext storage.
	ErrKeyNotConfigured = errors.New("cryptox: encryption key not configured")

	// ErrInvalidKey reports a key that is not exactly 32 bytes.
	ErrInvalidKey = errors.New("cryptox: encryption key must be 32 bytes (64 hex characters)")

	// ErrMalformedEnvelope reports an envelope that does not have the
	// expected nonce:tag:ciphertext shape.
	ErrMalformedEnvelope = errors.New("cryptox: malformed envelope")

	// ErrDecryptFailed reports an authentication failure: tampered data,
	// wrong key, or corrupted envelope fields. The cause is deliberately
	// not distinguished.
	ErrDecryptFailed = errors.New("cryptox: decryption failed")
)

// ParseKey decodes a hex-encoded AES-256 key. The key must be exactly 64 hex
// characters; anything else is a configuration error.
func ParseKey(hexKey string) ([]byte, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, ErrKeyNotConfigured
	}
	if len(hexKey) != KeySize*2 {
		return nil, ErrInvalidKey
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// Encrypt seals plaintext with AES-256-GCM under key and returns a
// self-contained envelope of three colon-delimited hex fields:
// nonce:tag:ciphertext. A fresh random nonce is drawn on every call;
// nonce reuse under the same key would break GCM's guarantees.
func Encrypt(plaintext string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate nonce: %w", err)
	}

	// Seal appends the tag to the ciphertext; split it back out so the
	// envelope carries the tag as its own field.
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	body, tag := sealed[:len(sealed)-TagSize], sealed[len(sealed)-TagSize:]

	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(body), nil
}

// Decrypt opens an envelope produced by Encrypt. A wrong field count is a
// malformed-input error; any authentication failure (tamper, wrong key,
// corrupt hex) surfaces as ErrDecryptFailed without leaking which field
// was at fault.
func Decrypt(envelope string, key []byte) (string, error) {
	fields := strings.Split(envelope, ":")
	if len(fields) != 3 {
		return "", ErrMalformedEnvelope
	}

	nonce, err := hex.DecodeString(fields[0])
	if err != nil || len(nonce) != NonceSize {
		return "", ErrDecryptFailed
	}
	tag, err := hex.DecodeString(fields[1])
	if err != nil || len(tag) != TagSize {
		return "", ErrDecryptFailed
	}
	body, err := hex.DecodeString(fields[2])
	if err != nil {
		return "", ErrDecryptFailed
	}

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, nonce, append(body, tag...), nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) == 0 {
		return nil, ErrKeyNotConfigured
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create GCM: %w", err)
	}
	return aead, nil
}
