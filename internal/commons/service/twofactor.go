package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/pkg/cryptox"
	"github.com/commonsapp/commons/pkg/totpx"
)

var (
	// ErrInvalidCode is the uniform denial for any failed code check: wrong
	// TOTP code, expired code, wrong or already-spent recovery code. Callers
	// must not distinguish these cases in responses.
	ErrInvalidCode = errors.New("invalid code")

	ErrTwoFactorNotEnrolled      = errors.New("two-factor not enrolled")
	ErrTwoFactorAlreadyEnabled   = errors.New("two-factor already enabled")
	ErrTwoFactorPendingNotFound  = errors.New("no pending two-factor enrollment")
	ErrTwoFactorNotEnabled       = errors.New("two-factor not enabled")
	errTwoFactorSecretUnreadable = errors.New("stored two-factor secret unreadable")
)

// TwoFactorService drives the per-user enrollment state machine:
// NotEnrolled -> PendingVerification -> Enrolled, with disable as the only
// reverse transition. The shared secret only ever exists in plaintext inside
// a single request; at rest it is an encrypted envelope.
type TwoFactorService struct {
	Store         store.Store
	EncryptionKey []byte
	Issuer        string // issuer label in provisioning URIs (e.g. "Commons")
	RecoveryCount int    // number of recovery codes issued; 0 means default
}

func (s *TwoFactorService) recoveryCount() int {
	if s.RecoveryCount > 0 {
		return s.RecoveryCount
	}
	return totpx.DefaultRecoveryCodeCount
}

// EnrollTOTP starts (or restarts) enrollment for a user: generates a fresh
// secret, encrypts it, and stores it in pending form. The response carries
// only the provisioning URI and its QR rendering, never a bare secret.
// Fails with ErrTwoFactorAlreadyEnabled once enrollment has completed.
func (s *TwoFactorService) EnrollTOTP(ctx context.Context, userID string) (domain.TwoFactorSetup, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("failed to load user: %w", err)
	}
	if user.TOTPActive() {
		return domain.TwoFactorSetup{}, ErrTwoFactorAlreadyEnabled
	}

	secret, err := totpx.GenerateSecret()
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("failed to generate secret: %w", err)
	}

	uri, err := totpx.ProvisioningURI(secret, user.Email, s.Issuer)
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("failed to build provisioning uri: %w", err)
	}

	qr, err := totpx.QRCodeDataURI(uri)
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("failed to render qr code: %w", err)
	}

	secretEnc, err := cryptox.Encrypt(secret, s.EncryptionKey)
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("failed to encrypt secret: %w", err)
	}

	if err := s.Store.Users().SetPendingTOTPSecret(ctx, userID, secretEnc); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.TwoFactorSetup{}, ErrTwoFactorAlreadyEnabled
		}
		return domain.TwoFactorSetup{}, fmt.Errorf("failed to store pending secret: %w", err)
	}

	return domain.TwoFactorSetup{URI: uri, QRCode: qr}, nil
}

// ActivateTOTP completes enrollment: verifies a code from the authenticator
// app against the pending secret, flips the credential to enabled, and issues
// the user's recovery codes. The plaintext codes are returned exactly once;
// only their fingerprints are persisted.
func (s *TwoFactorService) ActivateTOTP(ctx context.Context, userID string, code string) ([]string, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.TOTPActive() {
		return nil, ErrTwoFactorAlreadyEnabled
	}
	if user.TOTPSecretEnc == nil || *user.TOTPSecretEnc == "" {
		return nil, ErrTwoFactorPendingNotFound
	}

	secret, err := s.decryptSecret(*user.TOTPSecretEnc)
	if err != nil {
		return nil, err
	}

	if !totpx.VerifyCode(code, secret) {
		return nil, ErrInvalidCode
	}

	recoveryCodes, err := totpx.GenerateRecoveryCodes(s.recoveryCount())
	if err != nil {
		return nil, fmt.Errorf("failed to generate recovery codes: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().EnableTOTP(ctx, userID); err != nil {
			return fmt.Errorf("failed to enable two-factor: %w", err)
		}
		// Replace, never append: a restarted enrollment must not leave
		// fingerprints from a previous attempt behind.
		if err := tx.RecoveryCodes().DeleteAllRecoveryCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear recovery codes: %w", err)
		}
		for _, rc := range recoveryCodes {
			hash := cryptox.Hash(totpx.NormalizeRecoveryCode(rc))
			if err := tx.RecoveryCodes().CreateRecoveryCode(ctx, userID, hash); err != nil {
				return fmt.Errorf("failed to store recovery code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return recoveryCodes, nil
}

// VerifyCode checks a fresh TOTP code against the user's enabled credential.
// Used by step-up login and by the management endpoints that require a code.
func (s *TwoFactorService) VerifyCode(ctx context.Context, userID string, code string) error {
	secret, err := s.enabledSecret(ctx, userID)
	if err != nil {
		return err
	}
	if !totpx.VerifyCode(code, secret) {
		return ErrInvalidCode
	}
	return nil
}

// ConsumeRecoveryCode validates and atomically spends one recovery code. The
// conditional delete in the store is what makes the code single-use even
// across concurrent requests; a second consumer of the same code loses the
// race and gets ErrInvalidCode.
func (s *TwoFactorService) ConsumeRecoveryCode(ctx context.Context, userID string, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.TOTPActive() {
		return ErrTwoFactorNotEnabled
	}

	normalized := totpx.NormalizeRecoveryCode(code)
	if len(normalized) != totpx.RecoveryCodeLength {
		return ErrInvalidCode
	}

	consumed, err := s.Store.RecoveryCodes().ConsumeRecoveryCode(ctx, userID, cryptox.Hash(normalized))
	if err != nil {
		return fmt.Errorf("failed to consume recovery code: %w", err)
	}
	if !consumed {
		return ErrInvalidCode
	}
	return nil
}

// RegenerateRecoveryCodes replaces the user's recovery codes after a fresh
// TOTP code check. The new plaintext codes are returned exactly once.
func (s *TwoFactorService) RegenerateRecoveryCodes(ctx context.Context, userID string, code string) ([]string, error) {
	if err := s.VerifyCode(ctx, userID, code); err != nil {
		return nil, err
	}

	recoveryCodes, err := totpx.GenerateRecoveryCodes(s.recoveryCount())
	if err != nil {
		return nil, fmt.Errorf("failed to generate recovery codes: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RecoveryCodes().DeleteAllRecoveryCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete old recovery codes: %w", err)
		}
		for _, rc := range recoveryCodes {
			hash := cryptox.Hash(totpx.NormalizeRecoveryCode(rc))
			if err := tx.RecoveryCodes().CreateRecoveryCode(ctx, userID, hash); err != nil {
				return fmt.Errorf("failed to store recovery code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return recoveryCodes, nil
}

// DisableTOTP removes the user's two-factor credential and recovery codes
// after a fresh TOTP code check.
func (s *TwoFactorService) DisableTOTP(ctx context.Context, userID string, code string) error {
	if err := s.VerifyCode(ctx, userID, code); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RecoveryCodes().DeleteAllRecoveryCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete recovery codes: %w", err)
		}
		if err := tx.Users().DisableTOTP(ctx, userID); err != nil {
			return fmt.Errorf("failed to disable two-factor: %w", err)
		}
		return nil
	})
}

// RecoveryCodesRemaining reports how many unused recovery codes the user has.
func (s *TwoFactorService) RecoveryCodesRemaining(ctx context.Context, userID string) (int, error) {
	return s.Store.RecoveryCodes().CountRecoveryCodes(ctx, userID)
}

func (s *TwoFactorService) enabledSecret(ctx context.Context, userID string) (string, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if !user.TOTPActive() {
		return "", ErrTwoFactorNotEnabled
	}
	return s.decryptSecret(*user.TOTPSecretEnc)
}

func (s *TwoFactorService) decryptSecret(envelope string) (string, error) {
	secret, err := cryptox.Decrypt(envelope, s.EncryptionKey)
	if err != nil {
		// A stored secret that no longer decrypts means a key or data
		// problem, not a user error. Surface it distinctly so it is never
		// reported as a mere wrong code.
		return "", fmt.Errorf("%w: %w", errTwoFactorSecretUnreadable, err)
	}
	return secret, nil
}
