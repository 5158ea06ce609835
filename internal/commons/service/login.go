package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/pkg/cryptox"
	"github.com/commonsapp/commons/pkg/idx"
	"github.com/commonsapp/commons/pkg/jwtx"
	"github.com/commonsapp/commons/pkg/slogx"
)

// ErrInvalidCredentials is the uniform denial for any failed login: unknown
// email, wrong password. Never reveal which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidChallenge covers a missing, expired or otherwise unusable step-up
// challenge token.
var ErrInvalidChallenge = errors.New("invalid challenge")

const (
	DefaultSessionTTL   = 12 * time.Hour
	DefaultChallengeTTL = 5 * time.Minute
)

// LoginResult is what a login attempt produces. Exactly one of Token (a full
// session) or ChallengeToken (step-up pending) is set.
type LoginResult struct {
	Token          string
	ChallengeToken string
	StepUpRequired bool
	ExpiresIn      int64 // seconds
}

// LoginService performs password login and the TOTP step-up that follows it
// when the account has two-factor enabled.
type LoginService struct {
	Store        store.Store
	Signer       *jwtx.Signer
	TwoFactor    *TwoFactorService
	SessionTTL   time.Duration
	ChallengeTTL time.Duration
}

func (s *LoginService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

func (s *LoginService) challengeTTL() time.Duration {
	if s.ChallengeTTL > 0 {
		return s.ChallengeTTL
	}
	return DefaultChallengeTTL
}

// Login checks email+password. Accounts with two-factor enabled receive a
// short-lived challenge token instead of a session; the caller must follow up
// with VerifyStepUp before any gated resource is reachable.
func (s *LoginService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash verification anyway so unknown emails cost the
			// same as wrong passwords.
			_ = cryptox.VerifyPassword(password, dummyPasswordHash)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login rejected", slog.String("user_id", user.ID))
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("failed to verify password: %w", err)
	}

	sessionID := idx.New().String()

	if user.TOTPActive() {
		challenge, err := s.Signer.Sign(user.ID, jwtx.UseStepUp,
			[]string{jwtx.AMRPassword}, sessionID, s.challengeTTL())
		if err != nil {
			return LoginResult{}, fmt.Errorf("failed to sign challenge token: %w", err)
		}
		return LoginResult{
			ChallengeToken: challenge,
			StepUpRequired: true,
			ExpiresIn:      int64(s.challengeTTL().Seconds()),
		}, nil
	}

	token, err := s.Signer.Sign(user.ID, jwtx.UseSession,
		[]string{jwtx.AMRPassword}, sessionID, s.sessionTTL())
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	l.Info("login succeeded", slog.String("user_id", user.ID))
	return LoginResult{Token: token, ExpiresIn: int64(s.sessionTTL().Seconds())}, nil
}

// VerifyStepUp exchanges a challenge token plus a TOTP code (or a recovery
// code) for a full session token. Success marks the session step-up-verified
// by adding "otp" to the amr claim. Any code failure is ErrInvalidCode, with
// no detail about why.
func (s *LoginService) VerifyStepUp(ctx context.Context, challengeToken, code string, recovery bool) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Signer.Verify(challengeToken)
	if err != nil {
		return LoginResult{}, ErrInvalidChallenge
	}
	if claims.Use != jwtx.UseStepUp {
		return LoginResult{}, ErrInvalidChallenge
	}

	userID := claims.Subject

	if recovery {
		err = s.TwoFactor.ConsumeRecoveryCode(ctx, userID, code)
	} else {
		err = s.TwoFactor.VerifyCode(ctx, userID, code)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrTwoFactorNotEnabled) {
			l.Info("step-up rejected", slog.String("user_id", userID))
			return LoginResult{}, ErrInvalidCode
		}
		return LoginResult{}, err
	}

	token, err := s.Signer.Sign(userID, jwtx.UseSession,
		[]string{jwtx.AMRPassword, jwtx.AMROTP}, claims.SessionID, s.sessionTTL())
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	l.Info("step-up succeeded", slog.String("user_id", userID))
	return LoginResult{Token: token, ExpiresIn: int64(s.sessionTTL().Seconds())}, nil
}

// A syntactically valid argon2id hash of random garbage, used to equalize the
// timing of unknown-email and wrong-password rejections.
const dummyPasswordHash = "$argon2id$v=19$m=19456,t=2,p=1$" +
	"AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
