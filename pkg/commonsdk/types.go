package commonsdk

import "time"

// ErrorResponse is the wire shape of every error body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned from POST /v1/login. When the account has
// two-factor enabled only ChallengeToken is set and StepUpRequired is true;
// the session token comes from POST /v1/login/verify.
type LoginResponse struct {
	Token          string `json:"token,omitempty"`
	ChallengeToken string `json:"challenge_token,omitempty"`
	StepUpRequired bool   `json:"step_up_required"`
	TokenType      string `json:"token_type,omitempty"` // "Bearer" when Token is set
	ExpiresIn      int64  `json:"expires_in"`
}

// StepUpRequest is the body of POST /v1/login/verify. Exactly one of Code
// (authenticator app) or RecoveryCode should be set.
type StepUpRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Code           string `json:"code,omitempty"`
	RecoveryCode   string `json:"recovery_code,omitempty"`
}

// TwoFactorSetupResponse is returned from GET /v1/2fa/setup. There is
// intentionally no bare secret field; the secret travels only inside the
// provisioning URI and its QR rendering.
type TwoFactorSetupResponse struct {
	URI    string `json:"uri"`
	QRCode string `json:"qr_code"` // data:image/png;base64 data URI
}

// TwoFactorActivateRequest is the body of POST /v1/2fa/activate.
type TwoFactorActivateRequest struct {
	Code string `json:"code"`
}

// RecoveryCodesResponse carries freshly issued recovery codes. The plaintext
// codes appear exactly once, in this response.
type RecoveryCodesResponse struct {
	RecoveryCodes []string `json:"recovery_codes"`
}

// TwoFactorCodeRequest is the body of the management endpoints that require
// a fresh TOTP code (regenerate recovery codes, disable).
type TwoFactorCodeRequest struct {
	Code string `json:"code"`
}

// TwoFactorStatusResponse is returned from GET /v1/2fa.
type TwoFactorStatusResponse struct {
	Enabled                bool       `json:"enabled"`
	EnabledAt              *time.Time `json:"enabled_at,omitempty"`
	PendingSetup           bool       `json:"pending_setup"`
	RecoveryCodesRemaining int        `json:"recovery_codes_remaining"`
}

// BootstrapRequest is the body of POST /v1/bootstrap.
type BootstrapRequest struct {
	Token       string `json:"token,omitempty"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// User is the API shape of a user. Password hashes and encrypted secrets
// never leave the service.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PlatformRole string    `json:"platform_role"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserRequest is the body of POST /v1/admin/users.
type CreateUserRequest struct {
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Password     string `json:"password"`
	PlatformRole string `json:"platform_role"`
}

// Community is the API shape of a community.
type Community struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommunityRequest is the body of POST /v1/admin/communities.
type CreateCommunityRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Membership is the API shape of a community membership.
type Membership struct {
	CommunityID  string     `json:"community_id"`
	UserID       string     `json:"user_id"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}

// UpsertMembershipRequest is the body of PUT /v1/admin/communities/{id}/members/{userID}.
type UpsertMembershipRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

// CommunityPageResponse is returned from GET /v1/communities/{slug} when the
// gate allows access.
type CommunityPageResponse struct {
	Community  Community  `json:"community"`
	Membership Membership `json:"membership"`
}

// HealthResponse is returned from /livez and /readyz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
