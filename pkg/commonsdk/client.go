// Package commonsdk is a typed client for the commons service. It carries the
// wire types the service speaks, so the end-to-end suite (and any Go caller)
// talks to the API without hand-rolled JSON.
package commonsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one commons service instance. Unauthenticated operations
// live on the Client; Login/VerifyStepUp produce a Session for the rest.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			// Redirect outcomes (canonical slug, step-up) are data here,
			// not navigation.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Session is an authenticated client bound to one Bearer token.
type Session struct {
	client *Client
	token  string
}

// Token returns the raw session token.
func (s *Session) Token() string { return s.token }

// NewSessionFromToken wraps an existing session token.
func (c *Client) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// Bootstrap creates the first superadmin on an empty system.
func (c *Client) Bootstrap(ctx context.Context, req BootstrapRequest) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/v1/bootstrap", "", req, &out)
	return out, err
}

// Login performs password login. When the response has StepUpRequired set,
// follow up with VerifyStepUp before using any gated endpoint.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/login", "",
		LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// VerifyStepUp exchanges a challenge token plus a TOTP or recovery code for a
// full session.
func (c *Client) VerifyStepUp(ctx context.Context, req StepUpRequest) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/login/verify", "", req, &out)
	return out, err
}

// SessionFromLogin turns a completed login response into a Session.
func (c *Client) SessionFromLogin(resp LoginResponse) (*Session, error) {
	if resp.Token == "" {
		return nil, fmt.Errorf("commonsdk: login response carries no session token")
	}
	return &Session{client: c, token: resp.Token}, nil
}

// Livez reports process liveness.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", "", nil, &out)
	return out, err
}

// Readyz reports readiness (store reachable).
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &out)
	return out, err
}

// TwoFactorSetup starts (or restarts) TOTP enrollment.
func (s *Session) TwoFactorSetup(ctx context.Context) (TwoFactorSetupResponse, error) {
	var out TwoFactorSetupResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/2fa/setup", s.token, nil, &out)
	return out, err
}

// TwoFactorActivate completes enrollment and returns the one-time view of the
// recovery codes.
func (s *Session) TwoFactorActivate(ctx context.Context, code string) (RecoveryCodesResponse, error) {
	var out RecoveryCodesResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/2fa/activate", s.token,
		TwoFactorActivateRequest{Code: code}, &out)
	return out, err
}

// TwoFactorStatus reports the caller's enrollment state.
func (s *Session) TwoFactorStatus(ctx context.Context) (TwoFactorStatusResponse, error) {
	var out TwoFactorStatusResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/2fa", s.token, nil, &out)
	return out, err
}

// RegenerateRecoveryCodes replaces the recovery code set. Requires a fresh
// TOTP code.
func (s *Session) RegenerateRecoveryCodes(ctx context.Context, code string) (RecoveryCodesResponse, error) {
	var out RecoveryCodesResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/2fa/recovery-codes", s.token,
		TwoFactorCodeRequest{Code: code}, &out)
	return out, err
}

// TwoFactorDisable removes the two-factor credential. Requires a fresh TOTP
// code.
func (s *Session) TwoFactorDisable(ctx context.Context, code string) error {
	return s.client.do(ctx, http.MethodDelete, "/v1/2fa", s.token,
		TwoFactorCodeRequest{Code: code}, nil)
}

// GetCommunity requests a community page through the access gate. Redirect
// outcomes surface as *APIError with the matching code; the Location target
// is in the error description.
func (s *Session) GetCommunity(ctx context.Context, slugOrID string) (CommunityPageResponse, error) {
	var out CommunityPageResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/communities/"+url.PathEscape(slugOrID), s.token, nil, &out)
	return out, err
}

// CreateUser creates a user (platform admin only).
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	var out User
	err := s.client.do(ctx, http.MethodPost, "/v1/admin/users", s.token, req, &out)
	return out, err
}

// ListUsers lists all users (platform admin only).
func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := s.client.do(ctx, http.MethodGet, "/v1/admin/users", s.token, nil, &out)
	return out, err
}

// CreateCommunity creates a community (platform admin only).
func (s *Session) CreateCommunity(ctx context.Context, req CreateCommunityRequest) (Community, error) {
	var out Community
	err := s.client.do(ctx, http.MethodPost, "/v1/admin/communities", s.token, req, &out)
	return out, err
}

// ListCommunities lists all communities (platform admin only).
func (s *Session) ListCommunities(ctx context.Context) ([]Community, error) {
	var out []Community
	err := s.client.do(ctx, http.MethodGet, "/v1/admin/communities", s.token, nil, &out)
	return out, err
}

// UpsertMembership sets a user's role and status in a community (platform
// admin only).
func (s *Session) UpsertMembership(ctx context.Context, communityID, userID string, req UpsertMembershipRequest) (Membership, error) {
	var out Membership
	path := "/v1/admin/communities/" + url.PathEscape(communityID) + "/members/" + url.PathEscape(userID)
	err := s.client.do(ctx, http.MethodPut, path, s.token, req, &out)
	return out, err
}

// do runs one request/response cycle: encode body, set headers, decode the
// success payload or turn the error body into an *APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("commonsdk: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("commonsdk: failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("commonsdk: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return parseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("commonsdk: failed to decode response: %w", err)
	}
	return nil
}

// parseError converts a non-2xx response into an *APIError. Redirect
// responses become an APIError whose description carries the Location target
// so tests can assert on it.
func parseError(resp *http.Response) error {
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        codeForRedirect(resp),
			Description: resp.Header.Get("Location"),
		}
	}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        ErrorCodeServerError,
			Description: fmt.Sprintf("unexpected response status %d", resp.StatusCode),
		}
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        body.Error,
		Description: body.ErrorDescription,
	}
}

func codeForRedirect(resp *http.Response) string {
	if resp.Header.Get("X-Gate-Outcome") != "" {
		return resp.Header.Get("X-Gate-Outcome")
	}
	return "redirect"
}
