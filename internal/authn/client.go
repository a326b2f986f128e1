package authn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Sentinel errors used by handlers to pick 401 over 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// User is the auth-provider identity. Profile data (role, clinic) lives in
// the user_profiles table, not here.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an issued token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Client talks to the external auth provider. Token issuance and
// verification belong to the provider; this service only brokers calls.
type Client interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, accessToken string) (*User, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

type providerError struct {
	Message      string `json:"msg"`
	ErrorText    string `json:"error"`
	ErrorMessage string `json:"error_description"`
}

func (e *providerError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		return e.ErrorText
	}
}

// HTTPClient is the resty-backed provider client (GoTrue-style API).
type HTTPClient struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewHTTPClient(baseURL, serviceKey string, logger *zap.Logger) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", serviceKey)

	return &HTTPClient{http: client, logger: logger}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	var perr providerError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&session).
		SetError(&perr).
		Post("/token")
	if err != nil {
		return nil, fmt.Errorf("auth provider sign-in failed: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 400 || resp.StatusCode() == 401 {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth provider sign-in error: %s", perr.text())
	}
	if session.AccessToken == "" || session.User == nil {
		return nil, ErrInvalidCredentials
	}
	return &session, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*User, error) {
	var user User
	var perr providerError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&user).
		SetError(&perr).
		Post("/signup")
	if err != nil {
		return nil, fmt.Errorf("auth provider sign-up failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("auth provider sign-up error: %s", perr.text())
	}
	if user.ID == "" {
		return nil, errors.New("auth provider returned no user")
	}
	return &user, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	var perr providerError
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		SetError(&perr).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("auth provider user lookup failed: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("auth provider user lookup error: %s", perr.text())
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}
	return &user, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	var perr providerError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&session).
		SetError(&perr).
		Post("/token")
	if err != nil {
		return nil, fmt.Errorf("auth provider refresh failed: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 400 || resp.StatusCode() == 401 {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("auth provider refresh error: %s", perr.text())
	}
	return &session, nil
}

func (c *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Post("/logout")
	if err != nil {
		return fmt.Errorf("auth provider sign-out failed: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		if resp.StatusCode() == 401 {
			return ErrInvalidToken
		}
		return fmt.Errorf("auth provider sign-out error: status %d", resp.StatusCode())
	}
	return nil
}
