package sdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "github.com/closetlabs/storefront/pkg/types"
)

// ErrNoRefreshToken is returned by Refresh when no refresh token is stored.
var ErrNoRefreshToken = errors.New("no refresh token available")

// AuthService handles the authentication flow. It is the only writer
// of the session token store.
type AuthService struct {
	client *Client
	tokens TokenStore
	log    *slog.Logger
}

// NewAuthService creates an AuthService persisting sessions into tokens.
func NewAuthService(c *Client, tokens TokenStore, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{client: c, tokens: tokens, log: log}
}

// Login authenticates with email/password and persists the session.
func (s *AuthService) Login(ctx context.Context, creds domain.LoginCredentials) (*domain.AuthSession, error) {
	var resp envelope[domain.AuthSession]
	if err := s.client.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("login unsuccessful: %s", resp.Message)
	}

	if err := s.storeSession(&resp.Data); err != nil {
		return nil, err
	}
	s.log.Info("logged in", "user", resp.Data.User.Email)
	return &resp.Data, nil
}

// Register creates a new account and persists the session.
func (s *AuthService) Register(ctx context.Context, data domain.RegisterData) (*domain.AuthSession, error) {
	var resp envelope[domain.AuthSession]
	if err := s.client.Post(ctx, "/auth/register", data, &resp); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("registration unsuccessful: %s", resp.Message)
	}

	if err := s.storeSession(&resp.Data); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Logout notifies the server and clears the local session. The local
// session is cleared even when the server call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		s.log.Warn("logout request failed, clearing local session anyway", "err", err)
	}
	return clearSession(s.tokens)
}

// Refresh exchanges the stored refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context) (*domain.AuthTokens, error) {
	refresh, ok := s.tokens.Get(KeyRefreshToken)
	if !ok || refresh == "" {
		return nil, ErrNoRefreshToken
	}

	var resp envelope[domain.AuthTokens]
	body := map[string]string{"refreshToken": refresh}
	if err := s.client.Post(ctx, "/auth/refresh", body, &resp); err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("token refresh unsuccessful: %s", resp.Message)
	}

	if err := s.tokens.Set(KeyAccessToken, resp.Data.AccessToken); err != nil {
		return nil, fmt.Errorf("storing access token: %w", err)
	}
	if err := s.tokens.Set(KeyRefreshToken, resp.Data.RefreshToken); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return &resp.Data, nil
}

// CurrentUser fetches the authenticated user and refreshes the cached
// user_data entry.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	var resp envelope[domain.User]
	if err := s.client.Get(ctx, "/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("current user unsuccessful: %s", resp.Message)
	}

	if data, err := domain.MarshalUser(&resp.Data); err == nil {
		if err := s.tokens.Set(KeyUserData, data); err != nil {
			s.log.Warn("failed to cache user data", "err", err)
		}
	}
	return &resp.Data, nil
}

// CachedUser returns the locally cached user record, if any.
func (s *AuthService) CachedUser() (*domain.User, bool) {
	data, ok := s.tokens.Get(KeyUserData)
	if !ok {
		return nil, false
	}
	u, err := domain.UnmarshalUser(data)
	if err != nil {
		return nil, false
	}
	return u, true
}

func (s *AuthService) storeSession(session *domain.AuthSession) error {
	if err := s.tokens.Set(KeyAccessToken, session.Tokens.AccessToken); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}
	if err := s.tokens.Set(KeyRefreshToken, session.Tokens.RefreshToken); err != nil {
		return fmt.Errorf("storing refresh token: %w", err)
	}
	data, err := domain.MarshalUser(&session.User)
	if err != nil {
		return err
	}
	if err := s.tokens.Set(KeyUserData, data); err != nil {
		return fmt.Errorf("storing user data: %w", err)
	}
	return nil
}
