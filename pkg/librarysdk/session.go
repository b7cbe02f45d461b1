package librarysdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/libris/pkg/jwtx"
)

// Session owns the stored session values: it is the only writer besides the
// client's refresh path. It is stateless itself, so any number of Sessions
// over the same Client see the same login.
type Session struct {
	client *Client
}

// Login exchanges credentials for tokens and stores them, together with the
// role when the access token carries one. Nothing is stored on failure.
func (s *Session) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if err := (LoginRequest{Username: username, Password: password}).Validate(); err != nil {
		return nil, err
	}

	pair, err := s.client.PasswordGrant(ctx, username, password)
	if err != nil {
		return nil, err
	}

	store := s.client.Store
	if err := store.Set(ctx, KeyAccessToken, pair.Access); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}
	if err := store.Set(ctx, KeyRefreshToken, pair.Refresh); err != nil {
		// Never leave half a session behind.
		_ = store.Remove(ctx, KeyAccessToken)
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	role := roleFromToken(pair.Access)
	if err := s.storeRole(ctx, role); err != nil {
		s.client.logger().WarnContext(ctx, "role_store_failed", "error", err)
	}

	s.client.logger().InfoContext(ctx, "login_succeeded", "role", role.String())
	return pair, nil
}

// Register creates an account. It does not log in.
func (s *Session) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req, err := newRequest(http.MethodPost, "register/", in)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout forgets the session locally; the server is never contacted. Every
// key is attempted even when one fails, so the session ends regardless. The
// returned error only reports what could not be removed.
func (s *Session) Logout(ctx context.Context) error {
	err := ClearSession(ctx, s.client.Store)
	if err != nil {
		s.client.logger().ErrorContext(ctx, "logout_incomplete", "error", err)
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.client.logger().InfoContext(ctx, "logged_out")
	return nil
}

// IsAuthenticated reports whether an access token is stored. It says
// nothing about whether the server still accepts it.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	token, err := s.client.Store.Get(ctx, KeyAccessToken)
	return err == nil && token != ""
}

// Role returns the stored role, RoleUnknown when none is stored.
func (s *Session) Role(ctx context.Context) (Role, error) {
	v, err := s.client.Store.Get(ctx, KeyUserRole)
	if err != nil {
		return RoleUnknown, fmt.Errorf("failed to read role: %w", err)
	}
	return ParseRole(v), nil
}

// SetRole stores a role learned some other way than the token claims.
func (s *Session) SetRole(ctx context.Context, role Role) error {
	if !role.Valid() {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", role)}
	}
	return s.storeRole(ctx, role)
}

// Claims decodes the stored access token without verifying it.
func (s *Session) Claims(ctx context.Context) (*jwtx.Claims, error) {
	token, err := s.client.Store.Get(ctx, KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return jwtx.ParseUnverified(token)
}

// storeRole writes role, or removes a stale one when role is unknown.
func (s *Session) storeRole(ctx context.Context, role Role) error {
	if !role.Valid() {
		return s.client.Store.Remove(ctx, KeyUserRole)
	}
	if err := s.client.Store.Set(ctx, KeyUserRole, role.String()); err != nil {
		return fmt.Errorf("failed to store role: %w", err)
	}
	return nil
}

func roleFromToken(token string) Role {
	claims, err := jwtx.ParseUnverified(token)
	if err != nil {
		return RoleUnknown
	}
	return ParseRole(claims.RoleHint())
}
