package librarysdk

import (
	"context"
	"errors"
	"net/http"
)

// errIncompleteTokens is returned when a token response lacks a token the
// caller needs.
var errIncompleteTokens = errors.New("librarysdk: token response is missing a token")

// PasswordGrant exchanges credentials for a token pair. It stores nothing;
// Session.Login does that.
func (c *Client) PasswordGrant(ctx context.Context, username, password string) (*TokenPair, error) {
	req, err := newRequest(http.MethodPost, "token/", LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return nil, errIncompleteTokens
	}

	return &pair, nil
}

// RefreshGrant exchanges a refresh token for a new access token. Refresh is
// set only when the server rotates refresh tokens.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*TokenPair, error) {
	req, err := newRequest(http.MethodPost, "token/refresh/", refreshRequest{Refresh: refreshToken})
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var out refreshResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.Access == "" {
		return nil, errIncompleteTokens
	}

	return &TokenPair{Access: out.Access, Refresh: out.Refresh}, nil
}
