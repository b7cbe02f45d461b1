package librarysdk

import (
	"context"
	"net/http"
	"strconv"
)

// The users/ endpoints are for employees; customers get 403.

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	req, err := newRequest(http.MethodGet, "users/", nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := c.call(ctx, req, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) UserDetails(ctx context.Context, userID int64) (*User, error) {
	req, err := c.userRequest(http.MethodGet, "users/details/", userID)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) AddUser(ctx context.Context, in Profile) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req, err := newRequest(http.MethodPost, "users/add/", in)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) EditUser(ctx context.Context, in UserUpdate) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req, err := newRequest(http.MethodPut, "users/edit/", in)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) (*Ack, error) {
	req, err := c.userRequest(http.MethodDelete, "users/delete/", userID)
	if err != nil {
		return nil, err
	}
	return c.ack(ctx, req)
}

// ToggleUserActive flips the account's active flag.
func (c *Client) ToggleUserActive(ctx context.Context, userID int64) (*Ack, error) {
	req, err := c.userRequest(http.MethodPut, "users/active/", userID)
	if err != nil {
		return nil, err
	}
	return c.ack(ctx, req)
}

func (c *Client) userRequest(method, path string, userID int64) (*pendingRequest, error) {
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}

	req, err := newRequest(method, path, nil)
	if err != nil {
		return nil, err
	}
	return req.withQuery("user_id", strconv.FormatInt(userID, 10)), nil
}
