package jwtx

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when a token cannot be decoded at all.
var ErrMalformed = errors.New("jwtx: malformed token")

// Claims are the access-token claims the client reads. The library API issues
// simplejwt-style tokens: a numeric "user_id", optional "username", and the
// role either as a "role" string or "is_employee"/"is_staff" flags.
//
// The client never verifies signatures. It cannot hold the server's key, and
// every decision taken from these claims is a hint the server re-checks.
type Claims struct {
	jwt.RegisteredClaims

	UserID     any    `json:"user_id,omitempty"`
	Username   string `json:"username,omitempty"`
	RoleName   string `json:"role,omitempty"`
	IsEmployee *bool  `json:"is_employee,omitempty"`
	IsStaff    *bool  `json:"is_staff,omitempty"`
}

// ParseUnverified decodes the claims of a JWT without checking its signature.
func ParseUnverified(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &claims, nil
}

// Role values RoleHint can return besides the raw "role" claim.
const (
	RoleEmployee = "employee"
	RoleCustomer = "customer"
)

// RoleHint returns the role the token claims. An explicit "role" claim wins
// over the flags. Either flag set to true means employee; customer needs at
// least one flag present and all present flags false. With nothing to go on
// it returns "".
func (c *Claims) RoleHint() string {
	if c.RoleName != "" {
		return c.RoleName
	}

	seen := false
	for _, flag := range []*bool{c.IsEmployee, c.IsStaff} {
		if flag == nil {
			continue
		}
		if *flag {
			return RoleEmployee
		}
		seen = true
	}

	if seen {
		return RoleCustomer
	}
	return ""
}

// Subject returns the user identifier, preferring "user_id" over "sub".
func (c *Claims) Subject() string {
	switch v := c.UserID.(type) {
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case string:
		return v
	}
	return c.RegisteredClaims.Subject
}

// ExpiresWithin reports whether the token expires before now+d. Tokens
// without "exp" never expire from the client's point of view.
func (c *Claims) ExpiresWithin(now time.Time, d time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.Add(d).After(c.ExpiresAt.Time)
}
