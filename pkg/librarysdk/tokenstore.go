package librarysdk

import (
	"context"
	"errors"
)

// Key names one of the persisted session values. The strings match the keys
// the mobile app wrote to device storage, so an existing session reads back.
type Key string

const (
	KeyAccessToken  Key = "accessToken"
	KeyRefreshToken Key = "refreshToken"
	KeyUserRole     Key = "userRole"
)

// SessionKeys lists every key a logout must clear.
var SessionKeys = []Key{KeyAccessToken, KeyRefreshToken, KeyUserRole}

// ErrStoreUnavailable wraps driver failures (disk, network) so callers can
// tell a broken store apart from a missing value.
var ErrStoreUnavailable = errors.New("librarysdk: token store unavailable")

// TokenStore is durable key-value storage for the session values. It is the
// single owner of session state; the client reads through it and only the
// Session mutates it.
//
// Get never fails for a missing key, it returns "" and nil. Remove is
// idempotent. Implementations must be safe for concurrent use.
type TokenStore interface {
	Get(ctx context.Context, key Key) (string, error)
	Set(ctx context.Context, key Key, value string) error
	Remove(ctx context.Context, key Key) error

	// Close releases any underlying resources.
	Close() error
}

// ClearSession removes every session key, attempting all of them even when
// one fails. The returned error joins every failure.
func ClearSession(ctx context.Context, s TokenStore) error {
	var errs []error
	for _, key := range SessionKeys {
		if err := s.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
