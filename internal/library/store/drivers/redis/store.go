package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/libris/pkg/librarysdk"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "libris"

// Store keeps session values in Redis under "<prefix>:<key>". It lets several
// client processes (for example a backend-for-frontend) share one session.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// NewStore wraps an existing client. An empty prefix falls back to "libris".
func NewStore(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, prefix string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", librarysdk.ErrStoreUnavailable, err)
	}
	return NewStore(rdb, prefix), nil
}

func (s *Store) key(k librarysdk.Key) string {
	return s.prefix + ":" + string(k)
}

func (s *Store) Get(ctx context.Context, key librarysdk.Key) (string, error) {
	value, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", librarysdk.ErrStoreUnavailable, err)
	}
	return value, nil
}

// Set stores the value without expiry; session lifetime is owned by logout.
func (s *Store) Set(ctx context.Context, key librarysdk.Key, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", librarysdk.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key librarysdk.Key) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", librarysdk.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }
