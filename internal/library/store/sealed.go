package store

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/libris/pkg/cryptox"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
)

type sealedStore struct {
	inner  librarysdk.TokenStore
	sealer *cryptox.Sealer
}

// Sealed encrypts values at rest before handing them to inner. A value that
// fails to decrypt is reported as an error, never returned as a token.
func Sealed(inner librarysdk.TokenStore, sealer *cryptox.Sealer) librarysdk.TokenStore {
	return &sealedStore{inner: inner, sealer: sealer}
}

func (s *sealedStore) Get(ctx context.Context, key librarysdk.Key) (string, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil || raw == "" {
		return raw, err
	}

	value, err := s.sealer.Open(raw)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", key, err)
	}
	return value, nil
}

func (s *sealedStore) Set(ctx context.Context, key librarysdk.Key, value string) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("failed to seal %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *sealedStore) Remove(ctx context.Context, key librarysdk.Key) error {
	return s.inner.Remove(ctx, key)
}

func (s *sealedStore) Close() error { return s.inner.Close() }
