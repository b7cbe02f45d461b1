package memory

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/libris/pkg/librarysdk"
)

// Store keeps session values in process memory. Nothing survives a restart;
// it backs tests and the "memory" driver.
type Store struct {
	mu     sync.RWMutex
	values map[librarysdk.Key]string
}

func NewStore() *Store {
	return &Store{values: make(map[librarysdk.Key]string)}
}

func (s *Store) Get(_ context.Context, key librarysdk.Key) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *Store) Set(_ context.Context, key librarysdk.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key librarysdk.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *Store) Close() error { return nil }

// Len reports how many keys are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
