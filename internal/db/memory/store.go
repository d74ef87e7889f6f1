// Package memory implements db.Store with an in-process map. It is the
// default driver for single-node deployments and tests.
package memory

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/sixthdegree/contactsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is a concurrency-safe in-memory key-value store.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]entry)}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady always succeeds.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok || e.expired() {
		return nil, db.ErrKeyNotFound
	}
	return e.value, nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = entry{value: value}
	s.mu.Unlock()
	return nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.data[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	return ok && !e.expired(), nil
}

// Scan returns keys matching a glob pattern.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k, e := range s.data {
		if e.expired() {
			continue
		}
		if ok, err := path.Match(pattern, k); err == nil && ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (e entry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}
