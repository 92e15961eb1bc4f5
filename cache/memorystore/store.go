package memorystore

import (
	"context"
	"sync"
	"time"

	"github.com/storegate/auth-server/cache"
)

type entry struct {
	value    []byte
	deadline time.Time
}

// Store is an in-process cache.Cache used by tests and single-node
// deployments that do not run Redis.
type Store struct {
	entries map[string]entry
	lock    sync.RWMutex
	nowFunc func() time.Time
}

var _ cache.Cache = (*Store)(nil)

func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		nowFunc: time.Now,
	}
}

// WithNowFunc overrides the clock, primarily for tests.
func (s *Store) WithNowFunc(now func() time.Time) *Store {
	s.nowFunc = now
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.lock.RLock()
	e, ok := s.entries[key]
	s.lock.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if s.nowFunc().After(e.deadline) {
		s.lock.Lock()
		delete(s.entries, key)
		s.lock.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries[key] = entry{value: value, deadline: s.nowFunc().Add(ttl)}
	return nil
}
