package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used when no Redis address is
// configured, and by tests.
// Expired entries are swept on Set at most once per sweepInterval.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

const sweepInterval = time.Minute

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if s.expired(entry) {
		s.mu.Lock()
		if current, ok := s.items[key]; ok && s.expired(current) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, ErrMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	s.mu.Lock()
	if !now.Before(s.nextSweep) {
		s.sweepLocked()
		s.nextSweep = now.Add(sweepInterval)
	}
	s.items[key] = entry
	s.mu.Unlock()
	return nil
}

// Cleanup drops every expired entry.
func (s *MemoryStore) Cleanup() {
	s.mu.Lock()
	s.sweepLocked()
	s.mu.Unlock()
}

func (s *MemoryStore) sweepLocked() {
	for k, entry := range s.items {
		if s.expired(entry) {
			delete(s.items, k)
		}
	}
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DelPattern(_ context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for k, entry := range s.items {
		if !Match(pattern, k) {
			continue
		}
		delete(s.items, k)
		if !s.expired(entry) {
			removed++
		}
	}
	return removed, nil
}

// Len counts live entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, entry := range s.items {
		if !s.expired(entry) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
