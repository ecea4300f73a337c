package idempotency

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	entry   Entry
	expires time.Time
}

// MemoryStore is a process-local Store for tests and single-instance runs.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Begin(_ context.Context, key string) (Entry, bool, error) {
	if key == "" {
		return Entry{}, false, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expires) {
		return e.entry, false, nil
	}
	s.entries[key] = memoryEntry{entry: Entry{Pending: true}, expires: now.Add(s.ttl)}
	return Entry{}, true, nil
}

func (s *MemoryStore) Complete(_ context.Context, key string, code int, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := append([]byte(nil), body...)
	s.entries[key] = memoryEntry{entry: Entry{Code: code, Body: cp}, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Abort(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
