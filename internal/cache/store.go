// Package cache holds the last-good payload per source. Entries are
// overwritten on validated refreshes and never evicted: a stale entry is
// still the best available data, and staleness is a caller-visible age
// rather than a deletion policy.
package cache

import (
	"sync"
	"time"

	"market-pulse/internal/domain"
)

// Entry owns one SourcePayload plus the time it was stored.
type Entry struct {
	Payload  domain.SourcePayload
	StoredAt time.Time
}

// Age reports how old the entry is at the given instant.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Store is a mutex-guarded key->entry map. Jobs write one key at a
// time; the metrics recompute reads concurrently with those writes.
type Store struct {
	mu      sync.RWMutex
	entries map[domain.SourceKey]Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[domain.SourceKey]Entry)}
}

// Get returns the entry for key, stale or not. The second return is
// false only when the key has never been populated.
func (s *Store) Get(key domain.SourceKey) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Put unconditionally overwrites the entry for key. Callers validate
// payloads first; the store never merges.
func (s *Store) Put(key domain.SourceKey, payload domain.SourcePayload, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Payload: payload, StoredAt: now}
}

// IsFresh reports whether the entry for key exists and is younger than
// ttl at the given instant. At exactly age==ttl the entry is stale.
func (s *Store) IsFresh(key domain.SourceKey, now time.Time, ttl time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	return now.Sub(e.StoredAt) < ttl
}

// Snapshot returns a copy of the current entries.
func (s *Store) Snapshot() map[domain.SourceKey]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.SourceKey]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}
