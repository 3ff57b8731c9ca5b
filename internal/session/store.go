package session

import (
	"context"
	"sync"
	"time"
)

const revokedKeyPrefix = "session:revoked:"

// Cache is the subset of the application cache the revocation list needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// CacheRevocationStore keeps revoked IDs in the shared cache so every instance sees a logout.
type CacheRevocationStore struct {
	cache Cache
	now   func() time.Time
}

func NewCacheRevocationStore(cache Cache) *CacheRevocationStore {
	return &CacheRevocationStore{cache: cache, now: time.Now}
}

func (s *CacheRevocationStore) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKeyPrefix+id, "1", ttl)
}

func (s *CacheRevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	v, err := s.cache.Get(ctx, revokedKeyPrefix+id)
	if err != nil {
		return false, err
	}
	return v != "", nil
}

// MemoryRevocationStore is used when no external cache is configured.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, id string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, k)
		}
	}
	s.revoked[id] = until
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[id]
	return ok && until.After(s.now()), nil
}
