// Package revocation holds the backends that remember logged-out tokens.
package revocation

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrFull is returned by MemoryStore.Revoke when capacity is reached and no
// tracked id has expired yet.
var ErrFull = errors.New("revocation list is full")

// MemoryStore keeps revoked token ids in memory until ttl passes, which
// should be at least the access token lifetime. It holds at most size live
// ids and refuses new ones past that instead of evicting. Revocations are
// lost on restart and are not shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.LRU[string, time.Time]
	size  int
	now   func() time.Time
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		// unlimited: the cache must never evict a live id
		cache: lru.NewLRU[string, time.Time](0, nil, ttl),
		size:  size,
		now:   time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	if !expiresAt.After(s.now()) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size > 0 && !s.cache.Contains(jti) && s.cache.Len() >= s.size && s.live() >= s.size {
		return ErrFull
	}
	s.cache.Add(jti, expiresAt)
	return nil
}

// live counts ids whose token has not expired. Len also counts entries the
// cache has not purged yet, and Values pads those with zero times.
func (s *MemoryStore) live() int {
	now := s.now()
	n := 0
	for _, expiresAt := range s.cache.Values() {
		if expiresAt.After(now) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	expiresAt, ok := s.cache.Get(jti)
	if !ok {
		return false, nil
	}
	return s.now().Before(expiresAt), nil
}

// Len reports the number of tracked ids.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
