package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

type memoryEntry struct {
	ident   models.Identity
	expires time.Time
}

// MemoryStore is an in-process Store used for single-node deployments and
// tests. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, handle string, ident models.Identity, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[handle] = memoryEntry{ident: ident, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, handle string) (models.Identity, error) {
	s.mu.RLock()
	entry, ok := s.entries[handle]
	s.mu.RUnlock()

	if !ok {
		return models.Identity{}, common.ErrNotFound
	}
	if s.now().After(entry.expires) {
		s.mu.Lock()
		delete(s.entries, handle)
		s.mu.Unlock()
		return models.Identity{}, common.ErrNotFound
	}

	return entry.ident, nil
}

func (s *MemoryStore) Delete(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, handle)
	return nil
}
