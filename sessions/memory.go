package sessions

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart and are not shared between instances.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	data    Data
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, data *Data, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memoryEntry{data: *data, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Data, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(entry.expires) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	data := entry.data
	return &data, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.sessions {
		if entry.data.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}
