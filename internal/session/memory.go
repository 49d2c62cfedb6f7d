package session

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// MemoryStore keeps sessions in process memory. Used by tests and by the
// workflow operations when no durable store is wired.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]any)}
}

func (s *MemoryStore) Create(ctx context.Context) (*Session, error) {
	sess := New(uuid.NewString())
	s.mu.Lock()
	s.sessions[sess.ID] = map[string]any{}
	s.mu.Unlock()
	return sess, nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := make(map[string]any, len(values))
	maps.Copy(copied, values)
	return Restore(id, copied), nil
}

func (s *MemoryStore) Commit(ctx context.Context, sess *Session) error {
	copied := make(map[string]any, len(sess.Values()))
	maps.Copy(copied, sess.Values())
	s.mu.Lock()
	s.sessions[sess.ID] = copied
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
