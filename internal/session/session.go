// Package session provides an explicit per-client key-value bag with
// load/commit semantics. A Session is always passed by reference into the
// workflow operations that need it; there is no ambient lookup.
package session

import "context"

const (
	KeyUserID    = "UserId"
	KeyUserEmail = "UserEmail"
	KeyUserName  = "UserName"
	KeyUserRole  = "UserRole"
)

// Session holds string and int values scoped to one client session.
// Mutations are local until the owner commits the session back to its Store.
type Session struct {
	ID     string
	values map[string]any
}

func New(id string) *Session {
	return &Session{ID: id, values: make(map[string]any)}
}

// Restore rebuilds a session from previously committed values.
func Restore(id string, values map[string]any) *Session {
	if values == nil {
		values = make(map[string]any)
	}
	return &Session{ID: id, values: values}
}

func (s *Session) SetString(key, value string) {
	s.values[key] = value
}

func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.values[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *Session) SetInt(key string, value int) {
	s.values[key] = value
}

func (s *Session) GetInt(key string) (int, bool) {
	v, ok := s.values[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		// JSON round-trip through the store decodes numbers as float64.
		return int(n), true
	default:
		return 0, false
	}
}

func (s *Session) Clear() {
	s.values = make(map[string]any)
}

// Values returns the backing map for stores to serialize.
func (s *Session) Values() map[string]any { return s.values }

// Store persists sessions across requests, scoped per session identifier.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Load(ctx context.Context, id string) (*Session, error)
	Commit(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
