package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/reliefworks/reliefdesk/internal/session"
	"gorm.io/gorm"
)

// SessionStore persists session bags as JSON rows keyed by a random token.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context) (*session.Session, error) {
	m := SessionModel{
		Token:     uuid.NewString(),
		Data:      "{}",
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return session.New(m.Token), nil
}

func (s *SessionStore) Load(ctx context.Context, id string) (*session.Session, error) {
	var m SessionModel
	if err := s.db.WithContext(ctx).Where("token = ?", id).First(&m).Error; err != nil {
		return nil, session.ErrNotFound
	}
	if m.ExpiresAt.Before(time.Now()) {
		_ = s.Delete(ctx, id)
		return nil, session.ErrNotFound
	}
	values := make(map[string]any)
	if err := json.Unmarshal([]byte(m.Data), &values); err != nil {
		return nil, err
	}
	return session.Restore(id, values), nil
}

func (s *SessionStore) Commit(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess.Values())
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&SessionModel{}).Where("token = ?", sess.ID).Update("data", string(data))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("token = ?", id).Delete(&SessionModel{}).Error
}
