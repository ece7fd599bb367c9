// README: Dialog session store backed by Redis.
package followup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "followup:session:"
	DefaultSessionTTL = 30 * time.Minute
)

// Session is a stored dialog plus the text that started it. OwnerUID is empty
// for dialogs started without authentication.
type Session struct {
	ID           string    `json:"id"`
	OwnerUID     string    `json:"ownerUid,omitempty"`
	OriginalText string    `json:"originalText"`
	State        State     `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{redis: redis, ttl: ttl}
}

// Create starts a new dialog session for text on behalf of ownerUID.
func (s *Store) Create(ctx context.Context, ownerUID, text string) (Session, error) {
	sess := Session{
		ID:           uuid.NewString(),
		OwnerUID:     ownerUID,
		OriginalText: text,
		State:        NewState(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Save writes sess and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.redis.Set(ctx, sessionKey(sess.ID), raw, s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	if sess.State.Answers == nil {
		sess.State.Answers = map[Question]string{}
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
