package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"valuator/internal/ports"
	"valuator/internal/services/session"
)

const sessionKeyPrefix = "valuator:session:"

// SessionStore keeps sessions as JSON values that expire after ttl of
// inactivity. A zero ttl keeps them forever.
type SessionStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (s *SessionStore) Create(ctx context.Context, sess *session.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetNX(ctx, sessionKey(sess.ID), raw, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Save overwrites an existing session and refreshes its expiry. The write
// runs under WATCH and only if the stored version still matches sess, so
// replicas sharing the store cannot overwrite each other's updates.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	key := sessionKey(sess.ID)
	next := *sess
	next.Version++
	payload, err := json.Marshal(&next)
	if err != nil {
		return err
	}

	txf := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return ports.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get: %w", err)
		}
		var stored struct {
			Version uint64 `json:"version"`
		}
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("decode session %s: %w", sess.ID, err)
		}
		if stored.Version != sess.Version {
			return ports.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	err = s.rdb.Watch(ctx, txf, key)
	if errors.Is(err, goredis.TxFailedErr) {
		return ports.ErrConflict
	}
	if err != nil {
		return err
	}
	sess.Version = next.Version
	return nil
}
