package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"valuator/internal/logger"
	"valuator/internal/ports"
)

var ErrSessionNotFound = errors.New("session not found")

const maxUpdateAttempts = 10

// Store persists sessions. Get returns ports.ErrNotFound for unknown ids;
// Save returns ports.ErrConflict when the session was saved by someone else
// since it was read.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// Service serializes writers per session id; every mutation goes through
// Update so one logical caller applies a full transition at a time.
type Service struct {
	store Store
	log   logger.Logger
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		locks: make(map[string]*sessionLock),
	}
}

func (s *Service) Create(ctx context.Context) (*Session, error) {
	sess := New(uuid.NewString(), s.now())
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.log.Info("session created", logger.Fields{"session": sess.ID})
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// Update loads the session, applies fn and saves the result while holding
// the session's lock. Nothing is saved when fn returns an error. The lock
// only covers this process, so a save that loses to another replica is
// retried on a fresh copy and fn runs again.
func (s *Service) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock := s.lock(id)
	defer unlock()

	var err error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		var sess *Session
		sess, err = s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(sess); err != nil {
			return nil, err
		}
		sess.UpdatedAt = s.now()
		err = s.store.Save(ctx, sess)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ports.ErrConflict) {
			break
		}
		s.log.Debug("session changed concurrently, retrying", logger.Fields{"session": id, "attempt": attempt})
	}
	return nil, fmt.Errorf("save session: %w", err)
}

func (s *Service) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}
