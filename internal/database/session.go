package database

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

// ErrSessionReleased is returned when a session is used after Release.
var ErrSessionReleased = errors.New("session already released")

// Session is one request's unit of work. Statements run on the shared
// pool and give their connection back as soon as they finish; Release
// only ends the session's lifetime.
type Session struct {
	mu       sync.Mutex
	db       *gorm.DB
	ctx      context.Context
	released bool
	onDone   func()
}

// DB returns the context-bound handle for ad hoc statements.
func (s *Session) DB() (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, ErrSessionReleased
	}
	return s.db, nil
}

// Transaction runs fn and commits when it returns nil. An error or panic
// rolls the transaction back.
func (s *Session) Transaction(fn func(tx *gorm.DB) error) error {
	db, err := s.DB()
	if err != nil {
		return err
	}
	return db.Transaction(fn)
}

func (s *Session) Context() context.Context {
	return s.ctx
}

// Release ends the session. It is safe to call more than once.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.db = nil
	if s.onDone != nil {
		s.onDone()
	}
}
