package service

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionLocks serializes mutations of one session's ordering domains. Two
// writers computing shifts against the same stale snapshot would both commit
// and leave the positions with gaps or duplicates, so every composer
// operation that mutates a session (or any block inside it) holds that
// session's lock from snapshot load until the last sibling write. Different
// sessions proceed in parallel.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionLocks creates an empty lock table.
func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[primitive.ObjectID]*sessionLock)}
}

// Acquire blocks until the session's lock is free and returns the release
// function. Entries are dropped once the last holder releases, so the table
// stays proportional to the number of sessions being edited right now.
func (l *SessionLocks) Acquire(sessionID primitive.ObjectID) func() {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
