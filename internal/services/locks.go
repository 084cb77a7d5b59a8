package services

import (
	"sync"

	"penny/internal/core"
)

// userLocks serializes operations per user so a read or bulk update never
// interleaves with another mutation of the same account.
type userLocks struct {
	mu    sync.Mutex
	locks map[core.UserID]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[core.UserID]*sync.Mutex)}
}

// lock acquires the user's mutex and returns its release func.
func (l *userLocks) lock(user core.UserID) func() {
	l.mu.Lock()
	m, ok := l.locks[user]
	if !ok {
		m = &sync.Mutex{}
		l.locks[user] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
