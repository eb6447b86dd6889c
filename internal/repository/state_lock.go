package repository

import "sync"

// StateLock guards changes that touch both the roster and the feed, so readers that need both
// collections see them at the same point. A nil StateLock does not lock.
type StateLock struct {
	mu sync.RWMutex
}

// NewStateLock returns a ready lock.
func NewStateLock() *StateLock {
	return &StateLock{}
}

func (l *StateLock) Lock() {
	if l != nil {
		l.mu.Lock()
	}
}

func (l *StateLock) Unlock() {
	if l != nil {
		l.mu.Unlock()
	}
}

func (l *StateLock) RLock() {
	if l != nil {
		l.mu.RLock()
	}
}

func (l *StateLock) RUnlock() {
	if l != nil {
		l.mu.RUnlock()
	}
}
