package service

import "sync"

// txLocks serializes reconciliation per external transaction id. Two
// notifications for the same transaction arriving concurrently must not
// interleave their read-modify-write of the payment record; notifications for
// different transactions never contend.
type txLocks struct {
	mu    sync.Mutex
	locks map[string]*txLock
}

type txLock struct {
	mu   sync.Mutex
	refs int
}

func newTxLocks() *txLocks {
	return &txLocks{locks: make(map[string]*txLock)}
}

// lock blocks until the key is held and returns the release func. Entries are
// dropped once the last holder releases, so the map stays bounded.
func (l *txLocks) lock(key string) func() {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &txLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
