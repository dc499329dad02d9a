// internal/game/locks.go
//
// Keyed mutexes: an exclusive critical section per round (and per player
// for round starts) without a global lock. Entries are reference-counted
// so the map does not grow with every round ever played.

package game

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// keyedLocks hands out one mutex per key. Operations on different keys
// proceed independently; two holders of the same key serialize.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*lockEntry)}
}

// lock acquires the mutex for key, blocking until it is free.
func (k *keyedLocks) lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// unlock releases the mutex for key and drops the entry once idle.
func (k *keyedLocks) unlock(key string) {
	k.mu.Lock()
	e := k.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
