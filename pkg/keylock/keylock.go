package keylock

import "sync"

// KeyLock serializes critical sections per string key, so read-modify-write
// cycles on one stored aggregate never interleave while unrelated keys
// proceed concurrently.
//
// Locks are created on demand and kept for the lifetime of the KeyLock.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

func (l *KeyLock) Lock(key string) {
	l.get(key).Lock()
}

func (l *KeyLock) Unlock(key string) {
	l.get(key).Unlock()
}

func (l *KeyLock) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
