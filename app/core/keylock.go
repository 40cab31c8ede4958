package core

import "sync"

func NewKeyLock() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*keyLockEntry),
	}
}

// KeyLock is a blocking per-key mutex. Callers queue up on the same key and
// run one at a time, distinct keys never contend.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

func (s *KeyLock) Lock(key string) {
	s.mu.Lock()
	entry, ok := s.locks[key]
	if !ok {
		entry = &keyLockEntry{}
		s.locks[key] = entry
	}
	entry.refs++
	s.mu.Unlock()

	entry.mu.Lock()
}

func (s *KeyLock) Unlock(key string) {
	s.mu.Lock()
	entry, ok := s.locks[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(s.locks, key)
	}
	s.mu.Unlock()

	entry.mu.Unlock()
}
