package cache

import (
	"sync"

	"go.trai.ch/assetcache/internal/core/domain"
)

// keyLocks hands out one mutex per fingerprint. Entries are reference counted and
// dropped when the last holder releases them, so the map only holds keys in use.
type keyLocks struct {
	mu    sync.Mutex
	locks map[domain.Fingerprint]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[domain.Fingerprint]*keyLock)}
}

// lock blocks until key is held and returns the release function.
func (l *keyLocks) lock(key domain.Fingerprint) func() {
	kl := l.acquire(key)
	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		l.release(key, kl)
	}
}

// tryLock takes key only if nobody holds it.
func (l *keyLocks) tryLock(key domain.Fingerprint) (func(), bool) {
	kl := l.acquire(key)
	if !kl.mu.TryLock() {
		l.release(key, kl)
		return nil, false
	}
	return func() {
		kl.mu.Unlock()
		l.release(key, kl)
	}, true
}

// held returns the number of keys currently referenced.
func (l *keyLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *keyLocks) acquire(key domain.Fingerprint) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl := l.locks[key]
	if kl == nil {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	return kl
}

func (l *keyLocks) release(key domain.Fingerprint, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}
