package lock

import "sync"

// Keyed hands out one mutex per ticket id so operations on the same ticket
// are linearized while unrelated tickets proceed in parallel. Entries are
// reference counted and removed once the last holder releases.
type Keyed struct {
	mu    sync.Mutex
	locks map[int64]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[int64]*keyLock)}
}

// Lock blocks until the per-key mutex is held and returns the release func.
func (k *Keyed) Lock(key int64) (unlock func()) {
	k.mu.Lock()
	l := k.locks[key]
	if l == nil {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
