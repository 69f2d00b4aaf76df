package simulator

import "sync"

// keyedMutex hands out one mutex per tenant so a tick and a sweep for
// the same guild never interleave while different guilds stay
// parallel. Mutexes are created on first use and kept for the process
// lifetime; the set of guilds is small enough that they are never
// reclaimed.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock func.
func (km *keyedMutex) Lock(key string) func() {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &sync.Mutex{}
		km.locks[key] = l
	}
	km.mu.Unlock()

	l.Lock()
	return l.Unlock
}
