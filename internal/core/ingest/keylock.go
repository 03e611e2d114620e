package ingest

import "sync"

// keyLock serializes ingestion per (class, chapter) key. Two concurrent
// re-ingestions of the same chapter would otherwise race on the
// delete-then-write sequence, one overwriting the other's fresh vectors.
// Locks are never released from the map; the key space is the bounded
// chapter catalog.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// Lock acquires the mutex for key and returns its unlock func.
func (k *keyLock) Lock(key string) func() {
	l := k.get(key)
	l.Lock()
	return l.Unlock
}
