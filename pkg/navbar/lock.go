package navbar

import (
	"sync"
	"sync/atomic"
)

// treeLock points at the mutex of the tree an entry or group belongs to.
// The pointer only changes while the old mutex is write locked, when a
// detached entry is inserted into another tree, so holders re-check it after
// acquiring.
type treeLock struct {
	p atomic.Pointer[sync.RWMutex]
}

func (t *treeLock) rlock() *sync.RWMutex {
	for {
		mu := t.p.Load()
		mu.RLock()
		if t.p.Load() == mu {
			return mu
		}
		mu.RUnlock()
	}
}

func (t *treeLock) lock() *sync.RWMutex {
	for {
		mu := t.p.Load()
		mu.Lock()
		if t.p.Load() == mu {
			return mu
		}
		mu.Unlock()
	}
}

func (t *treeLock) set(mu *sync.RWMutex) {
	t.p.Store(mu)
}
