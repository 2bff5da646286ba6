package locks

import (
	"context"
	"sync"
)

type entry struct {
	sem  chan struct{}
	refs int
}

// Local is an in-process Locker. Entries are dropped once no goroutine holds
// or waits on them, so memory tracks active keys only.
type Local struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewLocal creates an empty in-process Locker.
func NewLocal() *Local {
	return &Local{entries: make(map[string]*entry)}
}

func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	e := l.acquire(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(key, e)
		})
	}, nil
}

// Active returns the number of keys currently held or awaited.
func (l *Local) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Local) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Local) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
