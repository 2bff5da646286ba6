// Package locks provides keyed mutual exclusion. Callers serialize work on a
// key (a conversation id, for example) without blocking work on other keys.
package locks

import "context"

// Unlock releases a held key. It must be called exactly once.
type Unlock func()

// Locker acquires exclusive ownership of a key.
type Locker interface {
	// Lock blocks until key is held or ctx is done. On error nothing is held.
	Lock(ctx context.Context, key string) (Unlock, error)
}
