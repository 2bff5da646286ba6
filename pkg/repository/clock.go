package repository

import (
	"sync"
	"time"
)

// Clock issues non-decreasing UTC timestamps at Postgres precision for the
// in-memory stores. The zero value is ready to use.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	Now  func() time.Time
}

// Next returns the current time, or the previous result when the wall clock moved backwards.
func (c *Clock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	t := now().UTC().Truncate(time.Microsecond)
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}
