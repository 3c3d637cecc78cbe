package memory

import (
	"sync"
	"time"
)

// serverClock stands in for the server-assigned write timestamp of a remote
// store. Successive stamps are strictly increasing so ordering by time is total.
type serverClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newServerClock(now func() time.Time) *serverClock {
	if now == nil {
		now = time.Now
	}
	return &serverClock{now: now}
}

func (c *serverClock) stamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}
