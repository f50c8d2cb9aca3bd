// Package feedback tracks the most recently copied item for a short while.
package feedback

import (
	"sync"
	"time"
)

// DefaultExpiry is how long a copy confirmation stays visible.
const DefaultExpiry = 2 * time.Second

// Channel holds one confirmed item id and at most one pending clear timer.
type Channel struct {
	mu      sync.Mutex
	expiry  time.Duration
	current string
	timer   *time.Timer
	gen     uint64
}

// NewChannel returns a Channel clearing confirmations after expiry
// (DefaultExpiry when expiry <= 0).
func NewChannel(expiry time.Duration) *Channel {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Channel{expiry: expiry}
}

// MarkCopied records id and restarts the expiry. A previous pending clear is
// cancelled, so only the last call's timer can fire.
func (c *Channel) MarkCopied(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.current = id
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.expiry, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Stop can lose the race with a timer that already fired.
		if c.gen != gen {
			return
		}
		c.current = ""
		c.timer = nil
	})
}

// IsCopied reports whether id is the currently confirmed item.
func (c *Channel) IsCopied(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return id != "" && c.current == id
}

// Current returns the confirmed id, or "" when nothing is confirmed.
func (c *Channel) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Stop cancels any pending clear and forgets the current item.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.current = ""
}
