// Package countdown tracks the remaining time of a timed quiz attempt.
package countdown

import (
	"fmt"
	"sync"
	"time"
)

// Controller counts down whole seconds. It is driven externally: the owner
// calls Tick once per second while the attempt is in progress.
type Controller struct {
	mu        sync.Mutex
	timed     bool
	total     int
	remaining int
	running   bool
	expired   bool
}

// New creates a controller for the given limit. A nil or non-positive limit
// yields an untimed, inert controller.
func New(timeLimitMinutes *int) *Controller {
	if timeLimitMinutes == nil || *timeLimitMinutes <= 0 {
		return &Controller{}
	}
	secs := *timeLimitMinutes * 60
	return &Controller{
		timed:     true,
		total:     secs,
		remaining: secs,
		running:   true,
	}
}

// Tick advances the countdown by one second. It returns true exactly once,
// on the tick that reaches zero. Ticks while stopped, untimed or after
// expiry are ignored.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.timed || !c.running || c.expired {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.expired = true
		c.running = false
		return true
	}
	return false
}

// Stop pauses ticking. Used when the attempt leaves the in-progress state.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Resume restarts ticking unless the countdown has already expired.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timed && !c.expired {
		c.running = true
	}
}

// Running reports whether ticks currently count.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Timed reports whether the quiz has a time limit.
func (c *Controller) Timed() bool {
	return c.timed
}

// Expired reports whether the countdown reached zero.
func (c *Controller) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// Remaining returns the time left.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Duration(c.remaining) * time.Second
}

// Fraction returns remaining/total in [0,1]; 1 for untimed quizzes.
func (c *Controller) Fraction() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.timed || c.total == 0 {
		return 1
	}
	return float64(c.remaining) / float64(c.total)
}

// Format renders the remaining time as m:ss.
func (c *Controller) Format() string {
	rem := c.Remaining()
	mins := int(rem.Minutes())
	secs := int(rem.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
