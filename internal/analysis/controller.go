package analysis

import (
	"sync"
	"sync/atomic"
	"time"
)

// GracePeriod is how long a terminated verifier gets to exit cleanly
// before it is killed.
const GracePeriod = 5 * time.Second

// Controller is the cancellation token shared by the pool, the workers,
// and the signal/keyboard handlers. Stop is a one-way, level-triggered
// transition: once stopped, always stopped.
type Controller struct {
	registry *Registry
	done     chan struct{}
	once     sync.Once
	stopped  atomic.Bool
}

func NewController(reg *Registry) *Controller {
	return &Controller{registry: reg, done: make(chan struct{})}
}

// Stop requests cancellation. Safe to call from any goroutine, any
// number of times.
func (c *Controller) Stop() {
	c.once.Do(func() {
		c.stopped.Store(true)
		close(c.done)
	})
}

// Stopped reports whether cancellation has been requested.
func (c *Controller) Stopped() bool {
	return c.stopped.Load()
}

// Done returns a channel closed when cancellation is requested, for use
// in select statements.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// CleanupRunning terminates every verifier process currently in the
// registry and waits for them to be reaped. Callable repeatedly.
func (c *Controller) CleanupRunning() {
	c.registry.KillAll(GracePeriod)
}
