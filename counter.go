package analyticord

import "sync"

// EventCounter counts occurrences of one event kind between flushes.
// It is safe for concurrent use.
type EventCounter struct {
	name string

	mu    sync.Mutex
	count int64
}

func newEventCounter(name string) *EventCounter {
	return &EventCounter{name: name}
}

// Name returns the event type the counter reports as.
func (c *EventCounter) Name() string { return c.name }

// Increment adds one to the counter.
func (c *EventCounter) Increment() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

// Add adds n to the counter. Non-positive values are ignored.
func (c *EventCounter) Add(n int64) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	c.count += n
	c.mu.Unlock()
}

// Count returns the pending count without resetting it.
func (c *EventCounter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// ReadAndReset returns the pending count and sets it to zero in one step.
// Increments that acquire the lock afterwards belong to the next flush.
func (c *EventCounter) ReadAndReset() int64 {
	c.mu.Lock()
	n := c.count
	c.count = 0
	c.mu.Unlock()
	return n
}
