package analyticord

import (
	"slices"
	"strings"
	"sync"
)

// EventMessages is the built-in event every client registers.
const EventMessages = "messages"

// EventRegistry maps event names to their counters. Entries are never removed.
type EventRegistry struct {
	mu       sync.RWMutex
	counters map[string]*EventCounter
}

// NewEventRegistry returns an empty registry.
func NewEventRegistry() *EventRegistry {
	return &EventRegistry{counters: make(map[string]*EventCounter)}
}

// Register returns the counter for name, creating it on first use.
func (r *EventRegistry) Register(name string) (*EventCounter, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ConfigError{Op: "register event", Err: ErrInvalidEventName}
	}

	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c, nil
	}
	c = newEventCounter(name)
	r.counters[name] = c
	return c, nil
}

// Get looks up a registered counter.
func (r *EventRegistry) Get(name string) (*EventCounter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.counters[name]
	return c, ok
}

// Names returns the registered event names in sorted order.
func (r *EventRegistry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.counters))
	for name := range r.counters {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Counters returns the registered counters ordered by name.
func (r *EventRegistry) Counters() []*EventCounter {
	r.mu.RLock()
	out := make([]*EventCounter, 0, len(r.counters))
	for _, c := range r.counters {
		out = append(out, c)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *EventCounter) int { return strings.Compare(a.name, b.name) })
	return out
}

// Len returns the number of registered events.
func (r *EventRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.counters)
}
