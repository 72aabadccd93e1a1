// Package annotations provides a low-overhead event system for tracking
// what the reasoners do: passes, rule firings, skolem constants, queries
// and contradictions.
package annotations

import (
	"sync"
	"time"
)

// Event name constants following hierarchical naming pattern
const (
	// Forward chaining lifecycle
	ChainInvoked      = "chain/invoked"
	ChainPassBegin    = "chain/pass.begin"
	ChainPassComplete = "chain/pass.complete"
	ChainFixpoint     = "chain/fixpoint"
	ChainBoundReached = "chain/bound-reached"
	ChainComplete     = "chain/completed"

	// Derivations
	RuleFired         = "rule/fired"
	SkolemMinted      = "skolem/minted"
	FactContradiction = "fact/contradiction"

	// Queries
	QueryInvoked  = "query/invoked"
	QueryComplete = "query/completed"

	// Errors
	ErrorStore = "error/store"
)

// Event represents a single annotation event.
type Event struct {
	Name    string                 // Event name using hierarchical constants above
	Start   time.Time              // Start timestamp
	End     time.Time              // End timestamp
	Latency time.Duration          // Duration (End - Start)
	Data    map[string]interface{} // Additional event-specific data
	Caller  string                 // Optional: file:line where event occurred
}

// Handler processes annotation events as they occur.
type Handler func(event Event)

// Multi fans events out to every non-nil handler in order.
// It returns nil when no handler is left, so NewContext stays zero-cost.
func Multi(handlers ...Handler) Handler {
	var live []Handler
	for _, h := range handlers {
		if h != nil {
			live = append(live, h)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(event Event) {
		for _, h := range live {
			h(event)
		}
	}
}

// Collector accumulates events during a run.
type Collector struct {
	enabled bool
	handler Handler
	events  []Event
	mu      sync.Mutex
}

// NewCollector creates a new annotation collector.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		enabled: handler != nil,
		handler: handler,
		events:  make([]Event, 0, 64),
	}
}

// Handler returns the underlying event handler.
func (c *Collector) Handler() Handler {
	return c.handler
}

// Add records a new event.
// Thread-safe for concurrent access.
func (c *Collector) Add(event Event) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	// Call handler outside the lock to avoid deadlocks
	c.handler(event)
}

// AddTiming records an event that started at start and ends now.
func (c *Collector) AddTiming(name string, start time.Time, data map[string]interface{}) {
	if !c.enabled {
		return
	}

	end := time.Now()
	c.Add(Event{
		Name:    name,
		Start:   start,
		End:     end,
		Latency: end.Sub(start),
		Data:    data,
	})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	eventsCopy := make([]Event, len(c.events))
	copy(eventsCopy, c.events)
	return eventsCopy
}

// Reset clears the collected events, keeping the handler.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}

// Recorder returns a handler that appends every event to *dst.
// Handy in tests and for callers that inspect a run afterwards.
func Recorder(dst *[]Event) Handler {
	var mu sync.Mutex
	return func(event Event) {
		mu.Lock()
		*dst = append(*dst, event)
		mu.Unlock()
	}
}

// Names returns the event names in order
func Names(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Name
	}
	return out
}
