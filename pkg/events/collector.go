package events

import (
	"slices"
	"sync"
)

// NewCollector records every event and forwards it to handler, which may be nil.
func NewCollector(handler Handler) *Collector {
	if handler == nil {
		handler = NoopHandler{}
	}
	return &Collector{handler: handler}
}

// Collector is safe for concurrent use; steps report from their own goroutines.
type Collector struct {
	mu      sync.Mutex
	events  []Event
	handler Handler
}

func (c *Collector) Handle(event Event) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	c.handler.Handle(event)
}

func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

func (c *Collector) AtLevel(level Level) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, 0)
	for _, event := range c.events {
		if event.Level >= level {
			out = append(out, event)
		}
	}
	return out
}

func (c *Collector) HasLevel(level Level) bool {
	return len(c.AtLevel(level)) > 0
}

func (c *Collector) Clear() {
	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()
}

func (c *Collector) Summary() *Summary {
	out := new(Summary)
	for _, event := range c.Events() {
		out.Counts[event.Level]++
		if event.Level >= Warn {
			out.Problems = append(out.Problems, event)
		}
	}
	return out
}
