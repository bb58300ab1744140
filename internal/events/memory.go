package events

import (
	"context"
	"sync"
)

// InMemoryPublisher collects events in memory.
// This is intended for testing. Production should use PubSubPublisher.
type InMemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

// NewInMemoryPublisher creates a new in-memory publisher.
func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

// Publish records the event.
func (p *InMemoryPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of all published events.
func (p *InMemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]Event(nil), p.events...)
}

// Ensure InMemoryPublisher implements Publisher interface.
var _ Publisher = (*InMemoryPublisher)(nil)
