// Package notify fans order state-change events out to connected merchant
// clients. Delivery is best-effort: there is no persistence or replay, a
// client that is disconnected simply misses events until it reconnects.
package notify

import (
	"log"
	"sync"
)

// EventType discriminates the events merchants receive.
type EventType string

const (
	EventNewOrder EventType = "NEW_ORDER"
	EventReminder EventType = "REMINDER"
)

// Event is a state-change notification for merchant clients.
type Event struct {
	Type    EventType `json:"type"`
	OrderID string    `json:"order_id"`
	Message string    `json:"message"`
}

// Channel is one connected merchant client. The transport (websocket, AMQP,
// whatever) lives outside this package; it registers a Channel on connect and
// deregisters it on disconnect.
type Channel interface {
	Send(event Event) error
}

// Dispatcher maintains the registry of connected channels and broadcasts
// events to all of them. Safe for concurrent use by request handlers and the
// transport layer.
type Dispatcher struct {
	channels map[Channel]struct{}
	mu       sync.Mutex
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		channels: make(map[Channel]struct{}),
	}
}

// Register adds a channel to the registry. A channel registered while a
// broadcast is in flight may or may not receive that broadcast.
func (d *Dispatcher) Register(ch Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels[ch] = struct{}{}
}

// Deregister removes a channel. Removing an unknown channel is a no-op.
func (d *Dispatcher) Deregister(ch Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.channels, ch)
}

// Len returns the number of currently registered channels.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.channels)
}

// Broadcast sends the event to every registered channel. Each send runs in
// its own goroutine so a slow channel cannot delay the others or the caller;
// a channel whose send fails is dropped from the registry. Broadcast never
// returns an error to the caller.
func (d *Dispatcher) Broadcast(event Event) {
	d.mu.Lock()
	targets := make([]Channel, 0, len(d.channels))
	for ch := range d.channels {
		targets = append(targets, ch)
	}
	d.mu.Unlock()

	for _, ch := range targets {
		go func(ch Channel) {
			if err := ch.Send(event); err != nil {
				log.Printf("Dropping merchant channel after failed send: %v", err)
				d.Deregister(ch)
			}
		}(ch)
	}
}
