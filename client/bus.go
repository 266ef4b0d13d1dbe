package client

import "sync"

// Event is a session lifecycle notification. The bus carries no state,
// only a change signal: subscribers re-read the session store themselves
// on receipt.
type Event int

const (
	// EventSessionChanged fires on every session mutation: login, signup,
	// logout, profile update, avatar change.
	EventSessionChanged Event = iota
	// EventSessionExpired fires when a request that carried a token came
	// back 401 and the session was force-cleared. It always follows an
	// EventSessionChanged from the clear itself.
	EventSessionExpired
)

// Bus is an explicit publish/subscribe channel for session events.
//
// Each subscriber gets its own buffered channel; publishes never block.
// If a subscriber falls behind, events for it are dropped rather than
// stalling the publisher — session events are refresh hints, not
// correctness-critical deliveries, so a dropped event costs a stale view
// at worst and the next event catches it up.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel func removes
// the subscription and closes the channel; it is safe to call more than
// once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default: // subscriber is full, drop
		}
	}
}
