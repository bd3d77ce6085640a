package users

import (
	"fmt"
	"sync"
)

// EventKind identifies what changed in the collection.
type EventKind string

const (
	EventReplaced    EventKind = "replaced"
	EventAdded       EventKind = "added"
	EventEdited      EventKind = "edited"
	EventDeleted     EventKind = "deleted"
	EventFetchFailed EventKind = "fetch-failed"
	EventStatus      EventKind = "status"
)

// Event is a single change notification. Users is a snapshot of the whole
// collection after the change; User is the record an add, edit, or delete
// acted on.
type Event struct {
	Kind   EventKind
	Users  []User
	User   *User
	Query  string
	Status RequestStatus
	Err    error
}

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 64

// Broadcaster fans events out to any number of subscribers. Sends never
// block: a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// NewBroadcaster returns a Broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Emit delivers ev to every subscriber without blocking.
func (b *Broadcaster) Emit(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Drop the event if the subscriber is full.
		}
	}
}

// Close closes every subscriber channel. Later subscribers receive an
// already-closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// FormatEvent formats an Event as a human-readable line.
func FormatEvent(ev Event) string {
	switch ev.Kind {
	case EventReplaced:
		if ev.Query != "" {
			return fmt.Sprintf("  ✓ search %q: %d users", ev.Query, len(ev.Users))
		}
		return fmt.Sprintf("  ✓ fetched %d users", len(ev.Users))
	case EventAdded, EventEdited, EventDeleted:
		if ev.User == nil {
			return fmt.Sprintf("  ● %s", ev.Kind)
		}
		return fmt.Sprintf("  ● %s #%d %s", ev.Kind, ev.User.ID, ev.User.FullName())
	case EventFetchFailed:
		return fmt.Sprintf("  ✗ fetch failed: %v", ev.Err)
	case EventStatus:
		return fmt.Sprintf("  ○ status: %s", ev.Status)
	default:
		return fmt.Sprintf("  ? %s (unknown event)", ev.Kind)
	}
}
