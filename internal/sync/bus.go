package sync

import (
	"sync"
	"time"
)

// Scope names which owned collection an event is about.
type Scope string

const (
	ScopeCart     Scope = "cart"
	ScopeWishlist Scope = "wishlist"
)

// Event is one change notification on the bus. Owner is the cart/wishlist
// owner key the change belongs to.
type Event struct {
	Owner  string    `json:"owner"`
	Scope  Scope     `json:"scope"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

const defaultSubscriberBuffer = 16

type subscription struct {
	ch    chan Event
	owner string
}

// Bus is an in-process broadcast registry. Publishers never block: a
// subscriber that falls behind loses events and is expected to refetch.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	buffer int
	closed bool
}

// NewBus constructs a bus with the given per-subscriber buffer. Zero or
// negative falls back to the default.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Bus{
		subs:   make(map[uint64]*subscription),
		buffer: buffer,
	}
}

// Publish fans the event out to every matching subscriber without blocking.
func (b *Bus) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if sub.owner != "" && sub.owner != event.Owner {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Full buffer: drop. Mirrors resync on the next read.
		}
	}
}

// Subscribe registers a listener. An empty owner receives every event;
// otherwise only events for that owner are delivered. The returned cancel
// func removes the subscription and closes the channel.
func (b *Bus) Subscribe(owner string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = &subscription{ch: ch, owner: owner}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub.ch)
			}
		})
	}
	return ch, cancel
}

// Close tears down every subscription. Publishing after close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
