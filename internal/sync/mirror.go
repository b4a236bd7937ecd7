package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot is the mirrored view of one owner's cart and wishlist, refreshed
// whenever the bus reports a change.
type Snapshot struct {
	Cart        any       `json:"cart"`
	Wishlist    any       `json:"wishlist"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// SnapshotFunc loads the authoritative state for an owner.
type SnapshotFunc func(ctx context.Context, owner string) (Snapshot, error)

// Mirror keeps a per-owner cache of cart and wishlist state. Bus events
// invalidate the cached entry; the next read rebuilds it, with concurrent
// reads for the same owner coalesced into a single fetch.
type Mirror struct {
	mu    sync.RWMutex
	cache map[string]Snapshot

	group singleflight.Group
	fetch SnapshotFunc

	cancel func()
	done   chan struct{}
}

// NewMirror constructs a mirror fed by the provided bus.
func NewMirror(bus *Bus, fetch SnapshotFunc) (*Mirror, error) {
	if bus == nil {
		return nil, errors.New("bus is required")
	}
	if fetch == nil {
		return nil, errors.New("snapshot func is required")
	}

	m := &Mirror{
		cache: make(map[string]Snapshot),
		fetch: fetch,
		done:  make(chan struct{}),
	}

	events, cancel := bus.Subscribe("")
	m.cancel = cancel
	go m.consume(events)

	return m, nil
}

// Get returns the cached snapshot for the owner, fetching it on a miss.
// Concurrent misses for the same owner share one upstream call.
func (m *Mirror) Get(ctx context.Context, owner string) (Snapshot, error) {
	m.mu.RLock()
	snapshot, ok := m.cache[owner]
	m.mu.RUnlock()
	if ok {
		return snapshot, nil
	}

	result, err, _ := m.group.Do(owner, func() (any, error) {
		fresh, err := m.fetch(ctx, owner)
		if err != nil {
			return Snapshot{}, err
		}
		if fresh.RefreshedAt.IsZero() {
			fresh.RefreshedAt = time.Now().UTC()
		}
		m.mu.Lock()
		m.cache[owner] = fresh
		m.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return result.(Snapshot), nil
}

// Invalidate drops the cached entry for the owner.
func (m *Mirror) Invalidate(owner string) {
	m.mu.Lock()
	delete(m.cache, owner)
	m.mu.Unlock()
}

// Close detaches the mirror from the bus and waits for the consumer to exit.
func (m *Mirror) Close() {
	m.cancel()
	<-m.done
}

func (m *Mirror) consume(events <-chan Event) {
	defer close(m.done)
	for event := range events {
		m.Invalidate(event.Owner)
	}
}
