package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/mobimart/mobimart-backend/pkg/redis"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

type guestCartStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type guestCartKeyer interface {
	GuestCartKey(token string) string
}

// GuestStore keeps anonymous carts in Redis as one JSON document per guest
// token. Every write refreshes the TTL so an active guest never loses their
// cart mid-session.
type GuestStore struct {
	store guestCartStore
	keyer guestCartKeyer
	ttl   time.Duration
}

var _ Store = (*GuestStore)(nil)

// NewGuestStore constructs a guest cart store backed by Redis.
func NewGuestStore(client *redisclient.Client, ttl time.Duration) (*GuestStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("guest cart ttl must be positive")
	}
	return &GuestStore{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// List returns all lines for the guest token.
func (g *GuestStore) List(ctx context.Context, owner string) ([]Line, error) {
	return g.load(ctx, owner)
}

// Add inserts a line or bumps an existing quantity, then persists the
// document back with a refreshed TTL.
func (g *GuestStore) Add(ctx context.Context, owner string, ref types.ItemRef, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, errors.New("quantity must be positive")
	}

	lines, err := g.load(ctx, owner)
	if err != nil {
		return 0, err
	}

	current := 0
	found := false
	for i := range lines {
		if lines[i].Ref.Equal(ref) {
			lines[i].Quantity += quantity
			current = lines[i].Quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, Line{Ref: ref, Quantity: quantity})
		current = quantity
	}

	if err := g.save(ctx, owner, lines); err != nil {
		return 0, err
	}
	return current, nil
}

// Remove deletes the line and reports whether it existed.
func (g *GuestStore) Remove(ctx context.Context, owner string, ref types.ItemRef) (bool, error) {
	lines, err := g.load(ctx, owner)
	if err != nil {
		return false, err
	}

	kept := lines[:0]
	found := false
	for _, line := range lines {
		if line.Ref.Equal(ref) {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		return false, nil
	}

	if len(kept) == 0 {
		return true, g.Clear(ctx, owner)
	}
	return true, g.save(ctx, owner, kept)
}

// Replace swaps the entire guest cart for the provided lines.
func (g *GuestStore) Replace(ctx context.Context, owner string, lines []Line) error {
	if len(lines) == 0 {
		return g.Clear(ctx, owner)
	}
	return g.save(ctx, owner, lines)
}

// Clear drops the guest cart document.
func (g *GuestStore) Clear(ctx context.Context, owner string) error {
	return g.store.Del(ctx, g.keyer.GuestCartKey(owner))
}

func (g *GuestStore) load(ctx context.Context, owner string) ([]Line, error) {
	raw, err := g.store.Get(ctx, g.keyer.GuestCartKey(owner))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// A corrupt document is unrecoverable; treat it as empty rather
		// than locking the guest out of their cart.
		return nil, nil
	}
	return lines, nil
}

func (g *GuestStore) save(ctx context.Context, owner string, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return g.store.Set(ctx, g.keyer.GuestCartKey(owner), string(payload), g.ttl)
}
