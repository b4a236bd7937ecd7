package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMirrorCachesSnapshots(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	var calls int64
	mirror, err := NewMirror(bus, func(ctx context.Context, owner string) (Snapshot, error) {
		atomic.AddInt64(&calls, 1)
		return Snapshot{Cart: owner}, nil
	})
	if err != nil {
		t.Fatalf("new mirror: %v", err)
	}
	defer mirror.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		snapshot, err := mirror.Get(ctx, "user-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if snapshot.Cart != "user-1" {
			t.Fatalf("unexpected snapshot %+v", snapshot)
		}
		if snapshot.RefreshedAt.IsZero() {
			t.Fatal("expected refreshed_at to be stamped")
		}
	}

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected one upstream fetch, got %d", got)
	}
}

func TestMirrorInvalidatesOnBusEvent(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	var calls int64
	mirror, err := NewMirror(bus, func(ctx context.Context, owner string) (Snapshot, error) {
		atomic.AddInt64(&calls, 1)
		return Snapshot{}, nil
	})
	if err != nil {
		t.Fatalf("new mirror: %v", err)
	}
	defer mirror.Close()

	ctx := context.Background()
	if _, err := mirror.Get(ctx, "user-1"); err != nil {
		t.Fatalf("get: %v", err)
	}

	bus.Publish(Event{Owner: "user-1", Scope: ScopeCart, Action: "added"})

	// The consumer goroutine invalidates asynchronously.
	deadline := time.Now().Add(time.Second)
	for {
		if _, err := mirror.Get(ctx, "user-1"); err != nil {
			t.Fatalf("get after event: %v", err)
		}
		if atomic.LoadInt64(&calls) >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("mirror never refetched after bus event")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMirrorCoalescesConcurrentFetches(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	release := make(chan struct{})
	var calls int64
	mirror, err := NewMirror(bus, func(ctx context.Context, owner string) (Snapshot, error) {
		atomic.AddInt64(&calls, 1)
		<-release
		return Snapshot{Cart: owner}, nil
	})
	if err != nil {
		t.Fatalf("new mirror: %v", err)
	}
	defer mirror.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := mirror.Get(ctx, "user-1"); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected coalesced fetch, got %d calls", got)
	}
}

func TestMirrorRejectsMissingDeps(t *testing.T) {
	if _, err := NewMirror(nil, func(ctx context.Context, owner string) (Snapshot, error) {
		return Snapshot{}, nil
	}); err == nil {
		t.Fatal("expected error for nil bus")
	}

	bus := NewBus(4)
	defer bus.Close()
	if _, err := NewMirror(bus, nil); err == nil {
		t.Fatal("expected error for nil fetch func")
	}
}
