package hub

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryResolveOrCreateSingleInstance(t *testing.T) {
	reg := NewRegistry(0)

	const workers = 32
	var wg sync.WaitGroup
	rooms := make([]*Room, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rooms[i] = reg.ResolveOrCreate("r1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if rooms[i] != rooms[0] {
			t.Fatalf("ResolveOrCreate returned distinct instances for the same id")
		}
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistryRemoveUnknownIsNoOp(t *testing.T) {
	reg := NewRegistry(0)
	reg.Remove("does-not-exist") // must not panic
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistryReplacesEvictedInstance(t *testing.T) {
	reg := NewRegistry(0)
	old := reg.ResolveOrCreate("r1")

	old.mu.Lock()
	old.state = roomEvicted
	old.mu.Unlock()

	fresh := reg.ResolveOrCreate("r1")
	if fresh == old {
		t.Fatal("ResolveOrCreate returned the evicted instance")
	}
	if fresh.evicted() {
		t.Fatal("replacement room is already evicted")
	}
}

func TestRegistryIndependentRooms(t *testing.T) {
	reg := NewRegistry(0)
	for i := 0; i < 5; i++ {
		reg.ResolveOrCreate(fmt.Sprintf("room-%d", i))
	}
	if reg.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", reg.Len())
	}

	reg.Remove("room-3")
	if reg.Len() != 4 {
		t.Fatalf("Len() after Remove = %d, want 4", reg.Len())
	}
	if _, ok := reg.Get("room-3"); ok {
		t.Fatal("removed room still resolvable")
	}
	if _, ok := reg.Get("room-2"); !ok {
		t.Fatal("unrelated room lost")
	}
}
