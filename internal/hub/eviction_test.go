package hub

import (
	"testing"
	"time"
)

func TestIdleRoomIsEvictedExactlyOnce(t *testing.T) {
	h, _ := newTestHub(t, Options{IdleWindow: 30 * time.Millisecond})

	a := newFakeConn("a", "")
	h.Register(a)
	h.Join(a, JoinRoomPayload{RoomID: "r1", DisplayName: "Ann"})
	h.SendMessage(a, SendMessagePayload{RoomID: "r1", Text: "hi"})
	h.Leave("a", LeaveRoomPayload{RoomID: "r1", DisplayName: "Ann"})

	eventually(t, func() bool { return h.registry.Len() == 0 }, "idle room never evicted")

	// Rejoining the same id yields a fresh room with empty history.
	b := newFakeConn("b", "")
	h.Register(b)
	h.Join(b, JoinRoomPayload{RoomID: "r1", DisplayName: "Bob"})
	hist := historyPayload(t, b.eventsOfType(EvMessageHistory)[0])
	if len(hist.Messages) != 0 {
		t.Fatalf("replay after eviction has %d messages, want 0", len(hist.Messages))
	}
}

func TestRejoinBeforeFireCancelsEviction(t *testing.T) {
	h, _ := newTestHub(t, Options{IdleWindow: 60 * time.Millisecond})

	a := newFakeConn("a", "")
	h.Register(a)
	h.Join(a, JoinRoomPayload{RoomID: "r1", DisplayName: "Ann"})
	h.SendMessage(a, SendMessagePayload{RoomID: "r1", Text: "keep me"})
	h.Leave("a", LeaveRoomPayload{RoomID: "r1", DisplayName: "Ann"})

	h.Join(a, JoinRoomPayload{RoomID: "r1", DisplayName: "Ann"})

	time.Sleep(150 * time.Millisecond)

	r, ok := h.registry.Get("r1")
	if !ok {
		t.Fatal("room evicted despite rejoin")
	}
	snap := r.Snapshot()
	// "keep me" plus Ann's leave notice survive the cancelled timer.
	if len(snap) != 2 {
		t.Fatalf("history length = %d, want 2", len(snap))
	}
}

func TestEvictionRechecksMembershipAtFireTime(t *testing.T) {
	h, _ := newTestHub(t, Options{})

	r := h.registry.ResolveOrCreate("r1")
	r.mu.Lock()
	h.armIdleLocked(r)
	r.mu.Unlock()

	// A member appears between arming and firing without a cancel being
	// observed; the fire must leave the room alone.
	c := newFakeConn("late", "")
	r.mu.Lock()
	r.members["late"] = c
	r.mu.Unlock()

	h.evict(r)

	if r.evicted() {
		t.Fatal("room deleted while occupied")
	}
	if _, ok := h.registry.Get("r1"); !ok {
		t.Fatal("registry entry dropped while occupied")
	}
}

func TestReArmStopsPriorTimer(t *testing.T) {
	h, _ := newTestHub(t, Options{IdleWindow: time.Hour})

	r := h.registry.ResolveOrCreate("r1")
	r.mu.Lock()
	h.armIdleLocked(r)
	first := r.idleTimer
	h.armIdleLocked(r)
	second := r.idleTimer
	r.mu.Unlock()

	if first == second {
		t.Fatal("re-arm reused the prior timer handle")
	}
	if r.evicted() {
		t.Fatal("arming evicted the room")
	}
}

func TestStaleEvictionCannotDropRecreatedRoom(t *testing.T) {
	h, _ := newTestHub(t, Options{})

	old := h.registry.ResolveOrCreate("r1")
	old.mu.Lock()
	h.armIdleLocked(old)
	old.mu.Unlock()

	h.evict(old) // fires and removes the instance

	fresh := h.registry.ResolveOrCreate("r1")
	if fresh == old {
		t.Fatal("registry returned the evicted instance")
	}

	// A late duplicate fire against the old instance must not touch the
	// fresh room.
	h.evict(old)
	if _, ok := h.registry.Get("r1"); !ok {
		t.Fatal("stale eviction removed the recreated room")
	}
}

func TestEphemeralRoomDiesUnjoined(t *testing.T) {
	h, _ := newTestHub(t, Options{IdleWindow: 30 * time.Millisecond})

	id := h.CreateEphemeralRoom()
	if _, ok := h.registry.Get(id); !ok {
		t.Fatal("ephemeral room not registered")
	}

	eventually(t, func() bool {
		_, ok := h.registry.Get(id)
		return !ok
	}, "unjoined ephemeral room never evicted")
}

func TestJoinDuringEvictedInstanceGetsFreshRoom(t *testing.T) {
	h, _ := newTestHub(t, Options{})

	old := h.registry.ResolveOrCreate("r1")
	old.mu.Lock()
	old.state = roomEvicted
	old.mu.Unlock()

	a := newFakeConn("a", "")
	h.Register(a)
	h.Join(a, JoinRoomPayload{RoomID: "r1", DisplayName: "Ann"})

	r, ok := h.registry.Get("r1")
	if !ok || r == old {
		t.Fatal("join did not land in a fresh room")
	}
	if r.MemberCount() != 1 {
		t.Fatalf("fresh room cardinality = %d, want 1", r.MemberCount())
	}
}
