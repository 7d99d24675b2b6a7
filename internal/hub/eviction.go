package hub

import (
	"log/slog"
	"time"

	"github.com/chathive/chat-service/internal/metrics"
)

// Idle-room eviction is a per-room state machine:
//
//	ACTIVE ⇄ IDLE-PENDING → EVICTED
//
// A room enters IDLE-PENDING when its membership drops to zero; any join
// before the timer fires returns it to ACTIVE. At most one timer exists per
// room, and membership is re-checked under the room lock at fire time —
// arm-time state is never trusted.

// armIdleLocked arms the deferred deletion. Caller holds r.mu.
func (h *Hub) armIdleLocked(r *Room) {
	if r.idleTimer != nil {
		r.idleTimer.Stop()
	}
	r.state = roomIdlePending
	r.idleTimer = time.AfterFunc(h.idleWindow, func() { h.evict(r) })
}

// cancelIdleLocked returns the room to ACTIVE. Caller holds r.mu.
func (h *Hub) cancelIdleLocked(r *Room) {
	if r.idleTimer != nil {
		r.idleTimer.Stop()
		r.idleTimer = nil
	}
	if r.state == roomIdlePending {
		r.state = roomActive
	}
}

// evict fires when the idle window elapses. The room is deleted only if it is
// still pending and still empty; EVICTED is terminal for this instance.
func (h *Hub) evict(r *Room) {
	r.mu.Lock()
	if r.state != roomIdlePending || len(r.members) > 0 {
		// A join slipped in between arming and firing.
		r.mu.Unlock()
		return
	}
	r.state = roomEvicted
	r.history = nil
	r.members = make(map[string]Conn)
	r.idleTimer = nil
	r.mu.Unlock()

	// Only drop the registry entry while it still points at this instance,
	// so a recreated room under the same id survives.
	h.registry.removeMatch(r.ID, r)

	metrics.EvictionsTotal.Inc()
	slog.Info("room evicted", "room", r.ID)
}
