package hub

import (
	"log/slog"
	"strings"

	"github.com/chathive/chat-service/internal/metrics"
)

// Relay passes a call-setup event (signal-offer, signal-answer,
// signal-candidate) to every member of the room except the origin. The payload
// bytes are never inspected or stored; a room with no other members swallows
// the event silently.
func (h *Hub) Relay(eventType, originConnID string, p SignalPayload) {
	r, ok := h.registry.Get(p.RoomID)
	if !ok {
		return
	}

	out := SignalPayload{RoomID: p.RoomID, From: originConnID, Data: p.Data}
	r.mu.Lock()
	r.touchLocked()
	r.broadcastLocked(Event{Type: eventType, Payload: out}, originConnID)
	r.mu.Unlock()

	metrics.SignalsRelayed.WithLabelValues(strings.TrimPrefix(eventType, "signal-")).Inc()
	slog.Debug("signal relayed", "type", eventType, "room", p.RoomID, "from", originConnID)
}
