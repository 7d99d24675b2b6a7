package hub

import (
	"context"
	"log/slog"
	"time"

	"github.com/chathive/chat-service/internal/domain"
	"github.com/chathive/chat-service/internal/metrics"
)

// Notify pushes a notification to every live session of the addressed user —
// zero, one or many — and records it durably through the store. Live delivery
// is the only guarantee this side makes; store-and-forward for offline users
// belongs to the durable record.
func (h *Hub) Notify(n domain.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	h.mu.RLock()
	conns := make([]Conn, 0, len(h.users[n.UserID]))
	for _, c := range h.users[n.UserID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		_ = c.Send(Event{Type: EvNotification, Payload: n}) // best-effort
		metrics.NotificationsDelivered.Inc()
	}

	h.async("append notification", func(ctx context.Context) error {
		return h.store.AppendNotification(ctx, n)
	})

	slog.Info("notification fanned out", "user", n.UserID, "sessions", len(conns), "kind", n.Kind)
}
